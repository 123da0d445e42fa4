package transformer

import "sirnaetl/internal/dataset"

// text builds a text column; "" cells are missing.
func text(name string, vals ...string) dataset.Column {
	c := dataset.Column{Name: name, Kind: dataset.Text, Values: make([]dataset.Value, len(vals))}
	for i, v := range vals {
		if v != "" {
			c.Values[i] = dataset.TextOf(v)
		}
	}
	return c
}

func cells(d *dataset.Dataset, name string) []string {
	c, ok := d.Column(name)
	if !ok {
		return nil
	}
	out := make([]string, len(c.Values))
	for i, v := range c.Values {
		out[i] = v.String()
	}
	return out
}
