package builtin

import "sirnaetl/internal/dataset"

// DropColumns removes the listed columns when present.
type DropColumns struct {
	Names []string
}

// Apply returns the narrowed dataset and the names actually removed, in
// dataset order.
func (d DropColumns) Apply(in *dataset.Dataset) (*dataset.Dataset, []string) {
	var present []string
	for _, name := range in.Names() {
		for _, n := range d.Names {
			if n == name {
				present = append(present, name)
				break
			}
		}
	}
	if len(present) == 0 {
		return in, nil
	}
	return in.Drop(present...), present
}
