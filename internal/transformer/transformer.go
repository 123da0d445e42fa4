// Package transformer holds the dataset shaping stages of the pipeline:
// Merge joins the two source sheets, Clean drops noise, and Derive produces
// the typed columns that get loaded.
//
// Every stage takes a dataset and returns a new one; inputs are never
// modified.
package transformer

// Column names the stages agree on.
const (
	KeyColumn           = "SMDB_id"
	KeyAlias            = "SMDBid"
	ConcentrationColumn = "Concentration"
	DurationColumn      = "Duration after transfection"

	ConcentrationNew = "Concentration new"
	IDNew            = "id_"
	DurationNew      = "Duration after transfection new"
)

// DroppedColumns are removed by Clean when present. Efficacy_y is the right
// side copy left behind by Merge's suffixing.
var DroppedColumns = []string{
	"Melting point (°C)",
	"Reference Link",
	"Field1_links",
	"Trust",
	"Efficacy_y",
	"Field8_links",
	"Reference",
}

// RequiredColumns must be present on every row that survives Clean.
var RequiredColumns = []string{
	"Experiment used to check activity",
	"Target gene",
	"Cell or Organism used",
	"Transfection method",
	"siRNA sense",
	"siRNA antisense",
	"Modification sense",
	"Modification antisense",
	"Position sense",
	"Position antisense",
}
