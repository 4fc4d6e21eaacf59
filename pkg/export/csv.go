package export

import (
	"encoding/csv"
	"io"

	"github.com/agentstation/learnmerge/pkg/reconcile"
)

// GapHeaders is the header row of the gap CSV.
var GapHeaders = []string{
	"Primary Email",
	"Secondary Email",
	"Missing Course (Column Name)",
	"Platform Source",
	"Status in Secondary",
	"Status in Primary",
}

// GapCSV writes one row per migration step across all pairs.
func GapCSV(w io.Writer, pairs []reconcile.MatchedPair) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(GapHeaders); err != nil {
		return err
	}
	for _, p := range pairs {
		source := p.Secondary().Platform.String()
		for _, step := range p.MigrationSteps {
			row := []string{
				p.PrimaryEmail,
				p.SecondaryEmail,
				step.CourseName,
				source,
				"Completed",
				"Missing or Not Completed",
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
