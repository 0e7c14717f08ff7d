// Package export writes simulated trajectories as CSV, JSON and PNG.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/san-kum/seirb/internal/epidemic"
)

// CSVHeader is the first row written by WriteCSV.
var CSVHeader = []string{"day", "S", "E", "I", "R", "B"}

func WriteCSV(w io.Writer, tr *epidemic.Trajectory) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(CSVHeader); err != nil {
		return err
	}

	row := make([]string, len(CSVHeader))
	for i := 0; i < tr.Len(); i++ {
		row[0] = strconv.FormatFloat(tr.Times[i], 'f', -1, 64)
		for j, v := range tr.State(i) {
			row[j+1] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadCSV parses a file produced by WriteCSV back into series.
func ReadCSV(r io.Reader) (*epidemic.Trajectory, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(CSVHeader)

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("missing header")
	}
	for i, name := range CSVHeader {
		if records[0][i] != name {
			return nil, fmt.Errorf("unexpected column %q, want %q", records[0][i], name)
		}
	}

	tr := &epidemic.Trajectory{}
	cols := []*[]float64{&tr.Times, &tr.S, &tr.E, &tr.I, &tr.R, &tr.B}
	for n, record := range records[1:] {
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", n+2, err)
			}
			*cols[j] = append(*cols[j], v)
		}
	}
	return tr, nil
}
