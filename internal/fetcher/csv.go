package fetcher

import (
	"encoding/csv"
	"io"

	"github.com/rotisserie/eris"
)

// CSVOptions configures the CSV parser.
type CSVOptions struct {
	Delimiter  rune // default ','
	SkipRows   int  // number of header rows to skip
	LazyQuotes bool
}

// ReadCSV reads all CSV rows from r as string slices. Rows may have a
// variable number of fields.
func ReadCSV(r io.Reader, opts CSVOptions) ([][]string, error) {
	reader := csv.NewReader(r)
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	reader.LazyQuotes = opts.LazyQuotes
	reader.FieldsPerRecord = -1

	var rows [][]string
	for i := 0; ; i++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrapf(err, "csv: read row %d", i)
		}
		if i < opts.SkipRows {
			continue
		}
		rows = append(rows, row)
	}

	return rows, nil
}
