package reader

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"io"
)

// readCSV reads comma or semicolon separated values. The separator is
// guessed from the header line.
func readCSV(ctx context.Context, in io.Reader) ([]row, error) {
	content, err := io.ReadAll(in)
	if err != nil {
		return nil, err
	}

	cr := csv.NewReader(bytes.NewReader(content))
	cr.Comma = separator(content)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	var rows []row
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		cells, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
		line, _ := cr.FieldPos(0)
		rows = append(rows, row{Line: line, Cells: cells})
	}
}

// separator returns ';' when the first line has more semicolons than commas.
func separator(content []byte) rune {
	first, _, _ := bytes.Cut(content, []byte("\n"))
	if bytes.Count(first, []byte(";")) > bytes.Count(first, []byte(",")) {
		return ';'
	}
	return ','
}
