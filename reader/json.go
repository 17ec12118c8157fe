package reader

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/PaesslerAG/jsonpath"
)

// JSONMapping locates transactions in a JSON export.
type JSONMapping struct {
	// Match is a file name pattern (filepath.Match syntax); empty matches all.
	Match string `toml:"match"`
	// Trades is the JSONPath of the list of records.
	Trades string `toml:"trades"`
	// Fields maps column names to JSONPaths evaluated on each record.
	Fields map[string]string `toml:"fields"`
}

// DefaultJSONMapping reads $.trades[*] with one field per column name.
func DefaultJSONMapping() JSONMapping {
	fields := make(map[string]string, len(columns))
	for _, col := range columns {
		fields[col] = "$." + col
	}
	return JSONMapping{Trades: "$.trades[*]", Fields: fields}
}

var columns = []string{"portfolio", "type", "date", "ticker", "quantity", "price", "fee", "currency", "valuation", "transfer_id", "trade_id", "order_id"}

// readJSON evaluates the mapping on the document and returns a header row
// followed by one row per record.
func readJSON(ctx context.Context, in io.Reader, m JSONMapping) ([]row, error) {
	var doc any
	dec := json.NewDecoder(in)
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}

	trades := m.Trades
	if trades == "" {
		trades = "$.trades[*]"
	}
	jval, err := jsonpath.Get(trades, doc)
	if err != nil {
		return nil, fmt.Errorf("error evaluating %q: %w", trades, err)
	}
	records, ok := jval.([]any)
	if !ok {
		records = []any{jval}
	}

	var cols []string
	for _, col := range columns {
		if _, ok := m.Fields[col]; ok {
			cols = append(cols, col)
		}
	}
	rows := []row{{Line: 0, Cells: cols}}
	for i, rec := range records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		cells := make([]string, len(cols))
		for j, col := range cols {
			cells[j] = field(m.Fields[col], rec)
		}
		rows = append(rows, row{Line: i + 1, Cells: cells})
	}
	return rows, nil
}

// field evaluates path on rec, missing values are empty.
func field(path string, rec any) string {
	jval, err := jsonpath.Get(path, rec)
	if err != nil {
		return ""
	}
	// because jsonpath is never clear about whether it returns a list of 1
	// answer, or a single answer: keep the first one if any.
	if jlist, ok := jval.([]any); ok {
		if len(jlist) == 0 {
			return ""
		}
		jval = jlist[0]
	}
	switch v := jval.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}
