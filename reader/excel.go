package reader

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// readExcel reads the first sheet of a workbook. Cells are read raw, so dates
// arrive as serial day numbers.
func readExcel(ctx context.Context, in io.Reader) ([]row, error) {
	f, err := excelize.OpenReader(in)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheet")
	}
	cells, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("sheet %q: %w", sheets[0], err)
	}

	rows := make([]row, 0, len(cells))
	for i, c := range cells {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rows = append(rows, row{Line: i + 1, Cells: c})
	}
	return rows, nil
}
