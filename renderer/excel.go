package renderer

import (
	"fmt"
	"io"
	"strings"

	"github.com/etnz/bookkeeping"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Excel writes a workbook with one sheet per portfolio. Amounts are numeric
// cells, absent values are empty cells.
func Excel(w io.Writer, r *bookkeeping.Report, opts Options) error {
	f := excelize.NewFile()
	defer f.Close()

	l := LabelsFor(opts.Language)
	header := positionHeader(l)[1:] // the sheet names the portfolio
	first := true
	for p := range r.Portfolios() {
		sheet := sheetName(p.Name)
		if first {
			if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
				return err
			}
			first = false
		} else if _, err := f.NewSheet(sheet); err != nil {
			return err
		}

		if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
			return err
		}
		line := 2
		for pos := range p.Positions() {
			cell, err := excelize.CoordinatesToCellName(1, line)
			if err != nil {
				return err
			}
			values := []any{
				pos.Ticker(), pos.Currency(),
				number(decimal.NewNullDecimal(pos.Quantity())),
				number(pos.AveragePrice()),
				number(pos.InvestedAmount()),
				number(pos.MarketValue()),
				number(pos.ProfitAndLoss()),
				number(pos.ProfitAndLossPercent()),
				number(decimal.NewNullDecimal(pos.Deposits())),
				number(decimal.NewNullDecimal(pos.Withdrawals())),
				number(decimal.NewNullDecimal(pos.Costs())),
			}
			if err := f.SetSheetRow(sheet, cell, &values); err != nil {
				return err
			}
			line++
		}
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("cannot write workbook: %w", err)
	}
	return nil
}

// number returns a cell value, nil for an absent one.
func number(d decimal.NullDecimal) any {
	if !d.Valid {
		return nil
	}
	return d.Decimal.InexactFloat64()
}

// sheetName returns a valid, at most 31 characters, sheet name.
func sheetName(name string) string {
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(`[]:*?/\`, r) {
			return '_'
		}
		return r
	}, name)
	if name == "" {
		name = "_"
	}
	if runes := []rune(name); len(runes) > 31 {
		name = string(runes[:31])
	}
	return name
}
