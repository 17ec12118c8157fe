// Package renderer writes bookkeeping reports as Markdown, CSV and Excel.
package renderer

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"text/template"

	"github.com/etnz/bookkeeping"
)

//go:embed templates/*.md
var templates embed.FS

// Markdown writes one table of positions per portfolio, followed by the
// totals per currency. Absent values are empty cells.
func Markdown(w io.Writer, r *bookkeeping.Report, opts Options) error {
	partials := map[string]string{
		"positions_table": "templates/positions_table.md",
		"totals_table":    "templates/totals_table.md",
	}
	return renderTemplate(w, "positions", "templates/positions.md", partials, newReportView(r, opts))
}

// Transactions writes the transaction history of every position, synthetic
// legs included.
func Transactions(w io.Writer, r *bookkeeping.Report, opts Options) error {
	return renderTemplate(w, "transactions", "templates/transactions.md", nil, newReportView(r, opts))
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(w io.Writer, templateName, mainFile string, partials map[string]string, data any) error {
	mainContent, err := fs.ReadFile(templates, mainFile)
	if err != nil {
		return fmt.Errorf("error reading main template %q: %w", mainFile, err)
	}

	tmpl, err := template.New(templateName).Parse(string(mainContent))
	if err != nil {
		return fmt.Errorf("error parsing main template %q: %w", mainFile, err)
	}

	for name, file := range partials {
		content, err := fs.ReadFile(templates, file)
		if err != nil {
			return fmt.Errorf("error reading partial template %q: %w", file, err)
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Errorf("error parsing partial template %q for %q: %w", file, name, err)
		}
	}

	if err := tmpl.ExecuteTemplate(w, templateName, data); err != nil {
		return fmt.Errorf("error executing template %q: %w", templateName, err)
	}
	return nil
}
