package reader

import (
	"context"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// readMarkdown reads the first table of a markdown document.
func readMarkdown(ctx context.Context, in io.Reader) ([]row, error) {
	content, err := io.ReadAll(in)
	if err != nil {
		return nil, err
	}

	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	root := md.Parser().Parse(text.NewReader(content))

	var rows []row
	err = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if err := ctx.Err(); err != nil {
			return ast.WalkStop, err
		}
		switch n.(type) {
		case *east.TableHeader, *east.TableRow:
			rows = append(rows, row{Line: lineNumber(content, n), Cells: cells(n, content)})
			return ast.WalkSkipChildren, nil
		case *east.Table:
			if len(rows) > 0 {
				// only the first table.
				return ast.WalkStop, nil
			}
		}
		return ast.WalkContinue, nil
	})
	return rows, err
}

// cells returns the text of each cell of a table row.
func cells(n ast.Node, source []byte) []string {
	var out []string
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if _, ok := c.(*east.TableCell); ok {
			out = append(out, strings.TrimSpace(inlineText(c, source)))
		}
	}
	return out
}

// inlineText concatenates the text segments below n.
func inlineText(n ast.Node, source []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := n.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(source))
			if t.SoftLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}

// lineNumber returns the source line of the first text of n, or 0.
func lineNumber(source []byte, n ast.Node) int {
	offset := -1
	_ = ast.Walk(n, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if t, ok := n.(*ast.Text); ok && entering {
			offset = t.Segment.Start
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})
	if offset < 0 {
		return 0
	}
	return strings.Count(string(source[:offset]), "\n") + 1
}
