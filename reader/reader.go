// Package reader parses transaction records from CSV, Markdown, Excel and
// JSON files into normalized bookkeeping transactions.
//
// All formats are header driven: the first row names the columns, in any
// order and any case. Recognized columns are portfolio, type, date, ticker,
// quantity, price, fee, currency, valuation, transfer_id, trade_id and
// order_id.
package reader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/etnz/bookkeeping"
	"github.com/rs/zerolog"
)

// ErrUnknownFormat is returned for files whose extension has no reader.
var ErrUnknownFormat = errors.New("unknown file format")

// Reader reads transaction files.
type Reader struct {
	portfolio string
	mappings  []JSONMapping
	log       zerolog.Logger
}

// Option configures a Reader.
type Option func(*Reader)

// WithPortfolio sets the portfolio of records without a portfolio column.
// By default it is the base name of the file being read.
func WithPortfolio(name string) Option {
	return func(r *Reader) { r.portfolio = name }
}

// WithJSON adds JSON export mappings. The first mapping matching the file
// name is used; DefaultJSONMapping applies when none does.
func WithJSON(mappings ...JSONMapping) Option {
	return func(r *Reader) { r.mappings = append(r.mappings, mappings...) }
}

// WithLogger sets the logger.
func WithLogger(log zerolog.Logger) Option {
	return func(r *Reader) { r.log = log }
}

// New returns a Reader.
func New(opts ...Option) *Reader {
	r := &Reader{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Read parses in, using the extension of name to pick the format.
func (r *Reader) Read(ctx context.Context, name string, in io.Reader) ([]bookkeeping.Transaction, error) {
	var (
		rows []row
		err  error
	)
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".csv":
		rows, err = readCSV(ctx, in)
	case ".md", ".markdown":
		rows, err = readMarkdown(ctx, in)
	case ".xlsx":
		rows, err = readExcel(ctx, in)
	case ".json":
		rows, err = readJSON(ctx, in, r.mapping(name))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read %q: %w", name, err)
	}

	portfolio := r.portfolio
	if portfolio == "" {
		portfolio = strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	}
	txs, err := r.transactions(ctx, portfolio, rows)
	if err != nil {
		return nil, fmt.Errorf("cannot read %q: %w", name, err)
	}
	r.log.Debug().Str("file", name).Int("transactions", len(txs)).Msg("read transactions")
	return txs, nil
}

// ReadFile reads the transactions of the file at path.
func (r *Reader) ReadFile(ctx context.Context, path string) ([]bookkeeping.Transaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return r.Read(ctx, path, f)
}

// ReadFiles reads every file and merges the results, see Merge.
func (r *Reader) ReadFiles(ctx context.Context, paths ...string) ([]bookkeeping.Transaction, error) {
	lists := make([][]bookkeeping.Transaction, 0, len(paths))
	for _, path := range paths {
		txs, err := r.ReadFile(ctx, path)
		if err != nil {
			return nil, err
		}
		lists = append(lists, txs)
	}
	return Merge(lists...), nil
}

func (r *Reader) mapping(name string) JSONMapping {
	base := filepath.Base(name)
	for _, m := range r.mappings {
		if m.Match == "" {
			return m
		}
		if ok, _ := filepath.Match(m.Match, base); ok {
			return m
		}
	}
	return DefaultJSONMapping()
}
