package market

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/bookkeeping"
	"github.com/etnz/bookkeeping/date"
	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const (
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 5 // requests per second
	DefaultWorkers   = 4
)

// ErrNoPrice is returned when a quote response holds no usable price.
var ErrNoPrice = errors.New("no price in quote")

// Quote fetches prices from a JSON HTTP API.
//
// The request URL is a template where "{ticker}" is replaced by the escaped
// ticker; the price and, optionally, the currency are located in the
// response with JSONPath expressions.
type Quote struct {
	url          string
	pricePath    string
	currencyPath string
	currency     string

	httpClient *http.Client
	diskCache  bool
	cacheDir   string
	limiter    *rate.Limiter
	memo       *cache.Cache
	workers    int
	now        func() time.Time
	log        zerolog.Logger
}

// QuoteOption configures a Quote.
type QuoteOption func(*Quote)

// WithRateLimit sets the number of requests per second.
func WithRateLimit(requestsPerSecond float64) QuoteOption {
	return func(q *Quote) {
		burst := int(requestsPerSecond)
		if burst < 1 {
			burst = 1
		}
		q.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
	}
}

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(c *http.Client) QuoteOption {
	return func(q *Quote) { q.httpClient = c }
}

// WithDiskCache keeps responses in dir for the day. An empty dir uses the
// system temporary directory.
func WithDiskCache(dir string) QuoteOption {
	return func(q *Quote) {
		q.diskCache = true
		q.cacheDir = dir
	}
}

// WithCurrency sets the currency of quotes, or the JSONPath to read it from
// when it starts with "$".
func WithCurrency(currency string) QuoteOption {
	return func(q *Quote) {
		if strings.HasPrefix(currency, "$") {
			q.currencyPath = currency
			return
		}
		q.currency = strings.ToUpper(currency)
	}
}

// WithWorkers sets the number of concurrent requests of Fetch.
func WithWorkers(n int) QuoteOption {
	return func(q *Quote) { q.workers = max(1, n) }
}

// WithLogger sets the logger.
func WithLogger(log zerolog.Logger) QuoteOption {
	return func(q *Quote) { q.log = log }
}

// WithClock sets the clock used to date quotes.
func WithClock(now func() time.Time) QuoteOption {
	return func(q *Quote) { q.now = now }
}

// NewQuote returns a Quote reading the price at pricePath in the responses
// of urlTemplate.
func NewQuote(urlTemplate, pricePath string, opts ...QuoteOption) *Quote {
	q := &Quote{
		url:        urlTemplate,
		pricePath:  pricePath,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		memo:       cache.New(15*time.Minute, 30*time.Minute),
		workers:    DefaultWorkers,
		now:        date.Today,
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(q)
	}
	if q.diskCache {
		client := *q.httpClient
		client.Transport = newDiskCache(client.Transport, q.cacheDir, q.log)
		q.httpClient = &client
	}
	return q
}

// Get returns the current price of ticker.
func (q *Quote) Get(ctx context.Context, ticker string) (bookkeeping.MarketPrice, error) {
	if v, ok := q.memo.Get(ticker); ok {
		return v.(bookkeeping.MarketPrice), nil
	}
	if err := q.limiter.Wait(ctx); err != nil {
		return bookkeeping.MarketPrice{}, fmt.Errorf("rate limit wait: %w", err)
	}

	reqURL := strings.ReplaceAll(q.url, "{ticker}", url.PathEscape(ticker))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return bookkeeping.MarketPrice{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := q.httpClient.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		q.log.Error().Err(err).Str("ticker", ticker).Dur("elapsed", elapsed).Msg("quote request failed")
		return bookkeeping.MarketPrice{}, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		q.log.Warn().Str("ticker", ticker).Int("status", resp.StatusCode).Dur("elapsed", elapsed).Msg("quote non-OK response")
		return bookkeeping.MarketPrice{}, fmt.Errorf("cannot http GET %v%v: %v", resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	}

	var doc any
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return bookkeeping.MarketPrice{}, fmt.Errorf("failed to decode response: %w", err)
	}

	unit, err := number(q.pricePath, doc)
	if err != nil {
		return bookkeeping.MarketPrice{}, fmt.Errorf("%s: %w", ticker, err)
	}
	price := bookkeeping.MarketPrice{UnitPrice: unit, Currency: q.currency, Date: q.now()}
	if q.currencyPath != "" {
		if cur, err := first(q.currencyPath, doc); err == nil {
			price.Currency = strings.ToUpper(fmt.Sprint(cur))
		}
	}

	q.log.Info().Str("ticker", ticker).Str("price", unit.String()).Int("status", resp.StatusCode).Dur("elapsed", elapsed).Msg("quote")
	q.memo.Set(ticker, price, cache.DefaultExpiration)
	return price, nil
}

// Fetch returns the prices of all tickers. The first failure cancels the
// remaining requests.
func (q *Quote) Fetch(ctx context.Context, tickers []string) (Prices, error) {
	results := make([]bookkeeping.MarketPrice, len(tickers))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(q.workers)
	for i, ticker := range tickers {
		g.Go(func() error {
			price, err := q.Get(ctx, ticker)
			if err != nil {
				return err
			}
			results[i] = price
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	prices := make(Prices, len(tickers))
	for i, ticker := range tickers {
		prices.Set(ticker, results[i])
	}
	return prices, nil
}

// first evaluates path on doc and returns its first answer.
func first(path string, doc any) (any, error) {
	jval, err := jsonpath.Get(path, doc)
	if err != nil {
		return nil, fmt.Errorf("error evaluating %q: %w", path, err)
	}
	// because jsonpath is never clear about whether it returns a list of 1
	// answer, or a single answer: keep the first one if any.
	if jlist, ok := jval.([]any); ok {
		if len(jlist) == 0 {
			return nil, fmt.Errorf("%w: %q matches nothing", ErrNoPrice, path)
		}
		jval = jlist[0]
	}
	return jval, nil
}

// number reads the decimal at path. Some APIs return numbers as strings,
// possibly with a decimal comma.
func number(path string, doc any) (decimal.Decimal, error) {
	jval, err := first(path, doc)
	if err != nil {
		return decimal.Zero, err
	}
	var s string
	switch v := jval.(type) {
	case json.Number:
		s = v.String()
	case string:
		s = strings.ReplaceAll(strings.ReplaceAll(v, " ", ""), ",", ".")
	default:
		return decimal.Zero, fmt.Errorf("%w: %q is %T", ErrNoPrice, path, jval)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q is %q", ErrNoPrice, path, s)
	}
	if d.IsZero() {
		return decimal.Zero, fmt.Errorf("%w: %q is zero", ErrNoPrice, path)
	}
	return d, nil
}
