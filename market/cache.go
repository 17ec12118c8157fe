package market

import (
	"bufio"
	"bytes"
	"crypto/sha1"
	"fmt"
	"net/http"
	"net/http/httputil"
	"os"
	"path/filepath"
	"time"

	"github.com/etnz/bookkeeping/date"
	"github.com/rs/zerolog"
)

// diskCache is an http.RoundTripper keeping successful responses on disk.
// Keys include the current day, so that cached entries expire every day.
type diskCache struct {
	base  http.RoundTripper
	dir   string
	today func() time.Time
	log   zerolog.Logger
}

func newDiskCache(base http.RoundTripper, dir string, log zerolog.Logger) *diskCache {
	if base == nil {
		base = http.DefaultTransport
	}
	if dir == "" {
		dir = os.TempDir()
	}
	return &diskCache{base: base, dir: dir, today: date.Today, log: log}
}

func (c *diskCache) RoundTrip(req *http.Request) (*http.Response, error) {
	key := fmt.Sprintf("%s %s %s", c.today().Format(date.Format), req.Method, req.URL.String())
	key = fmt.Sprintf("bk-%x", sha1.Sum([]byte(key)))

	if resp, err := c.get(key, req); err == nil {
		c.log.Debug().Str("url", req.URL.String()).Msg("cache hit")
		return resp, nil
	}

	resp, err := c.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	c.log.Debug().Str("method", req.Method).Str("host", req.URL.Host).Str("path", req.URL.Path).Str("status", resp.Status).Msg("http request")
	if resp.StatusCode >= 300 {
		return resp, nil
	}
	if err := c.put(key, resp); err != nil {
		c.log.Warn().Err(err).Msg("cache write failed (ignored)")
	}
	return resp, nil
}

// get retrieves a cached response from disk.
func (c *diskCache) get(key string, req *http.Request) (*http.Response, error) {
	content, err := os.ReadFile(filepath.Join(c.dir, key))
	if err != nil {
		return nil, err
	}
	return http.ReadResponse(bufio.NewReader(bytes.NewReader(content)), req)
}

// put stores a response to disk. DumpResponse leaves resp.Body readable.
func (c *diskCache) put(key string, resp *http.Response) error {
	content, err := httputil.DumpResponse(resp, true)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.dir, key), content, 0o644)
}
