// Package config loads the settings of the bk command from a TOML file with
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/etnz/bookkeeping"
	"github.com/etnz/bookkeeping/reader"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// DefaultFile is the configuration file read when none is given.
const DefaultFile = "bookkeeping.toml"

// Config holds every setting.
type Config struct {
	Currency  string                         `toml:"currency"`
	Valuation bookkeeping.InventoryValuation `toml:"valuation"`
	Scale     int32                          `toml:"scale"`
	Language  string                         `toml:"language"`
	LogLevel  string                         `toml:"log_level"`
	Prices    string                         `toml:"prices"` // price file
	Quote     QuoteConfig                    `toml:"quote"`
	Reader    ReaderConfig                   `toml:"reader"`
}

// QuoteConfig configures the HTTP price source.
type QuoteConfig struct {
	URL      string  `toml:"url"`      // template, "{ticker}" is replaced
	Path     string  `toml:"path"`     // JSONPath of the price
	Currency string  `toml:"currency"` // code, or JSONPath when starting with "$"
	Rate     float64 `toml:"rate"`     // requests per second
	Cache    bool    `toml:"cache"`    // keep responses on disk for the day
	CacheDir string  `toml:"cache_dir"`
}

// ReaderConfig configures the transaction readers.
type ReaderConfig struct {
	Portfolio string               `toml:"portfolio"`
	JSON      []reader.JSONMapping `toml:"json"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Valuation: bookkeeping.FIFO,
		Scale:     bookkeeping.DefaultScale,
		Language:  "en",
		LogLevel:  "info",
		Quote: QuoteConfig{
			Rate: 5,
		},
	}
}

// Load reads the configuration file at path over the defaults, then applies
// the environment, including the variables of a .env file in the working
// directory. A missing file is not an error.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()
	return load(path, os.LookupEnv)
}

func load(path string, lookup func(string) (string, bool)) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		default:
			if err := toml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
			}
		}
	}
	if err := cfg.applyEnv(lookup); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

// applyEnv overrides settings with BK_* variables.
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	get := func(key string) string {
		v, _ := lookup(key)
		return strings.TrimSpace(v)
	}
	if v := get("BK_CURRENCY"); v != "" {
		c.Currency = v
	}
	if v := get("BK_VALUATION"); v != "" {
		if err := c.Valuation.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("BK_VALUATION: %w", err)
		}
	}
	if v := get("BK_SCALE"); v != "" {
		scale, err := strconv.ParseInt(v, 10, 32)
		if err != nil {
			return fmt.Errorf("BK_SCALE: %w", err)
		}
		c.Scale = int32(scale)
	}
	if v := get("BK_LANGUAGE"); v != "" {
		c.Language = v
	}
	if v := get("BK_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := get("BK_PRICES"); v != "" {
		c.Prices = v
	}
	if v := get("BK_QUOTE_URL"); v != "" {
		c.Quote.URL = v
	}
	return nil
}

// Validate checks the settings. The currency is normalized to upper case.
func (c *Config) Validate() error {
	if c.Currency != "" {
		c.Currency = strings.ToUpper(c.Currency)
		if err := bookkeeping.ValidateCurrency(c.Currency); err != nil {
			return err
		}
	}
	if c.Scale < 0 {
		return fmt.Errorf("invalid scale %d", c.Scale)
	}
	if c.Quote.Rate < 0 {
		return fmt.Errorf("invalid quote rate %v", c.Quote.Rate)
	}
	return nil
}

// Options returns the engine options.
func (c *Config) Options() bookkeeping.Options {
	return bookkeeping.Options{Currency: c.Currency, Valuation: c.Valuation, Scale: c.Scale}
}
