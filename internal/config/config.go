// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SignPlot Contributors

// Package config loads and validates the SignPlot configuration from a
// YAML file layered with command-line flags.
package config

import (
	"os"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"

	"github.com/signplot/signplot/internal/quota"
	"github.com/signplot/signplot/internal/sign"
	"github.com/signplot/signplot/internal/world"
)

// Config is the full configuration surface.
type Config struct {
	Log           LogConfig           `koanf:"log" json:"log"`
	Database      DatabaseConfig      `koanf:"database" json:"database"`
	Observability ObservabilityConfig `koanf:"observability" json:"observability"`
	Sign          SignConfig          `koanf:"sign" json:"sign"`
	Tax           TaxConfig           `koanf:"tax" json:"tax"`
	Quota         QuotaConfig         `koanf:"quota" json:"quota"`
	Lang          map[string]string   `koanf:"lang" json:"lang,omitempty" jsonschema:"description=Message template overrides keyed by event name"`
}

// LogConfig controls structured logging output.
type LogConfig struct {
	// Format is "json" or "text".
	Format string `koanf:"format" json:"format" jsonschema:"enum=json,enum=text"`
	// Level is the minimum level: "debug", "info", "warn" or "error".
	Level string `koanf:"level" json:"level" jsonschema:"enum=debug,enum=info,enum=warn,enum=error"`
}

// DatabaseConfig points at the region/account store.
type DatabaseConfig struct {
	// URL is a postgres connection string. Empty runs the in-memory
	// store.
	URL string `koanf:"url" json:"url,omitempty"`
}

// ObservabilityConfig controls the metrics/health HTTP listener.
type ObservabilityConfig struct {
	// Addr is the listen address. Empty disables the listener.
	Addr string `koanf:"addr" json:"addr,omitempty"`
}

// SignConfig controls sign text and refresh behavior.
type SignConfig struct {
	Keyword         string   `koanf:"keyword" json:"keyword" jsonschema:"description=Line-1 sentinel marking a sale sign"`
	SellLines       []string `koanf:"sell-lines" json:"sell-lines,omitempty" jsonschema:"maxItems=4"`
	SoldLines       []string `koanf:"sold-lines" json:"sold-lines,omitempty" jsonschema:"maxItems=4"`
	LinePrefixes    []string `koanf:"line-prefixes" json:"line-prefixes,omitempty" jsonschema:"maxItems=4"`
	UpdateAllOnSale bool     `koanf:"update-all-on-sale" json:"update-all-on-sale"`
}

// TaxConfig controls the cut taken from every sale.
type TaxConfig struct {
	Fixed float64 `koanf:"fixed" json:"fixed" jsonschema:"minimum=0"`
	Share float64 `koanf:"share" json:"share" jsonschema:"minimum=0,maximum=1"`
}

// QuotaConfig controls per-type ownership limits.
type QuotaConfig struct {
	MaxScan    int               `koanf:"max-scan" json:"max-scan,omitempty" jsonschema:"minimum=0"`
	Groups     map[string]int    `koanf:"groups" json:"groups,omitempty"`
	GroupTypes map[string]string `koanf:"group-types" json:"group-types,omitempty"`
}

// Default returns the built-in configuration.
func Default() *Config {
	tmpl := sign.DefaultTemplates()
	return &Config{
		Log: LogConfig{Format: "text", Level: "info"},
		Sign: SignConfig{
			Keyword:   tmpl.Keyword,
			SellLines: tmpl.SellLines[:],
			SoldLines: tmpl.SoldLines[:],
		},
		Quota: QuotaConfig{MaxScan: quota.DefaultMaxScan},
	}
}

// Load reads the configuration file (if path is non-empty) and layers any
// set command-line flags on top of the defaults. The file is checked
// against the generated JSON schema before it is decoded.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	cfg := Default()
	k := koanf.New(".")

	if path != "" {
		raw, err := os.ReadFile(path) // #nosec G304 -- operator-supplied path
		if err != nil {
			return nil, oops.In("config").With("path", path).Wrapf(err, "read config file")
		}
		if err := ValidateSchema(raw); err != nil {
			return nil, oops.In("config").With("path", path).Wrap(err)
		}
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, oops.In("config").With("path", path).Wrapf(err, "parse config file")
		}
	}
	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return nil, oops.In("config").Wrapf(err, "apply flags")
		}
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, oops.In("config").Wrapf(err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the semantic constraints the schema cannot express.
func (c *Config) Validate() error {
	if c.Tax.Fixed < 0 {
		return oops.In("config").With("tax.fixed", c.Tax.Fixed).Errorf("tax.fixed must not be negative")
	}
	if c.Tax.Share < 0 || c.Tax.Share > 1 {
		return oops.In("config").With("tax.share", c.Tax.Share).Errorf("tax.share must be between 0 and 1")
	}
	if c.Quota.MaxScan < 0 {
		return oops.In("config").With("quota.max-scan", c.Quota.MaxScan).Errorf("quota.max-scan must not be negative")
	}
	if c.Sign.Keyword == "" {
		return oops.In("config").Errorf("sign.keyword must not be empty")
	}
	for name, limit := range c.Quota.Groups {
		if limit < 0 {
			return oops.In("config").With("group", name).Errorf("quota group limits must not be negative")
		}
	}
	for _, field := range []struct {
		name  string
		lines []string
	}{
		{"sign.sell-lines", c.Sign.SellLines},
		{"sign.sold-lines", c.Sign.SoldLines},
		{"sign.line-prefixes", c.Sign.LinePrefixes},
	} {
		if len(field.lines) > world.SignLines {
			return oops.In("config").With("field", field.name).Errorf("%s holds at most %d entries", field.name, world.SignLines)
		}
	}
	switch c.Log.Format {
	case "", "json", "text":
	default:
		return oops.In("config").With("log.format", c.Log.Format).Errorf("log.format must be json or text")
	}
	return nil
}

// Templates builds the sign text templates from the configuration.
func (c *Config) Templates() sign.Templates {
	t := sign.Templates{Keyword: c.Sign.Keyword}
	copy(t.SellLines[:], c.Sign.SellLines)
	copy(t.SoldLines[:], c.Sign.SoldLines)
	copy(t.LinePrefixes[:], c.Sign.LinePrefixes)
	return t
}

// QuotaConfig builds the quota checker configuration.
func (c *Config) QuotaConfig() quota.Config {
	return quota.Config{
		MaxScan:    c.Quota.MaxScan,
		Groups:     c.Quota.Groups,
		GroupTypes: c.Quota.GroupTypes,
	}
}
