// Package config provides shared project configuration for EmberSQL.
// This package is decoupled from CLI concerns and can be used by the LSP
// and other tools that need to load project configuration.
package config

import (
	"fmt"
	"time"

	"github.com/embersql/embersql/internal/detect"
	"github.com/embersql/embersql/internal/format"
)

// DetectionConfig controls which R calls carry SQL and the scan limits.
type DetectionConfig struct {
	// Functions whose string arguments are treated as SQL.
	Functions []string `koanf:"functions"`

	// InterpFunctions additionally allow {expr} interpolation.
	InterpFunctions []string `koanf:"interp_functions"`

	// CarrierParams are the named parameters that carry SQL when a string
	// is passed by name to a non-interpolating function.
	CarrierParams []string `koanf:"carrier_params"`

	LookbackLines      int `koanf:"lookback_lines"`
	NamedArgLookback   int `koanf:"named_arg_lookback"`
	MaxParenScan       int `koanf:"max_paren_scan"`
	MaxDocumentBytes   int `koanf:"max_document_bytes"`
	MaxFunctionMatches int `koanf:"max_function_matches"`
	MaxCallSpanBytes   int `koanf:"max_call_span_bytes"`
}

// CacheConfig controls the per-document region cache.
type CacheConfig struct {
	TTLMillis int `koanf:"ttl_ms"`
}

// FormatConfig controls the SQL formatter.
type FormatConfig struct {
	UppercaseKeywords bool `koanf:"uppercase_keywords"`
	BreakClauses      bool `koanf:"break_clauses"`
}

// ProjectConfig is the root configuration loaded from embersql.yaml.
type ProjectConfig struct {
	Detection DetectionConfig `koanf:"detection"`
	Cache     CacheConfig     `koanf:"cache"`
	Format    FormatConfig    `koanf:"format"`
}

// DetectConfig converts the detection section to a detector configuration.
func (c *ProjectConfig) DetectConfig() detect.Config {
	return detect.Config{
		Functions:          c.Detection.Functions,
		InterpFunctions:    c.Detection.InterpFunctions,
		CarrierParams:      c.Detection.CarrierParams,
		LookbackLines:      c.Detection.LookbackLines,
		NamedArgLookback:   c.Detection.NamedArgLookback,
		MaxParenScan:       c.Detection.MaxParenScan,
		MaxDocumentBytes:   c.Detection.MaxDocumentBytes,
		MaxFunctionMatches: c.Detection.MaxFunctionMatches,
		MaxCallSpanBytes:   c.Detection.MaxCallSpanBytes,
	}
}

// FormatOptions converts the format section to formatter options.
func (c *ProjectConfig) FormatOptions() format.Options {
	return format.Options{
		UppercaseKeywords: c.Format.UppercaseKeywords,
		BreakClauses:      c.Format.BreakClauses,
	}
}

// CacheTTL returns the region cache TTL.
func (c *ProjectConfig) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLMillis) * time.Millisecond
}

// Validate checks the configuration for values that would break scanning.
func (c *ProjectConfig) Validate() error {
	if len(c.Detection.Functions) == 0 && len(c.Detection.InterpFunctions) == 0 {
		return fmt.Errorf("detection: at least one function name is required")
	}
	if c.Detection.LookbackLines < 0 {
		return fmt.Errorf("detection: lookback_lines must not be negative")
	}
	if c.Detection.MaxParenScan <= 0 {
		return fmt.Errorf("detection: max_paren_scan must be positive")
	}
	if c.Detection.MaxDocumentBytes <= 0 {
		return fmt.Errorf("detection: max_document_bytes must be positive")
	}
	if c.Cache.TTLMillis <= 0 {
		return fmt.Errorf("cache: ttl_ms must be positive")
	}
	return nil
}
