package config

import "github.com/embersql/embersql/internal/detect"

// Default returns the full default configuration. Loading merges file values
// over these, so absent keys keep their defaults.
func Default() ProjectConfig {
	d := detect.DefaultConfig()
	return ProjectConfig{
		Detection: DetectionConfig{
			Functions:          d.Functions,
			InterpFunctions:    d.InterpFunctions,
			CarrierParams:      d.CarrierParams,
			LookbackLines:      d.LookbackLines,
			NamedArgLookback:   d.NamedArgLookback,
			MaxParenScan:       d.MaxParenScan,
			MaxDocumentBytes:   d.MaxDocumentBytes,
			MaxFunctionMatches: d.MaxFunctionMatches,
			MaxCallSpanBytes:   d.MaxCallSpanBytes,
		},
		Cache: CacheConfig{
			TTLMillis: int(detect.DefaultCacheTTL.Milliseconds()),
		},
		Format: FormatConfig{
			UppercaseKeywords: true,
			BreakClauses:      true,
		},
	}
}
