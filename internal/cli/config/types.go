package config

import (
	intconfig "github.com/embersql/embersql/internal/config"
	"github.com/embersql/embersql/internal/detect"
	"github.com/embersql/embersql/internal/format"
)

// Output format defaults.
const (
	DefaultOutput = "table"
)

// Config is the effective CLI configuration: the shared project settings
// plus CLI-only knobs layered from file, environment, and flags.
type Config struct {
	// ProjectRoot is the resolved project directory; not loaded from config.
	ProjectRoot string `koanf:"-"`

	Verbose bool   `koanf:"verbose"`
	Output  string `koanf:"output"`

	Detection intconfig.DetectionConfig `koanf:"detection"`
	Cache     intconfig.CacheConfig     `koanf:"cache"`
	Format    intconfig.FormatConfig    `koanf:"format"`
}

// Project returns the shared project view of the configuration.
func (c *Config) Project() *intconfig.ProjectConfig {
	return &intconfig.ProjectConfig{
		Detection: c.Detection,
		Cache:     c.Cache,
		Format:    c.Format,
	}
}

// DetectConfig converts the detection section to a detector configuration.
func (c *Config) DetectConfig() detect.Config {
	return c.Project().DetectConfig()
}

// FormatOptions converts the format section to formatter options.
func (c *Config) FormatOptions() format.Options {
	return c.Project().FormatOptions()
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	return c.Project().Validate()
}
