// Package config manages the per-project conversion options file.
package config

// FileName is the per-project configuration file looked up next to the
// input document.
const FileName = ".stddoc.yml"

// Config represents the conversion options file.
type Config struct {
	Language      string      `yaml:"language,omitempty"`
	Script        string      `yaml:"script,omitempty"`
	SmartQuotes   *bool       `yaml:"smartquotes,omitempty"`
	KeepAsciiMath bool        `yaml:"keep_asciimath,omitempty"`
	Cache         CacheConfig `yaml:"cache"`
}

// CacheConfig overrides the bibliographic cache locations.
type CacheConfig struct {
	// Dir is the project-local cache directory. Default ".stddoc-cache".
	Dir string `yaml:"dir,omitempty"`

	// GlobalPath overrides the shared per-user cache database.
	GlobalPath string `yaml:"global_path,omitempty"`

	// Disabled turns caching off entirely.
	Disabled bool `yaml:"disabled,omitempty"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	smart := true
	return &Config{
		Language:    "en",
		Script:      "Latn",
		SmartQuotes: &smart,
		Cache: CacheConfig{
			Dir: ".stddoc-cache",
		},
	}
}

// SmartQuotesEnabled resolves the tri-state smartquotes setting.
func (c *Config) SmartQuotesEnabled() bool {
	if c.SmartQuotes == nil {
		return true
	}
	return *c.SmartQuotes
}
