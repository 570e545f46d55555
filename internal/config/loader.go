package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/stddoc/stddoc/core/errors"
)

// Load reads the configuration file at path. A missing file yields the
// defaults; a file that exists but does not parse is a fatal error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, errors.NewIO("read", path, err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.NewParse("configuration", path, err.Error())
	}
	return cfg, nil
}

// LoadNear looks for the configuration file in the directory containing
// the input document.
func LoadNear(inputPath string) (*Config, error) {
	dir := filepath.Dir(inputPath)
	return Load(filepath.Join(dir, FileName))
}

// Save writes the configuration back out, used by tests and tooling.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "encode configuration")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.NewIO("write", path, err)
	}
	return nil
}
