// Package config loads the optional parcel-extractor.yaml tool
// configuration, falling back to compiled defaults.
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/corykiser/ohio-parcel-extractor/internal/domain"
)

// DefaultPath is probed when the user does not pass --config.
const DefaultPath = "parcel-extractor.yaml"

// Load reads and validates the config file at path.
func Load(path string) (domain.Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return domain.Config{}, &domain.OpError{
			Op:   "config.load",
			Kind: domain.KindIO,
			Path: path,
			Err:  err,
		}
	}

	var dto yamlConfig
	if err := yaml.Unmarshal(b, &dto); err != nil {
		return domain.Config{}, &domain.OpError{
			Op:   "config.load",
			Kind: domain.KindInvalidInput,
			Path: path,
			Err:  err,
		}
	}

	return mapConfig(path, dto)
}

// LoadIfPresent behaves like Load but treats a missing file as "use
// defaults". Used for the probe of DefaultPath.
func LoadIfPresent(path string) (domain.Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return domain.DefaultConfig(), nil
	}
	return Load(path)
}
