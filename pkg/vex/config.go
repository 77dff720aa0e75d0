package vex

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// ProjectConfig is the optional vex.toml manifest found next to sources.
type ProjectConfig struct {
	// Name labels the project in diagnostics.
	Name string `toml:"name"`

	// Sources lists the files to check, relative to the manifest. Empty
	// means whatever files the CLI was given.
	Sources []string `toml:"sources"`

	// MaxBranches caps the multiverse branch count per level; zero means
	// the engine default.
	MaxBranches int `toml:"max_branches"`
}

const configFileName = "vex.toml"

// LoadProjectConfig reads the manifest from dir. A missing manifest is not
// an error; the zero config is returned.
func LoadProjectConfig(dir string) (*ProjectConfig, error) {
	path := filepath.Join(dir, configFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &ProjectConfig{}, nil
		}
		return nil, errors.Wrapf(err, "reading %s", path)
	}

	var cfg ProjectConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}
	return &cfg, nil
}

// SourcePaths resolves the manifest's source list against its directory.
func (cfg *ProjectConfig) SourcePaths(dir string) []string {
	paths := make([]string, len(cfg.Sources))
	for i, src := range cfg.Sources {
		paths[i] = filepath.Join(dir, src)
	}
	return paths
}
