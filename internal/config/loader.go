package config

import (
	"log/slog"
	"os"
	"path/filepath"
)

// ProjectConfigFile is the name of the project-level config file.
const ProjectConfigFile = "steadyspace.yaml"

// Loader handles configuration loading with layered precedence.
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a new configuration loader.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// Load returns the defaults overlaid with a config file. An explicit path must
// exist; otherwise steadyspace.yaml is searched in dir and its parents.
// The result is not validated, since callers still merge flags into it.
func (l *Loader) Load(explicit, dir string) (*Config, error) {
	if explicit != "" {
		cfg, err := LoadFromFile(explicit)
		if err != nil {
			return nil, err
		}
		l.logger.Debug("Loaded config", slog.String("path", explicit))
		return cfg, nil
	}

	path := FindProjectConfig(dir)
	if path == "" {
		l.logger.Debug("No project config found")
		return DefaultConfig(), nil
	}
	cfg, err := LoadFromFile(path)
	if err != nil {
		return nil, err
	}
	l.logger.Debug("Loaded project config", slog.String("path", path))

	return cfg, nil
}

// FindProjectConfig searches for steadyspace.yaml in dir and its parents.
func FindProjectConfig(dir string) string {
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return ""
		}
		dir = cwd
	}
	dir, err := filepath.Abs(dir)
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(dir, ProjectConfigFile)
		if info, err := os.Stat(configPath); err == nil && info.Mode().IsRegular() {
			return configPath
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}
