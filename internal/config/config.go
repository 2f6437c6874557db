// Package config provides configuration loading and management for steadyspace.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/steadyspace/model"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// configValidate is the validator instance for Config.
var configValidate *validator.Validate

func init() {
	configValidate = validator.New()
	_ = configValidate.RegisterValidation("species", func(fl validator.FieldLevel) bool {
		return model.ValidName(fl.Field().String())
	})
}

// Config represents the complete steadyspace configuration.
type Config struct {
	Output  OutputConfig  `yaml:"output"`
	Solve   SolveConfig   `yaml:"solve"`
	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`
	Store   StoreConfig   `yaml:"store"`
	Trace   TraceConfig   `yaml:"trace"`
	Watch   WatchConfig   `yaml:"watch"`
}

// OutputConfig configures where steady states are written.
type OutputConfig struct {
	// Dir is the output directory (empty = next to each model file).
	Dir string `yaml:"dir"`
	// Suffix is appended to the model stem to name the CSV file.
	Suffix string `yaml:"suffix" validate:"required,excludes=/"`
}

// SolveConfig configures the search.
type SolveConfig struct {
	// Limit stops each model after this many steady states (0 = all).
	Limit int `yaml:"limit" validate:"gte=0"`
	// Workers is the number of models solved concurrently.
	Workers int `yaml:"workers" validate:"gte=1,lte=1024"`
	// Bounds tightens species ceilings by name for every model that has them.
	Bounds map[string]int `yaml:"bounds" validate:"dive,keys,species,endkeys,gte=0"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `yaml:"level" validate:"oneof=debug info warn error"`
}

// MetricsConfig configures the Prometheus text file.
type MetricsConfig struct {
	// File receives the metrics exposition after each run (empty = off).
	File string `yaml:"file"`
}

// StoreConfig configures the SQLite result archive.
type StoreConfig struct {
	// Path of the database file (empty = no archive).
	Path string `yaml:"path"`
}

// TraceConfig configures OpenTelemetry tracing.
type TraceConfig struct {
	Exporter string `yaml:"exporter" validate:"oneof=none stdout"`
}

// WatchConfig configures watch mode.
type WatchConfig struct {
	// Debounce groups bursts of file events into one re-solve.
	Debounce time.Duration `yaml:"debounce" validate:"gte=0"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Output: OutputConfig{
			Dir:    "", // Next to the model
			Suffix: "_stable.csv",
		},
		Solve: SolveConfig{
			Limit:   0,
			Workers: 1,
		},
		Log:   LogConfig{Level: "info"},
		Trace: TraceConfig{Exporter: "none"},
		Watch: WatchConfig{Debounce: 200 * time.Millisecond},
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	err := configValidate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
	}

	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(msgs, "; "))
}

// LoadFromFile loads configuration from a YAML file on top of the defaults.
// Unknown keys are rejected.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err = dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a YAML file.
func (c *Config) SaveToFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := c.Marshal()
	if err != nil {
		return err
	}
	if err = os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Marshal renders the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}

	return data, nil
}

// Merge merges another config into this one (other takes precedence for
// non-zero values). Bounds are merged per species.
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	// Output
	if other.Output.Dir != "" {
		c.Output.Dir = other.Output.Dir
	}
	if other.Output.Suffix != "" {
		c.Output.Suffix = other.Output.Suffix
	}

	// Solve
	if other.Solve.Limit != 0 {
		c.Solve.Limit = other.Solve.Limit
	}
	if other.Solve.Workers != 0 {
		c.Solve.Workers = other.Solve.Workers
	}
	if len(other.Solve.Bounds) > 0 {
		if c.Solve.Bounds == nil {
			c.Solve.Bounds = make(map[string]int, len(other.Solve.Bounds))
		}
		for name, v := range other.Solve.Bounds {
			c.Solve.Bounds[name] = v
		}
	}

	// Ambient
	if other.Log.Level != "" {
		c.Log.Level = other.Log.Level
	}
	if other.Metrics.File != "" {
		c.Metrics.File = other.Metrics.File
	}
	if other.Store.Path != "" {
		c.Store.Path = other.Store.Path
	}
	if other.Trace.Exporter != "" {
		c.Trace.Exporter = other.Trace.Exporter
	}
	if other.Watch.Debounce != 0 {
		c.Watch.Debounce = other.Watch.Debounce
	}
}
