// Package config loads .reportrabbit.yaml, the optional per-project settings
// file for the reportrabbit CLI.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-viper/mapstructure/v2"
	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up by Load.
const FileName = ".reportrabbit.yaml"

// Default values. New is the only place that applies them.
const (
	DefaultTrueColumn = "y_true"
	DefaultPredColumn = "y_pred"
	DefaultFormat     = "text"
	DefaultPlotPath   = "parity.png"
	DefaultLogLevel   = "info"
	DefaultWorkers    = 4

	maxSearchDepth = 10
)

// Formats accepted by output.format.
var Formats = []string{"text", "json", "yaml"}

// ColumnsConfig names the dataset columns holding ground truth, predictions
// and optional sample weights.
type ColumnsConfig struct {
	True   string `mapstructure:"y_true" yaml:"y_true"`
	Pred   string `mapstructure:"y_pred" yaml:"y_pred"`
	Weight string `mapstructure:"weight" yaml:"weight,omitempty"`
}

// OutputConfig controls how results are rendered.
type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format"`
	Plot   string `mapstructure:"plot" yaml:"plot"`
}

// Config is the merged result of defaults and the config file.
type Config struct {
	Columns  ColumnsConfig `mapstructure:"columns" yaml:"columns"`
	Output   OutputConfig  `mapstructure:"output" yaml:"output"`
	LogLevel string        `mapstructure:"log_level" yaml:"log_level"`
	Workers  int           `mapstructure:"workers" yaml:"workers"`

	// Source is the file the config was read from, empty for defaults.
	Source string `mapstructure:"-" yaml:"-"`
}

// New returns a Config with every default populated.
func New() *Config {
	return &Config{
		Columns: ColumnsConfig{
			True: DefaultTrueColumn,
			Pred: DefaultPredColumn,
		},
		Output: OutputConfig{
			Format: DefaultFormat,
			Plot:   DefaultPlotPath,
		},
		LogLevel: DefaultLogLevel,
		Workers:  DefaultWorkers,
	}
}

// Load finds .reportrabbit.yaml by walking up from startDir (max 10 levels)
// and overlays it on the defaults. A missing file is not an error.
func Load(startDir string) (*Config, error) {
	path, err := find(startDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return New(), nil
		}
		return nil, err
	}
	return LoadFile(path)
}

// LoadFile reads the config at path and overlays it on the defaults.
// Unlike Load, a missing file is an error.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}
	cfg.Source = path
	return cfg, nil
}

// Parse decodes YAML config data onto the defaults. Keys absent from data
// keep their default values; scalars are weakly typed, so workers: "8" is
// accepted.
func Parse(data []byte) (*Config, error) {
	cfg := New()

	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, "invalid YAML")
	}
	if raw == nil {
		return cfg, nil
	}

	var md mapstructure.Metadata
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		Metadata:         &md,
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if err := dec.Decode(raw); err != nil {
		return nil, errors.Wrap(err, "decoding config")
	}
	if len(md.Unused) > 0 {
		return nil, errors.Newf("unknown config keys: %s", strings.Join(md.Unused, ", "))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that the CLI cannot recover from.
func (c *Config) Validate() error {
	if c.Columns.True == "" || c.Columns.Pred == "" {
		return errors.New("columns.y_true and columns.y_pred must not be empty")
	}
	if !validFormat(c.Output.Format) {
		return errors.Newf("output.format must be one of %s, got %q", strings.Join(Formats, ", "), c.Output.Format)
	}
	if c.Workers < 1 {
		return errors.Newf("workers must be at least 1, got %d", c.Workers)
	}
	return nil
}

func validFormat(f string) bool {
	for _, v := range Formats {
		if f == v {
			return true
		}
	}
	return false
}

// find walks up from dir looking for FileName. It returns os.ErrNotExist if
// none is found and propagates any other I/O error.
func find(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", errors.Wrapf(err, "resolving path %q", dir)
	}
	dir = abs

	for i := 0; i < maxSearchDepth; i++ {
		p := filepath.Join(dir, FileName)
		_, err := os.Stat(p)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return "", errors.Wrapf(err, "checking %q", p)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", os.ErrNotExist
}
