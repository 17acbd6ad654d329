// Package config loads the taskstream configuration file.
//
// The file may be YAML, JSON or TOML, chosen by extension. All three are
// decoded into a generic map first so that one set of mapstructure tags
// covers every format.
package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/aretw0/taskstream/internal/logging"
	"github.com/aretw0/taskstream/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Store kinds.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
	StoreSQLite = "sqlite"
)

// Config is the top-level configuration.
type Config struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`

	// ScenarioDir holds scenario instance documents (<name>.md).
	ScenarioDir string `mapstructure:"scenario_dir"`
	// DescriptionDir overrides the built-in descriptions: <dir>/<scenario>/domain.pddl.
	DescriptionDir string `mapstructure:"description_dir"`
	// Scenario is the default scenario when a command names none.
	Scenario string `mapstructure:"scenario"`
	// StrictClassification rejects entities that match no classification rule.
	StrictClassification bool `mapstructure:"strict_classification"`
	// DebugStreams hands the solver the debug stream map.
	DebugStreams bool `mapstructure:"debug_streams"`

	Solver  SolverConfig  `mapstructure:"solver"`
	Store   StoreConfig   `mapstructure:"store"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Server  ServerConfig  `mapstructure:"server"`
}

// SolverConfig selects the external solver.
type SolverConfig struct {
	// Name picks an entry of the solvers file.
	Name string `mapstructure:"name"`
	// Solvers is the path of the solvers file (YAML or JSON).
	Solvers string `mapstructure:"solvers"`
	// Options override the scenario's solver defaults.
	Options map[string]any `mapstructure:"options"`
}

// StoreConfig selects the plan store backend.
type StoreConfig struct {
	Kind     string        `mapstructure:"kind"`
	Path     string        `mapstructure:"path"`
	Address  string        `mapstructure:"address"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Prefix   string        `mapstructure:"prefix"`
	TTL      time.Duration `mapstructure:"ttl"`
	// EncryptionKeyEnv names an environment variable holding a base64 AES-256 key.
	EncryptionKeyEnv string `mapstructure:"encryption_key_env"`
	// Redact lists key patterns masked in labels and solver evidence.
	Redact []string `mapstructure:"redact"`
}

// MetricsConfig exposes Prometheus metrics.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Address string `mapstructure:"address"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Address      string        `mapstructure:"address"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		LogLevel:    "info",
		LogFormat:   logging.FormatText,
		ScenarioDir: "scenarios",
		Scenario:    "kitchen",
		Solver:      SolverConfig{Solvers: "solvers.yaml"},
		Store:       StoreConfig{Kind: StoreMemory},
		Metrics:     MetricsConfig{Address: ":2112"},
		Server: ServerConfig{
			Address:      ":8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 5 * time.Minute,
		},
	}
}

// Load reads path on top of the defaults. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read config: %w", domain.ErrConfiguration, err)
	}

	raw := map[string]any{}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		err = json.Unmarshal(data, &raw)
	case ".toml":
		err = toml.Unmarshal(data, &raw)
	case ".yaml", ".yml", "":
		err = yaml.Unmarshal(data, &raw)
	default:
		return nil, fmt.Errorf("%w: unsupported config format %q", domain.ErrConfiguration, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %w", domain.ErrConfiguration, path, err)
	}

	if err := Decode(raw, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Decode merges a loosely typed map into cfg. Durations may be given as
// strings ("30s"); unknown keys are rejected.
func Decode(raw map[string]any, cfg *Config) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           cfg,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(raw); err != nil {
		return fmt.Errorf("%w: config: %w", domain.ErrConfiguration, err)
	}
	return nil
}

// Validate checks enumerations and the option map.
func (c *Config) Validate() error {
	switch c.Store.Kind {
	case StoreMemory, StoreFile, StoreRedis, StoreSQLite:
	default:
		return fmt.Errorf("%w: unknown store kind %q", domain.ErrConfiguration, c.Store.Kind)
	}
	if c.Store.Kind == StoreRedis && c.Store.Address == "" {
		return fmt.Errorf("%w: redis store needs an address", domain.ErrConfiguration)
	}
	if _, err := c.Level(); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrConfiguration, err)
	}
	if _, err := c.SolverOptions(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	return logging.ParseLevel(c.LogLevel)
}

// SolverOptions decodes the solver option overrides.
func (c *Config) SolverOptions() (domain.SolverOptions, error) {
	return domain.DecodeOptions(c.Solver.Options)
}
