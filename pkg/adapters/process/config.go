package process

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// SolverConfig describes an external solver executable.
type SolverConfig struct {
	Name        string            `yaml:"name" json:"name"`
	Command     string            `yaml:"command" json:"command"`
	Args        []string          `yaml:"args" json:"args"`
	Environment map[string]string `yaml:"env" json:"env"`
	Description string            `yaml:"description" json:"description"`
	Dir         string            `yaml:"dir" json:"dir"`
	// Timeout bounds a whole solve, e.g. "90s". Empty means no bound beyond the context.
	Timeout string `yaml:"timeout" json:"timeout"`
}

// TimeoutDuration parses Timeout. It returns 0 when unset.
func (c SolverConfig) TimeoutDuration() (time.Duration, error) {
	if c.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("solver %s: invalid timeout %q: %w", c.Name, c.Timeout, err)
	}
	return d, nil
}

// ConfigFile represents the structure of solvers.yaml
type ConfigFile struct {
	Solvers []SolverConfig `yaml:"solvers" json:"solvers"`
}

// LoadSolvers reads a configuration file (YAML or JSON) and returns a map of solver names to configs.
// A missing file means no solvers are configured.
func LoadSolvers(path string) (map[string]SolverConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]SolverConfig{}, nil
		}
		return nil, fmt.Errorf("failed to read solvers config: %w", err)
	}

	var cfg ConfigFile
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse solvers.json: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse solvers.yaml: %w", err)
		}
	}

	solvers := make(map[string]SolverConfig)
	for _, s := range cfg.Solvers {
		if s.Name == "" {
			continue
		}
		if s.Command == "" {
			return nil, fmt.Errorf("solver %s has no command", s.Name)
		}
		if _, err := s.TimeoutDuration(); err != nil {
			return nil, err
		}
		solvers[s.Name] = s
	}
	return solvers, nil
}

// Names returns the configured solver names in sorted order.
func Names(solvers map[string]SolverConfig) []string {
	names := make([]string, 0, len(solvers))
	for name := range solvers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
