// Package pathracer finds the graph paths best explaining a profile
// model: it matches the model against edges, grows and merges the
// neighbourhoods of the hits and aligns the model over every component.
package pathracer

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type Config struct {
	// Top is the number of paths reported per component.
	Top int `yaml:"top"`
	// EdgeID restricts edge matching to one edge when not zero.
	EdgeID  uint32 `yaml:"edge_id"`
	MinSize int    `yaml:"min_size"`
	MaxSize int    `yaml:"max_size"`
	// MinScore is the edge match threshold in bits.
	MinScore float64 `yaml:"min_score"`
	Debug    bool    `yaml:"debug"`
	Draw     bool    `yaml:"draw"`
	Save     bool    `yaml:"save"`
	Rescore  bool    `yaml:"rescore"`
	// GeneMinEdgeLen is the shortest edge length that joins two paths
	// into one gene.
	GeneMinEdgeLen int    `yaml:"gene_min_edge_len"`
	OutputPrefix   string `yaml:"output_prefix"`
	NumCPU         int    `yaml:"threads"`
}

func DefaultConfig() Config {
	return Config{
		Top:            10,
		MinSize:        2,
		MaxSize:        1000,
		MinScore:       10,
		Save:           true,
		Rescore:        true,
		GeneMinEdgeLen: 100,
		NumCPU:         1,
	}
}

// environment overrides, also read from a .env file in the working directory
const (
	envTop     = "GRAPHHMM_TOP"
	envMaxSize = "GRAPHHMM_MAX_SIZE"
	envPrefix  = "GRAPHHMM_OUTPUT_PREFIX"
)

// LoadConfig reads fn over the defaults, an empty fn keeps the defaults.
// Environment variables are applied last.
func LoadConfig(fn string) (Config, error) {
	cfg := DefaultConfig()
	if fn != "" {
		data, err := os.ReadFile(fn)
		if err != nil {
			return cfg, errors.Wrapf(err, "[LoadConfig] read %s", fn)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, errors.Wrapf(err, "[LoadConfig] parse %s", fn)
		}
	}
	_ = godotenv.Load()
	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (cfg *Config) applyEnv() error {
	for name, dst := range map[string]*int{envTop: &cfg.Top, envMaxSize: &cfg.MaxSize} {
		s := os.Getenv(name)
		if s == "" {
			continue
		}
		v, err := strconv.Atoi(s)
		if err != nil {
			return errors.Wrapf(err, "[LoadConfig] %s", name)
		}
		*dst = v
	}
	if s := os.Getenv(envPrefix); s != "" {
		cfg.OutputPrefix = s
	}
	return nil
}

func (cfg Config) Validate() error {
	switch {
	case cfg.Top < 1:
		return errors.Errorf("[Validate] top must be positive, got %d", cfg.Top)
	case cfg.MinSize < 0:
		return errors.Errorf("[Validate] min_size must not be negative, got %d", cfg.MinSize)
	case cfg.MaxSize < cfg.MinSize:
		return errors.Errorf("[Validate] max_size %d below min_size %d", cfg.MaxSize, cfg.MinSize)
	case cfg.NumCPU < 1:
		return errors.Errorf("[Validate] threads must be positive, got %d", cfg.NumCPU)
	}
	return nil
}
