package config

import (
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultCells     = 1000
	DefaultDt        = 0.01
	DefaultThreshold = 1e-6
	DefaultAmplitude = 0.5
	DefaultUplift    = 1.0
	DefaultMaxSteps  = 1000000
	DefaultWorkers   = 1
)

// WorkersEnv selects the worker count for the parallel solver. The value must
// be a plain non-negative decimal integer that fits in int; anything else
// (empty, signed, trailing garbage, overflow) silently falls back to
// DefaultWorkers.
const WorkersEnv = "OROGEN_NUM_THREADS"

type Config struct {
	Terrain   string  `yaml:"terrain"`
	Cells     int     `yaml:"cells"`
	Uplift    float64 `yaml:"uplift"`
	Amplitude float64 `yaml:"amplitude"`
	Dt        float64 `yaml:"dt"`
	Threshold float64 `yaml:"threshold"`
	MaxSteps  int     `yaml:"max_steps"`
	Workers   int     `yaml:"workers"`
}

func DefaultConfig() *Config {
	return &Config{
		Terrain:   "ridge",
		Cells:     DefaultCells,
		Uplift:    DefaultUplift,
		Amplitude: DefaultAmplitude,
		Dt:        DefaultDt,
		Threshold: DefaultThreshold,
		MaxSteps:  DefaultMaxSteps,
		Workers:   WorkerCount(),
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// WorkerCount reads WorkersEnv and falls back to DefaultWorkers when the
// variable is unset or malformed. Malformed input is never an error: the
// solver degrades to single-threaded execution instead.
func WorkerCount() int {
	return parseWorkers(os.Getenv(WorkersEnv), DefaultWorkers)
}

func parseWorkers(val string, fallback int) int {
	if val == "" {
		return fallback
	}
	n := 0
	for _, c := range val {
		if c < '0' || c > '9' {
			return fallback
		}
		if n > (math.MaxInt-9)/10 {
			return fallback
		}
		n = n*10 + int(c-'0')
	}
	return n
}
