package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Contract slot names, stable across deployments. A config file can
// rebind any of them to a different store location.
const (
	DefaultSimCountSlot          = "simCount"
	DefaultExpectedValueSlot     = "expectedValue"
	DefaultMedianValueSlot       = "medianValue"
	DefaultMinValueSlot          = "minValue"
	DefaultMaxValueSlot          = "maxValue"
	DefaultStandardDeviationSlot = "standardDeviation"
	DefaultQ1ValueSlot           = "q1Value"
	DefaultQ3ValueSlot           = "q3Value"
	DefaultSampleSlot            = "fourHundredTradesEquity"
)

// SlotBindings maps each logical field of a run to the named store
// slot holding it. Bindings are validated once at load time; the
// sampling slot is excluded from Outputs by construction, so no
// writeback path needs a skip rule for it.
type SlotBindings struct {
	SimCount          string `yaml:"sim_count"`
	ExpectedValue     string `yaml:"expected_value"`
	MedianValue       string `yaml:"median_value"`
	MinValue          string `yaml:"min_value"`
	MaxValue          string `yaml:"max_value"`
	StandardDeviation string `yaml:"standard_deviation"`
	Q1Value           string `yaml:"q1_value"`
	Q3Value           string `yaml:"q3_value"`
	Sample            string `yaml:"sample"`
}

// DefaultSlotBindings returns the contract slot names.
func DefaultSlotBindings() SlotBindings {
	return SlotBindings{
		SimCount:          DefaultSimCountSlot,
		ExpectedValue:     DefaultExpectedValueSlot,
		MedianValue:       DefaultMedianValueSlot,
		MinValue:          DefaultMinValueSlot,
		MaxValue:          DefaultMaxValueSlot,
		StandardDeviation: DefaultStandardDeviationSlot,
		Q1Value:           DefaultQ1ValueSlot,
		Q3Value:           DefaultQ3ValueSlot,
		Sample:            DefaultSampleSlot,
	}
}

// Outputs returns the seven result slots in writeback order. The
// sampling slot is never part of this list.
func (b SlotBindings) Outputs() []string {
	return []string{
		b.ExpectedValue,
		b.MedianValue,
		b.MinValue,
		b.MaxValue,
		b.StandardDeviation,
		b.Q1Value,
		b.Q3Value,
	}
}

// Validate checks that every binding is set and that no two logical
// fields share a slot.
func (b SlotBindings) Validate() error {
	fields := []struct {
		name string
		slot string
	}{
		{"sim_count", b.SimCount},
		{"expected_value", b.ExpectedValue},
		{"median_value", b.MedianValue},
		{"min_value", b.MinValue},
		{"max_value", b.MaxValue},
		{"standard_deviation", b.StandardDeviation},
		{"q1_value", b.Q1Value},
		{"q3_value", b.Q3Value},
		{"sample", b.Sample},
	}

	seen := make(map[string]string, len(fields))
	for _, f := range fields {
		if f.slot == "" {
			return fmt.Errorf("slot binding %s is required", f.name)
		}
		if prev, dup := seen[f.slot]; dup {
			return fmt.Errorf("slot bindings %s and %s both map to %q", prev, f.name, f.slot)
		}
		seen[f.slot] = f.name
	}

	return nil
}

// Source configures the built-in realization source used when the
// sampler runs against the in-memory store.
type Source struct {
	Mean   float64 `yaml:"mean"`
	StdDev float64 `yaml:"std_dev"`
	Seed   int64   `yaml:"seed"`
}

// Config holds the full sampler configuration.
type Config struct {
	Slots           SlotBindings `yaml:"slots"`
	PollIntervalMS  int          `yaml:"poll_interval_ms"`
	MaxPollAttempts int          `yaml:"max_poll_attempts"`
	Source          Source       `yaml:"source"`
}

// DefaultConfig returns a configuration with the contract slot names,
// a 50ms poll interval, and a bounded convergence wait.
func DefaultConfig() *Config {
	return &Config{
		Slots:           DefaultSlotBindings(),
		PollIntervalMS:  50,
		MaxPollAttempts: 600,
		Source: Source{
			Mean:   10000,
			StdDev: 2500,
		},
	}
}

// PollInterval returns the convergence poll interval as a duration.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMS) * time.Millisecond
}

// InputParser handles parsing of sampler configuration files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads configuration from a YAML file. Fields absent
// from the file keep their defaults.
func (ip *InputParser) LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Validate the configuration
	if err := ip.ValidateConfiguration(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// ValidateConfiguration validates the loaded configuration
func (ip *InputParser) ValidateConfiguration(config *Config) error {
	if err := config.Slots.Validate(); err != nil {
		return fmt.Errorf("slot bindings validation failed: %w", err)
	}

	if config.PollIntervalMS <= 0 {
		return fmt.Errorf("poll interval must be positive, got %dms", config.PollIntervalMS)
	}
	// MaxPollAttempts == 0 means an unbounded wait; negative is a typo.
	if config.MaxPollAttempts < 0 {
		return fmt.Errorf("max poll attempts cannot be negative, got %d", config.MaxPollAttempts)
	}

	if config.Source.StdDev < 0 {
		return fmt.Errorf("source standard deviation cannot be negative, got %v", config.Source.StdDev)
	}

	return nil
}
