// Package config provides configuration structures for the dataset
// generator. The main Config struct ties together the reference counts,
// monthly volumes and run options the generator components consume.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Errors returned by the config package.
var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = errors.New("config: invalid configuration")
	// ErrConfigNotFound is returned when the config file is not found.
	ErrConfigNotFound = errors.New("config: configuration file not found")
)

// Metrics backend names accepted by MetricsConfig.Backend.
const (
	BackendNone        = "none"
	BackendPushgateway = "pushgateway"
)

// Config is the root configuration structure for the dataset generator.
type Config struct {
	// Name is a descriptive name for this dataset.
	// Default: "dwh-dataset"
	Name string `yaml:"name" json:"name"`

	// Description provides additional context about the dataset.
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// OutputDir is the directory the dataset is written into.
	// Default: "data"
	OutputDir string `yaml:"outputDir" json:"outputDir"`

	// Seed fixes the random source for reproducible datasets.
	// Default: 0 (a fresh random seed per run)
	Seed uint64 `yaml:"seed,omitempty" json:"seed,omitempty"`

	// Years lists the calendar years to generate, each in full.
	// Default: [2023, 2024, 2025]
	Years []int `yaml:"years,omitempty" json:"years,omitempty"`

	// Reference sizes the reference entity tables.
	Reference ReferenceConfig `yaml:"reference,omitempty" json:"reference,omitempty"`

	// Monthly sizes the per-month transactional tables.
	Monthly MonthlyConfig `yaml:"monthly,omitempty" json:"monthly,omitempty"`

	// Metrics configures metrics collection.
	Metrics MetricsConfig `yaml:"metrics,omitempty" json:"metrics,omitempty"`
}

// ReferenceConfig sizes the reference entity tables.
type ReferenceConfig struct {
	// Products is the product catalog size.
	// Default: 50
	Products int `yaml:"products,omitempty" json:"products,omitempty"`

	// Regions is the number of sales regions, capped by the built-in pool.
	// Default: 10
	Regions int `yaml:"regions,omitempty" json:"regions,omitempty"`

	// Employees is the workforce size.
	// Default: 30
	Employees int `yaml:"employees,omitempty" json:"employees,omitempty"`

	// StoresPerRegion is the number of stores opened in each region.
	// Default: 3
	StoresPerRegion int `yaml:"storesPerRegion,omitempty" json:"storesPerRegion,omitempty"`

	// WarehousesPerRegion is the number of warehouses in each region.
	// Default: 2
	WarehousesPerRegion int `yaml:"warehousesPerRegion,omitempty" json:"warehousesPerRegion,omitempty"`
}

// MonthlyConfig sizes the per-month transactional tables.
type MonthlyConfig struct {
	// Transactions is the base number of sales rows per month, before
	// anomaly months append duplicates.
	// Default: 500
	Transactions int `yaml:"transactions,omitempty" json:"transactions,omitempty"`

	// Refunds is the number of refunds sampled per month, capped by the
	// month's sales.
	// Default: 20
	Refunds int `yaml:"refunds,omitempty" json:"refunds,omitempty"`

	// Campaigns is the number of marketing spend rows per month.
	// Default: 5
	Campaigns int `yaml:"campaigns,omitempty" json:"campaigns,omitempty"`
}

// MetricsConfig configures metrics collection.
type MetricsConfig struct {
	// Backend selects the metrics backend: "none" or "pushgateway".
	// Default: "none"
	Backend string `yaml:"backend,omitempty" json:"backend,omitempty"`

	// PushgatewayURL is the base URL of the Pushgateway server.
	// Required when Backend is "pushgateway".
	PushgatewayURL string `yaml:"pushgatewayURL,omitempty" json:"pushgatewayURL,omitempty"`

	// Job is the Pushgateway job name.
	// Default: "dwhgen"
	Job string `yaml:"job,omitempty" json:"job,omitempty"`
}

// LoadFromFile loads configuration from a YAML file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	return LoadFromBytes(data)
}

// LoadFromBytes loads configuration from YAML bytes.
func LoadFromBytes(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.ApplyDefaults()
	return &cfg, nil
}

// Default returns a fully defaulted configuration, the one a run without a
// config file uses.
func Default() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

// Validate validates the configuration. Zero values are legal everywhere;
// ApplyDefaults fills them in afterwards.
func (c *Config) Validate() error {
	for i, year := range c.Years {
		if year < 1 {
			return fmt.Errorf("%w: years[%d] must be a calendar year, got %d", ErrInvalidConfig, i, year)
		}
	}

	if c.Reference.Products < 0 {
		return fmt.Errorf("%w: reference.products must not be negative", ErrInvalidConfig)
	}
	if c.Reference.Regions < 0 {
		return fmt.Errorf("%w: reference.regions must not be negative", ErrInvalidConfig)
	}
	if c.Reference.Employees < 0 {
		return fmt.Errorf("%w: reference.employees must not be negative", ErrInvalidConfig)
	}
	if c.Reference.StoresPerRegion < 0 {
		return fmt.Errorf("%w: reference.storesPerRegion must not be negative", ErrInvalidConfig)
	}
	if c.Reference.WarehousesPerRegion < 0 {
		return fmt.Errorf("%w: reference.warehousesPerRegion must not be negative", ErrInvalidConfig)
	}

	if c.Monthly.Transactions < 0 {
		return fmt.Errorf("%w: monthly.transactions must not be negative", ErrInvalidConfig)
	}
	if c.Monthly.Refunds < 0 {
		return fmt.Errorf("%w: monthly.refunds must not be negative", ErrInvalidConfig)
	}
	if c.Monthly.Campaigns < 0 {
		return fmt.Errorf("%w: monthly.campaigns must not be negative", ErrInvalidConfig)
	}

	switch c.Metrics.Backend {
	case "", BackendNone:
	case BackendPushgateway:
		if c.Metrics.PushgatewayURL == "" {
			return fmt.Errorf("%w: metrics.pushgatewayURL is required for the pushgateway backend", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown metrics backend: %s", ErrInvalidConfig, c.Metrics.Backend)
	}

	return nil
}

// ApplyDefaults applies default values to unset fields.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "dwh-dataset"
	}

	if c.OutputDir == "" {
		c.OutputDir = "data"
	}

	if len(c.Years) == 0 {
		c.Years = []int{2023, 2024, 2025}
	}

	if c.Reference.Products == 0 {
		c.Reference.Products = 50
	}
	if c.Reference.Regions == 0 {
		c.Reference.Regions = 10
	}
	if c.Reference.Employees == 0 {
		c.Reference.Employees = 30
	}
	if c.Reference.StoresPerRegion == 0 {
		c.Reference.StoresPerRegion = 3
	}
	if c.Reference.WarehousesPerRegion == 0 {
		c.Reference.WarehousesPerRegion = 2
	}

	if c.Monthly.Transactions == 0 {
		c.Monthly.Transactions = 500
	}
	if c.Monthly.Refunds == 0 {
		c.Monthly.Refunds = 20
	}
	if c.Monthly.Campaigns == 0 {
		c.Monthly.Campaigns = 5
	}

	if c.Metrics.Backend == "" {
		c.Metrics.Backend = BackendNone
	}
	if c.Metrics.Job == "" {
		c.Metrics.Job = "dwhgen"
	}
}
