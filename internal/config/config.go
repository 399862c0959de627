package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"

	"github.com/Chihche-Liew/RavenPack-News-Processor/internal/domain"
)

type Service struct {
	Environment string `envconfig:"SERVICE_ENVIRONMENT" default:"development"`
}

type Warehouse struct {
	DSN             string `envconfig:"WRDS_DSN" required:"true"`
	MaxOpenConns    int    `envconfig:"WRDS_MAX_OPEN_CONNS" default:"2"`
	MaxIdleConns    int    `envconfig:"WRDS_MAX_IDLE_CONNS" default:"1"`
	ConnMaxLifetime int    `envconfig:"WRDS_CONN_MAX_LIFETIME_SEC" default:"3600"`
}

type Processor struct {
	KeywordsPath string `envconfig:"KEYWORDS_PATH"`
	StartYear    int    `envconfig:"START_YEAR"`
	EndYear      int    `envconfig:"END_YEAR"`
	OutputDir    string `envconfig:"OUTPUT_DIR" default:"output"`
	MinRelevance int    `envconfig:"MIN_RELEVANCE" default:"75"`
	CountryCode  string `envconfig:"COUNTRY_CODE" default:"US"`
	Workers      int    `envconfig:"WORKERS" default:"1"`
}

type Config struct {
	Service   Service
	Warehouse Warehouse
	Processor Processor
}

// FromEnv processes the environment without validating the run parameters,
// so callers can apply command-line overrides before Validate.
func FromEnv() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	return &cfg, nil
}

func Load() (*Config, error) {
	cfg, err := FromEnv()
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the run parameters after environment processing and any
// flag overrides have been applied.
func (c *Config) Validate() error {
	if c.Processor.KeywordsPath == "" {
		return &domain.ConfigError{Reason: "keywords path is empty"}
	}
	if c.Processor.StartYear == 0 || c.Processor.EndYear == 0 {
		return &domain.ConfigError{Reason: "year range is not set"}
	}
	if c.Processor.StartYear > c.Processor.EndYear {
		return &domain.ConfigError{Reason: fmt.Sprintf(
			"start year %d is after end year %d", c.Processor.StartYear, c.Processor.EndYear)}
	}
	if c.Processor.Workers < 1 {
		return &domain.ConfigError{Reason: fmt.Sprintf(
			"worker count must be at least 1, got %d", c.Processor.Workers)}
	}
	return nil
}
