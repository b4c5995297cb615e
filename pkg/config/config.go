package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

const (
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App      AppConfig
	Terminal TerminalConfig
	DB       DBConfig
	API      APIConfig
	Sales    SalesConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Sales.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string   `envconfig:"POSTERM_APP_ENV" required:"true"`
	Port         string   `envconfig:"POSTERM_APP_PORT" default:"7070"`
	LogLevel     string   `envconfig:"POSTERM_LOG_LEVEL" default:"info"`
	LogWarnStack bool     `envconfig:"POSTERM_LOG_WARN_STACK" default:"false"`
	UIOrigins    []string `envconfig:"POSTERM_UI_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// TerminalConfig identifies this device within the branch.
type TerminalConfig struct {
	ID       string `envconfig:"POSTERM_TERMINAL_ID" default:"terminal-1"`
	BranchID string `envconfig:"POSTERM_BRANCH_ID" required:"true"`
}

// DBConfig points at the terminal-local SQLite file holding cart drafts.
type DBConfig struct {
	Path        string        `envconfig:"POSTERM_DB_PATH" default:"posterm.db"`
	BusyTimeout time.Duration `envconfig:"POSTERM_DB_BUSY_TIMEOUT" default:"5s"`
}

// APIConfig describes the remote invoice backend.
type APIConfig struct {
	BaseURL     string        `envconfig:"POSTERM_API_BASE_URL" required:"true"`
	BearerToken string        `envconfig:"POSTERM_API_TOKEN" required:"true"`
	Timeout     time.Duration `envconfig:"POSTERM_API_TIMEOUT" default:"15s"`
}

// SalesConfig carries branch-level checkout defaults.
type SalesConfig struct {
	TaxEnabled     bool   `envconfig:"POSTERM_TAX_ENABLED" default:"true"`
	TaxRatePercent string `envconfig:"POSTERM_TAX_RATE_PERCENT" default:"13"`
}

// TaxRate parses the configured percentage as an exact decimal.
func (s SalesConfig) TaxRate() (decimal.Decimal, error) {
	rate, err := decimal.NewFromString(strings.TrimSpace(s.TaxRatePercent))
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing tax rate: %w", err)
	}
	return rate, nil
}

func (s SalesConfig) validate() error {
	rate, err := s.TaxRate()
	if err != nil {
		return err
	}
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(100)) {
		return fmt.Errorf("tax rate %s out of range 0..100", s.TaxRatePercent)
	}
	return nil
}
