package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/vk/cornergrid/internal/model"
	"github.com/vk/cornergrid/internal/progress"
)

// ReportDisabled as the report path turns the workbook off.
const ReportDisabled = "-"

// Config holds all the necessary configuration for an App instance to run.
// Zero values mean "not set" so a sweep file can fill them in.
type Config struct {
	TemplatePath string
	SweepPath    string // optional hcl sweep file

	OutputDir    string
	Corners      []model.Corner
	Temperatures []model.Temperature
	Filter       string
	Sentinel     string

	SimulatorCommand []string
	Timeout          time.Duration
	Workers          int
	DryRun           bool
	StrictHeader     bool
	StrictExit       bool

	ReportPath      string
	Progress        progress.Display
	ProgressURL     string
	HealthcheckPort int

	LogFormat string
	LogLevel  string
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.TemplatePath == "" {
		return nil, errors.New("TemplatePath is a required configuration field and cannot be empty")
	}
	if cfg.Timeout < 0 {
		return nil, errors.New("timeout must not be negative")
	}
	if cfg.Workers < 0 {
		return nil, errors.New("workers must not be negative")
	}
	if cfg.HealthcheckPort < 0 || cfg.HealthcheckPort > 65535 {
		return nil, fmt.Errorf("invalid healthcheck port %d", cfg.HealthcheckPort)
	}

	switch cfg.LogFormat {
	case "":
		cfg.LogFormat = "text"
	case "text", "json":
	default:
		return nil, fmt.Errorf("invalid log format %q: must be 'text' or 'json'", cfg.LogFormat)
	}
	switch cfg.LogLevel {
	case "":
		cfg.LogLevel = "info"
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid log level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.LogLevel)
	}

	d, err := progress.ParseDisplay(string(cfg.Progress))
	if err != nil {
		return nil, err
	}
	cfg.Progress = d

	return &cfg, nil
}
