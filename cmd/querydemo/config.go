package main

import (
	"fmt"
	"math"

	"github.com/kbukum/querykit/config"
	"github.com/kbukum/querykit/validation"
)

const (
	serviceName = "querydemo"
	envPrefix   = "QUERYDEMO"
)

// DemoConfig is the full querydemo configuration.
type DemoConfig struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Source    SourceConfig    `yaml:"source" mapstructure:"source"`
	Telemetry TelemetryConfig `yaml:"telemetry" mapstructure:"telemetry"`
}

// SourceConfig shapes the integer range the demo queries.
type SourceConfig struct {
	Start     int    `yaml:"start" mapstructure:"start"`
	Count     int    `yaml:"count" mapstructure:"count" validate:"gte=0"`
	ChunkSize int    `yaml:"chunk_size" mapstructure:"chunk_size" validate:"gt=0"`
	Order     string `yaml:"order" mapstructure:"order" validate:"oneof=asc desc"`
}

// TelemetryConfig controls OTLP export of cursor spans and metrics.
type TelemetryConfig struct {
	Enabled    bool    `yaml:"enabled" mapstructure:"enabled"`
	Endpoint   string  `yaml:"endpoint" mapstructure:"endpoint" validate:"omitempty,hostname_port"`
	Insecure   bool    `yaml:"insecure" mapstructure:"insecure"`
	SampleRate float64 `yaml:"sample_rate" mapstructure:"sample_rate" validate:"gte=0,lte=1"`
}

// ApplyDefaults fills unset values. A source section left entirely unset
// selects the range 1..10.
func (c *DemoConfig) ApplyDefaults() {
	if c.Name == "" {
		c.Name = serviceName
	}
	c.ServiceConfig.ApplyDefaults()

	if c.Source.Count == 0 && c.Source.Start == 0 {
		c.Source.Start, c.Source.Count = 1, 10
	}
	if c.Source.ChunkSize == 0 {
		c.Source.ChunkSize = 3
	}
	if c.Source.Order == "" {
		c.Source.Order = "asc"
	}
	if c.Telemetry.Endpoint == "" {
		c.Telemetry.Endpoint = "localhost:4318"
	}
	if c.Telemetry.SampleRate == 0 {
		c.Telemetry.SampleRate = 1.0
	}
}

// Validate checks the service sections, every struct tag, and that the
// source range fits in an int.
func (c *DemoConfig) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := validation.Validate(c); err != nil {
		return err
	}
	return validation.New().
		Custom(c.Source.Start <= math.MaxInt-c.Source.Count, "source.start", "start+count overflows int").
		Validate()
}

func loadConfig(path string) (*DemoConfig, error) {
	opts := []config.LoaderOption{config.WithEnvPrefix(envPrefix)}
	if path != "" {
		if !(config.RealFileSystem{}).Exists(path) {
			return nil, fmt.Errorf("config file %s not found", path)
		}
		opts = append(opts, config.WithConfigFile(path))
	}

	var cfg DemoConfig
	if err := config.LoadConfig(serviceName, &cfg, opts...); err != nil {
		return nil, err
	}
	return &cfg, nil
}
