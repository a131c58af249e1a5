package config

import (
	"fmt"
	"slices"

	"github.com/kbukum/querykit/logger"
)

var environments = []string{"development", "staging", "production"}

// BaseConfig contains the identity fields every querykit program carries.
type BaseConfig struct {
	Name        string `yaml:"name" mapstructure:"name"`
	Environment string `yaml:"environment" mapstructure:"environment"`
	Version     string `yaml:"version" mapstructure:"version"`
	Debug       bool   `yaml:"debug" mapstructure:"debug"`
}

// ApplyDefaults applies default values to base configuration.
func (c *BaseConfig) ApplyDefaults() {
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Environment == "development" {
		c.Debug = true
	}
}

// Validate validates base configuration.
func (c *BaseConfig) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("base.name is required")
	}
	if !slices.Contains(environments, c.Environment) {
		return fmt.Errorf("base.environment must be one of %v (got: %s)", environments, c.Environment)
	}
	return nil
}

// ServiceConfig is BaseConfig plus logging. Programs embed it in their own
// config structs:
//
//	type DemoConfig struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	    Source SourceConfig `yaml:"source" mapstructure:"source"`
//	}
type ServiceConfig struct {
	BaseConfig `yaml:",inline" mapstructure:",squash"`
	Logger     logger.Config `yaml:"logger" mapstructure:"logger"`
}

// ApplyDefaults applies defaults to the base and logging sections.
func (c *ServiceConfig) ApplyDefaults() {
	c.BaseConfig.ApplyDefaults()
	if c.Debug && c.Logger.Level == "" {
		c.Logger.Level = "debug"
	}
	c.Logger.ApplyDefaults()
}

// Validate validates the base and logging sections.
func (c *ServiceConfig) Validate() error {
	if err := c.BaseConfig.Validate(); err != nil {
		return err
	}
	if err := c.Logger.Validate(); err != nil {
		return fmt.Errorf("config.logger: %w", err)
	}
	return nil
}
