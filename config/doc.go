// Package config loads program configuration with Viper.
//
// LoadConfig reads a YAML file, an optional .env file, and environment
// variables, then unmarshals the result into the caller's struct. Files are
// looked up in conventional locations (./cmd/<name>/config.yml,
// ./config/config.yml, ./config.yml) unless given explicitly.
//
// Environment variables override file values. With WithEnvPrefix("DEMO"),
// DEMO_SOURCE_CHUNK_SIZE sets source.chunk_size.
//
// After unmarshalling, structs with ApplyDefaults or Validate methods have
// them called, in that order.
//
// # Usage
//
//	var cfg DemoConfig
//	err := config.LoadConfig("querydemo", &cfg, config.WithEnvPrefix("QUERYDEMO"))
package config
