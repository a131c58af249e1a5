// Package validation checks configuration structs.
//
// Struct tags cover per-field rules:
//
//	type SourceConfig struct {
//	    Count     int `mapstructure:"count" validate:"gte=0"`
//	    ChunkSize int `mapstructure:"chunk_size" validate:"gt=0"`
//	}
//	err := validation.Validate(cfg)
//
// A Validator covers rules that span fields:
//
//	err := validation.New().
//	    Custom(cfg.Start+cfg.Count > cfg.Start, "source.count", "overflows").
//	    Validate()
//
// Both report a CONTRACT_MISUSE errors.AppError with a "fields" detail.
package validation
