// Package logger provides structured logging for querykit using zerolog.
//
// It supports JSON and console output, level configuration, and loggers
// scoped to a component, a query operator, or a single cursor.
//
// # Configuration
//
//	logger:
//	  level: "debug"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get("orders").WithOperator("group_join")
//	log.Debug("cursor closed", logger.Fields(logger.FieldPulled, 12))
package logger
