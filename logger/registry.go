package logger

import (
	"sync"
)

// registry holds named loggers, typically one per pipeline.
var registry sync.Map

// Register stores a named logger in the registry.
func Register(name string, l *Logger) {
	registry.Store(name, l)
}

// Get retrieves a named logger. An unregistered name yields the global
// logger tagged with name as its component.
func Get(name string) *Logger {
	if v, ok := registry.Load(name); ok {
		return v.(*Logger)
	}
	return GetGlobalLogger().WithComponent(name)
}

// RegisterDefaults seeds the registry with component loggers derived from
// the global logger. Call it after Init.
func RegisterDefaults(names ...string) {
	for _, name := range names {
		Register(name, GetGlobalLogger().WithComponent(name))
	}
}
