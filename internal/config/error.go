package config

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound is returned by Discover when no config file exists.
	ErrNotFound = errors.New("config not found")

	// ErrInvalid matches every *ConfigError through errors.Is.
	ErrInvalid = errors.New("invalid config")
)

// ConfigError collects everything wrong with one config file so the daemon
// can report it in a single message.
type ConfigError struct {
	Path    string
	Missing []string // unresolved ${VAR} references, with their :? message if any
	Errors  []string // Validate results
}

func (e *ConfigError) Error() string {
	if !e.HasErrors() {
		return ""
	}

	var b strings.Builder
	if e.Path != "" {
		b.WriteString(e.Path)
		b.WriteString(": ")
	}
	b.WriteString(ErrInvalid.Error())
	if len(e.Missing) > 0 {
		b.WriteString("\n  unset environment variables: ")
		b.WriteString(strings.Join(e.Missing, ", "))
	}
	for _, msg := range e.Errors {
		b.WriteString("\n  ")
		b.WriteString(msg)
	}
	return b.String()
}

// Is reports ErrInvalid.
func (e *ConfigError) Is(target error) bool { return target == ErrInvalid }

// HasErrors reports whether anything was collected.
func (e *ConfigError) HasErrors() bool {
	return len(e.Missing) > 0 || len(e.Errors) > 0
}
