package config

import (
	"fmt"
	"strings"
)

// Supported transports.
const (
	TransportNet   = "net"
	TransportResty = "resty"
)

// Supported output formats.
const (
	OutputText = "text"
	OutputJSON = "json"
	OutputYAML = "yaml"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Path    string
	Message string
}

// Error returns the error message
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// ValidationErrors is every problem found in one Config.
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	msgs := make([]string, len(ve))
	for i, err := range ve {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// ValidateConfig validates the configuration
func ValidateConfig(config *Config) ValidationErrors {
	var errors ValidationErrors

	if config.Timeout <= 0 {
		errors = append(errors, ValidationError{
			Path:    "timeout",
			Message: "timeout must be positive",
		})
	}

	switch config.Transport {
	case TransportNet, TransportResty:
	default:
		errors = append(errors, ValidationError{
			Path:    "transport",
			Message: fmt.Sprintf("invalid transport: %s (use %s or %s)", config.Transport, TransportNet, TransportResty),
		})
	}

	switch config.Output {
	case OutputText, OutputJSON, OutputYAML:
	default:
		errors = append(errors, ValidationError{
			Path:    "output",
			Message: fmt.Sprintf("invalid output format: %s", config.Output),
		})
	}

	switch config.LogLevel {
	case "debug", "info", "warn", "warning", "error":
	default:
		errors = append(errors, ValidationError{
			Path:    "log_level",
			Message: fmt.Sprintf("invalid log level: %s", config.LogLevel),
		})
	}

	switch config.LogFormat {
	case "console", "json":
	default:
		errors = append(errors, ValidationError{
			Path:    "log_format",
			Message: fmt.Sprintf("invalid log format: %s", config.LogFormat),
		})
	}

	if strings.TrimSpace(config.ProbeAddress) == "" {
		errors = append(errors, ValidationError{
			Path:    "probe_address",
			Message: "probe address is required",
		})
	}

	return errors
}
