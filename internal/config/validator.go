package config

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/thetarby/rwsim"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "simulation.max_ticks")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// ValidPolicies returns the canonical policy names
func ValidPolicies() []string {
	names := make([]string, 0, len(rwsim.Kinds()))
	for _, k := range rwsim.Kinds() {
		names = append(names, k.String())
	}
	return names
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validateSimulation()...)
	errors = append(errors, c.validateLogging()...)

	return errors
}

func (c *Config) validateSimulation() []ValidationError {
	var errors []ValidationError

	if _, err := c.Simulation.PolicyKind(); err != nil {
		errors = append(errors, ValidationError{
			Field:   "simulation.policy",
			Value:   c.Simulation.Policy,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidPolicies(), ", ")),
		})
	}

	if c.Simulation.MaxTicks < 0 {
		errors = append(errors, ValidationError{
			Field:   "simulation.max_ticks",
			Value:   c.Simulation.MaxTicks,
			Message: "must be zero or positive",
		})
	}

	if c.Simulation.TickInterval < time.Millisecond {
		errors = append(errors, ValidationError{
			Field:   "simulation.tick_interval",
			Value:   c.Simulation.TickInterval,
			Message: "must be at least 1ms",
		})
	}

	return errors
}

func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	if c.Logging.Level != "" && !slices.Contains(ValidLogLevels(), strings.ToLower(c.Logging.Level)) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	return errors
}
