package config

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Validator validates configuration values
type Validator struct{}

// NewValidator creates a new validator
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateProvider validates the provider name
func (v *Validator) ValidateProvider(name string) error {
	switch name {
	case "anthropic", "openai":
		return nil
	case "":
		return fmt.Errorf("provider name is required")
	default:
		return fmt.Errorf("invalid provider %s (must be: anthropic, openai)", name)
	}
}

// ValidateAPIKey validates an API key format
func (v *Validator) ValidateAPIKey(key string, provider string) error {
	if key == "" {
		return fmt.Errorf("%s API key cannot be empty", provider)
	}

	switch provider {
	case "anthropic":
		if !strings.HasPrefix(key, "sk-ant-") {
			return fmt.Errorf("invalid Anthropic API key format (should start with sk-ant-)")
		}
	case "openai":
		if !strings.HasPrefix(key, "sk-") {
			return fmt.Errorf("invalid OpenAI API key format (should start with sk-)")
		}
	}

	return nil
}

// ValidateTenant validates the tenant identifier shape
func (v *Validator) ValidateTenant(tenant string) error {
	if _, err := uuid.Parse(tenant); err != nil {
		return fmt.Errorf("invalid tenant ID %s: must be a UUID", tenant)
	}
	return nil
}

// ValidateBackend validates the store backend name
func (v *Validator) ValidateBackend(backend string) error {
	switch backend {
	case "postgres", "sqlite", "memory":
		return nil
	case "":
		return fmt.Errorf("store backend is required")
	default:
		return fmt.Errorf("invalid store backend %s (must be: postgres, sqlite, memory)", backend)
	}
}

// ValidateTemperature validates a sampling temperature
func (v *Validator) ValidateTemperature(temp float64) error {
	if temp < 0 || temp > 2 {
		return fmt.Errorf("temperature must be between 0 and 2, got %g", temp)
	}
	return nil
}

// ValidateMaxTokens validates a max token budget
func (v *Validator) ValidateMaxTokens(tokens int) error {
	if tokens < 1 {
		return fmt.Errorf("max_tokens must be positive, got %d", tokens)
	}
	if tokens > 200000 {
		return fmt.Errorf("max_tokens too large: %d", tokens)
	}
	return nil
}

// ValidateLogLevel validates a log level name
func (v *Validator) ValidateLogLevel(level string) error {
	switch level {
	case "trace", "debug", "info", "warn", "error", "fatal":
		return nil
	default:
		return fmt.Errorf("invalid log level: %s", level)
	}
}
