package config

import (
	"encoding/json"
	"fmt"

	"github.com/openfleet/opsagent/pkg/store"
)

// Config represents the main opsagent configuration
type Config struct {
	// Provider credentials and model selection
	Provider ProviderConfig `json:"provider" mapstructure:"provider"`

	// Agent loop settings
	Agent AgentConfig `json:"agent" mapstructure:"agent"`

	// Backing data store
	Store store.Config `json:"store" mapstructure:"store"`

	// Logging
	Logging LoggingConfig `json:"logging" mapstructure:"logging"`

	// Metrics endpoint
	Metrics MetricsConfig `json:"metrics" mapstructure:"metrics"`
}

// ProviderConfig holds model provider credentials
type ProviderConfig struct {
	Name        string  `json:"name" mapstructure:"name"` // anthropic, openai
	APIKey      string  `json:"api_key" mapstructure:"api_key"`
	Model       string  `json:"model" mapstructure:"model"`
	Temperature float64 `json:"temperature" mapstructure:"temperature"`
	MaxTokens   int     `json:"max_tokens" mapstructure:"max_tokens"`
}

// AgentConfig holds agent loop settings
type AgentConfig struct {
	DefaultTenant string `json:"default_tenant" mapstructure:"default_tenant"`
	MaxSteps      int    `json:"max_steps" mapstructure:"max_steps"`
	SystemPrompt  string `json:"system_prompt" mapstructure:"system_prompt"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `json:"level" mapstructure:"level"`
	File   string `json:"file" mapstructure:"file"`
	Pretty bool   `json:"pretty" mapstructure:"pretty"`
}

// MetricsConfig holds the Prometheus endpoint settings
type MetricsConfig struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled"`
	Addr    string `json:"addr" mapstructure:"addr"`
}

const defaultSystemPrompt = "You are an operations assistant for a delivery fleet. " +
	"Answer questions about sites, orders, deliveries, collections, drivers and schedules " +
	"using the available tools. Query first, then answer from the results; never invent data."

// DefaultConfig returns a config with default values
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderConfig{
			Name:        "anthropic",
			Model:       "claude-sonnet-4-20250514",
			Temperature: 0.0,
			MaxTokens:   4096,
		},
		Agent: AgentConfig{
			MaxSteps:     5,
			SystemPrompt: defaultSystemPrompt,
		},
		Store: store.Config{
			Backend: "postgres",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Pretty: false,
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Addr:    ":9090",
		},
	}
}

// String returns a JSON representation of the config with the API key masked
func (c *Config) String() string {
	clone := *c
	if clone.Provider.APIKey != "" {
		clone.Provider.APIKey = "***"
	}
	data, _ := json.MarshalIndent(&clone, "", "  ")
	return string(data)
}

// Validate checks if the configuration is valid. Credential and connection
// problems are caught here so the process fails at startup rather than
// mid-run.
func (c *Config) Validate() error {
	v := NewValidator()

	if err := v.ValidateProvider(c.Provider.Name); err != nil {
		return err
	}
	if err := v.ValidateAPIKey(c.Provider.APIKey, c.Provider.Name); err != nil {
		return err
	}
	if c.Provider.Model == "" {
		return fmt.Errorf("provider model is required")
	}
	if err := v.ValidateTemperature(c.Provider.Temperature); err != nil {
		return err
	}
	if err := v.ValidateMaxTokens(c.Provider.MaxTokens); err != nil {
		return err
	}

	if c.Agent.DefaultTenant == "" {
		return fmt.Errorf("agent default_tenant is required")
	}
	if err := v.ValidateTenant(c.Agent.DefaultTenant); err != nil {
		return err
	}
	if c.Agent.MaxSteps < 1 {
		return fmt.Errorf("agent max_steps must be at least 1")
	}

	if err := v.ValidateBackend(c.Store.Backend); err != nil {
		return err
	}
	if (c.Store.Backend == "postgres" || c.Store.Backend == "sqlite") && c.Store.DSN == "" {
		return fmt.Errorf("store dsn is required for backend %s", c.Store.Backend)
	}

	if err := v.ValidateLogLevel(c.Logging.Level); err != nil {
		return err
	}

	return nil
}
