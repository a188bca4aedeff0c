package cli

import (
	"fmt"

	"github.com/openfleet/opsagent/internal/config"
	"github.com/openfleet/opsagent/internal/logger"
	"github.com/openfleet/opsagent/pkg/agent"
	"github.com/openfleet/opsagent/pkg/store"
	"github.com/openfleet/opsagent/pkg/toolexec"
	"github.com/openfleet/opsagent/pkg/tools"
)

// runtime bundles the collaborators a command needs, built once from config.
type runtime struct {
	cfg      *config.Config
	log      *logger.Logger
	store    store.Querier
	registry *toolexec.Registry
	runner   *agent.Runner
}

// loadConfig reads and validates the configuration, applying CLI overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	// The catalog injects the tenant at construction, so an override has to
	// land in config before the runtime is wired.
	if askTenant != "" {
		cfg.Agent.DefaultTenant = askTenant
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// newRegistry builds the query tool registry over the configured store.
func newRegistry(cfg *config.Config) (store.Querier, *toolexec.Registry, error) {
	st, err := store.New(cfg.Store)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open store: %w", err)
	}

	catalog, err := tools.NewCatalog(st, cfg.Agent.DefaultTenant)
	if err != nil {
		return nil, nil, err
	}

	registry, err := toolexec.NewRegistry(catalog.Definitions())
	if err != nil {
		return nil, nil, err
	}
	return st, registry, nil
}

// newRuntime wires config, logger, store, tools, provider and runner.
func newRuntime() (*runtime, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		File:   cfg.Logging.File,
		Pretty: cfg.Logging.Pretty,
	})
	if err != nil {
		return nil, err
	}

	st, registry, err := newRegistry(cfg)
	if err != nil {
		log.Close()
		return nil, err
	}

	provider, err := agent.NewProvider(cfg.Provider.Name, cfg.Provider.APIKey)
	if err != nil {
		log.Close()
		return nil, err
	}

	runner, err := agent.NewRunner(agent.Config{
		Provider:     provider,
		Registry:     registry,
		Logger:       log.GetZerolog(),
		Model:        cfg.Provider.Model,
		SystemPrompt: cfg.Agent.SystemPrompt,
		MaxSteps:     cfg.Agent.MaxSteps,
		MaxTokens:    cfg.Provider.MaxTokens,
		Temperature:  cfg.Provider.Temperature,
	})
	if err != nil {
		log.Close()
		return nil, err
	}

	return &runtime{
		cfg:      cfg,
		log:      log,
		store:    st,
		registry: registry,
		runner:   runner,
	}, nil
}

// Close releases the runtime's resources.
func (r *runtime) Close() {
	if closer, ok := r.store.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			zl := r.log.GetZerolog()
			zl.Warn().Err(err).Msg("Failed to close store")
		}
	}
	r.log.Close()
}
