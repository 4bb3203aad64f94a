package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/diogo/mcpchat/internal/api"
	"github.com/diogo/mcpchat/internal/config"
	"github.com/diogo/mcpchat/internal/conversation"
	"github.com/diogo/mcpchat/internal/simulator"
)

// loadConfig reads the config file, the optional .env file and the
// persistent flags, in increasing order of precedence.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	if err := config.LoadDotEnv(); err != nil {
		return config.Config{}, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if f := flags.Lookup("base-url"); f != nil && f.Changed {
		if err := config.Set(&cfg, "base_url", f.Value.String()); err != nil {
			return cfg, err
		}
	}
	if f := flags.Lookup("provider"); f != nil && f.Changed {
		if err := config.Set(&cfg, "provider", f.Value.String()); err != nil {
			return cfg, err
		}
	}
	if f := flags.Lookup("poll-interval"); f != nil && f.Changed {
		if err := config.Set(&cfg, "poll_interval_seconds", f.Value.String()); err != nil {
			return cfg, err
		}
	}
	if f := flags.Lookup("verbose"); f != nil && f.Changed {
		cfg.Verbose = f.Value.String() == "true"
	}
	if cfg.Verbose && cfg.Log.Level == "info" {
		cfg.Log.Level = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// newClient builds the MCP client for cfg
func newClient(cfg config.Config, logger *zap.Logger) (*api.Client, error) {
	client, err := api.NewClient(cfg.BaseURL,
		api.WithProbeTimeout(cfg.ProbeTimeoutDuration()),
		api.WithRequestTimeout(cfg.RequestTimeoutDuration()),
		api.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return client, nil
}

// newProvider picks the reply source: the local simulator in demo mode,
// the MCP server otherwise.
func newProvider(cfg config.Config, client *api.Client) conversation.ResponseProvider {
	if cfg.Provider == config.ProviderRemote {
		return client
	}
	min, max := cfg.SimulatedDelay()
	return simulator.New(simulator.WithDelay(min, max))
}
