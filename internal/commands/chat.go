package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/diogo/mcpchat/internal/config"
	"github.com/diogo/mcpchat/internal/conversation"
	"github.com/diogo/mcpchat/internal/logging"
	"github.com/diogo/mcpchat/internal/monitor"
	"github.com/diogo/mcpchat/internal/render"
	"github.com/diogo/mcpchat/internal/tui"
)

// NewChatCmd creates the interactive chat command
func NewChatCmd(deps *Dependencies) *cobra.Command {
	deps = deps.orDefault()

	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session",
		Long: `Start an interactive chat session with the monitoring assistant.

The header shows whether the MCP server is reachable; it is probed on
start and then every poll interval. Press Tab on the welcome screen to
cycle through the quick prompts.
Type 'exit', 'quit', or press Esc or Ctrl+C to end the session.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd, deps)
		},
	}
}

func runChat(cmd *cobra.Command, deps *Dependencies) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger, err := logging.NewForTUI(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	client, err := newClient(cfg, logger)
	if err != nil {
		return err
	}
	defer client.Close()

	if cfg.TUITheme != "" && render.SetTUITheme(cfg.TUITheme) {
		tui.UpdateTheme()
	}

	prompts := config.DefaultPrompts()
	if loaded, err := config.LoadPrompts(); err == nil {
		prompts = loaded.Prompts
	} else {
		logger.Warn("using built-in quick prompts", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	view := tui.NewProgramView()
	ctrl := conversation.New(view, newProvider(cfg, client),
		conversation.WithLogger(logger),
		conversation.WithRequestTimeout(cfg.RequestTimeoutDuration()),
	)
	mon := monitor.New(client,
		monitor.WithLogger(logger),
		monitor.WithProbeTimeout(cfg.ProbeTimeoutDuration()),
		monitor.WithStatusCallback(ctrl.UpdateStatus),
	)

	model := tui.NewChatModel(ctrl, tui.ChatOptions{
		Provider: cfg.Provider,
		BaseURL:  cfg.BaseURL,
		Prompts:  prompts,
		Markdown: render.OptionsFromConfig(cfg.Markdown),
		Copy:     deps.Clipboard,
		Context:  ctx,
	})

	logger.Info("chat started",
		zap.String("provider", cfg.Provider),
		zap.String("base_url", cfg.BaseURL),
	)

	err = deps.TUI.RunChat(model, view, func() {
		if _, err := mon.StartPolling(ctx, cfg.PollIntervalDuration()); err != nil {
			logger.Warn("status polling not started", zap.Error(err))
		}
	})

	cancel()
	mon.StopPolling()
	ctrl.Wait()
	return err
}
