package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/diogo/mcpchat/internal/logging"
	"github.com/diogo/mcpchat/internal/server"
	"github.com/diogo/mcpchat/internal/simulator"
)

// NewServeCmd creates the demo backend command
func NewServeCmd(deps *Dependencies) *cobra.Command {
	var (
		addr   string
		prefix string
		delay  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the demo MCP backend",
		Long: `Run a small HTTP server that speaks the two MCP endpoints the client
uses and answers from the built-in simulator:

  GET  {prefix}/sse        event stream used as the reachability probe
  POST {prefix}/messages   {"role":"user","content":"..."} -> assistant reply
  GET  /healthz            service health

Point the client at it with --provider remote.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			if cmd.Flags().Changed("prefix") {
				cfg.Server.Prefix = prefix
			}

			min, max := cfg.SimulatedDelay()
			if cmd.Flags().Changed("delay") {
				min, max = delay, delay
			}

			logger, err := logging.New(cfg.Log)
			if err != nil {
				return fmt.Errorf("failed to create logger: %w", err)
			}
			defer func() { _ = logger.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			sim := simulator.New(simulator.WithDelay(min, max))
			srv := server.New(cfg.Server, sim, logger)

			logger.Info("starting demo backend",
				zap.String("addr", cfg.Server.Addr),
				zap.String("prefix", srv.Handler().Prefix()),
				zap.Duration("min_delay", min),
				zap.Duration("max_delay", max),
			)
			return srv.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config, :8080)")
	cmd.Flags().StringVar(&prefix, "prefix", "", "Route prefix for the MCP endpoints (default /api/mcp)")
	cmd.Flags().DurationVar(&delay, "delay", 0, "Fixed reply delay, overriding the configured range")
	return cmd
}
