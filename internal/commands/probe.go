package commands

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/diogo/mcpchat/internal/models"
	"github.com/diogo/mcpchat/internal/monitor"
)

// NewProbeCmd creates the reachability check command
func NewProbeCmd(deps *Dependencies) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Check whether the MCP server is reachable",
		Long: `Probe the MCP server's SSE endpoint and print its status.

Exits with status 1 when the server is unreachable. With --watch the
server is polled every poll interval and each status change is printed
until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProbe(cmd, watch)
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Keep polling and print status changes")
	return cmd
}

func runProbe(cmd *cobra.Command, watch bool) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger, err := commandLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	client, err := newClient(cfg, logger)
	if err != nil {
		return err
	}
	defer client.Close()

	out := cmd.OutOrStdout()
	printState := func(state models.ConnectionState) {
		writeStatus(out, state, client.SSEURL())
	}

	if !watch {
		mon := monitor.New(client,
			monitor.WithLogger(logger),
			monitor.WithProbeTimeout(cfg.ProbeTimeoutDuration()),
		)
		connected := mon.Probe(cmd.Context())
		printState(mon.State())
		if !connected {
			return errDisconnected
		}
		return nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mon := monitor.New(client,
		monitor.WithLogger(logger),
		monitor.WithProbeTimeout(cfg.ProbeTimeoutDuration()),
		monitor.WithStatusCallback(printState),
	)
	poller, err := mon.StartPolling(ctx, cfg.PollIntervalDuration())
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.ErrOrStderr(), dimStyle.Render(
		fmt.Sprintf("Polling every %s, press Ctrl+C to stop", cfg.PollIntervalDuration())))

	<-poller.Done()
	return nil
}

// writeStatus prints one status line
func writeStatus(w io.Writer, state models.ConnectionState, endpoint string) {
	style := errorStyle
	if state.Connected {
		style = successStyle
	}
	fmt.Fprintf(w, "%s  %s  %s\n",
		dimStyle.Render(state.LastCheckedAt.Format("15:04:05")),
		style.Render("● "+state.StatusText()),
		dimStyle.Render(endpoint),
	)
}
