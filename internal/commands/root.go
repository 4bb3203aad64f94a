// Package commands provides CLI commands for mcpchat.
package commands

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version info (set at build time)
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// errDisconnected is returned by probe when the server is unreachable.
// The status line has already been printed, so Execute stays quiet.
var errDisconnected = errors.New("MCP server is not reachable")

// NewRootCmd creates the mcpchat command tree
func NewRootCmd(deps *Dependencies) *cobra.Command {
	deps = deps.orDefault()
	var opts askOptions

	cmd := &cobra.Command{
		Use:   "mcpchat [prompt]",
		Short: "Terminal chat client for an MCP monitoring assistant",
		Long: `mcpchat is a terminal chat client for a monitoring assistant backed by
an MCP server. It keeps an eye on the server's reachability and can answer
from a built-in simulator when no server is available.

Examples:
  mcpchat chat                            Start interactive chat
  mcpchat "Show me the error rate"        Send a single query
  mcpchat -f question.md                  Read prompt from file
  echo "p95 latency?" | mcpchat           Read prompt from stdin
  mcpchat probe --watch                   Watch server reachability
  mcpchat serve                           Run the demo MCP backend`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if v, _ := cmd.Flags().GetBool("version"); v {
				fmt.Fprintf(cmd.OutOrStdout(), "mcpchat %s (built %s)\n", Version, BuildTime)
				return nil
			}

			prompt, ok, err := readPrompt(cmd, args, opts.file)
			if err != nil {
				return err
			}
			if !ok {
				return cmd.Help()
			}
			return runAsk(cmd, deps, prompt, opts)
		},
	}

	// Global flags
	cmd.PersistentFlags().String("base-url", "", "MCP server base URL (e.g., http://localhost:8080/api/mcp)")
	cmd.PersistentFlags().String("provider", "", "Reply source: demo or remote")
	cmd.PersistentFlags().Int("poll-interval", 0, "Seconds between reachability probes")
	cmd.PersistentFlags().Bool("verbose", false, "Enable debug logging")

	cmd.Flags().BoolP("version", "v", false, "Show version and exit")
	addAskFlags(cmd, &opts)

	cmd.AddCommand(
		NewChatCmd(deps),
		NewAskCmd(deps),
		NewProbeCmd(deps),
		NewServeCmd(deps),
		NewConfigCmd(deps),
		NewPromptsCmd(deps),
	)

	return cmd
}

// rootCmd represents the base command
var rootCmd = NewRootCmd(NewDependencies())

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		reportError(os.Stderr, err)
		os.Exit(1)
	}
}

func reportError(w io.Writer, err error) {
	if errors.Is(err, errDisconnected) || errors.Is(err, errRequestFailed) {
		return
	}
	fmt.Fprintln(w, formatErrorMessage(err, "Error"))
}
