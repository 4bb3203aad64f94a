package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/diogo/mcpchat/internal/config"
	"github.com/diogo/mcpchat/internal/conversation"
	"github.com/diogo/mcpchat/internal/logging"
	"github.com/diogo/mcpchat/internal/models"
	"github.com/diogo/mcpchat/internal/render"
)

// errRequestFailed is returned by ask after the apology has been printed
var errRequestFailed = errors.New("request failed")

type askOptions struct {
	file   string
	output string
	raw    bool
	html   bool
}

func addAskFlags(cmd *cobra.Command, opts *askOptions) {
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "Read prompt from file")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Save response to file")
	cmd.Flags().BoolVar(&opts.raw, "raw", false, "Print the reply as plain text")
	cmd.Flags().BoolVar(&opts.html, "html", false, "Print the reply converted to HTML")
}

// NewAskCmd creates the one-shot query command
func NewAskCmd(deps *Dependencies) *cobra.Command {
	deps = deps.orDefault()
	var opts askOptions

	cmd := &cobra.Command{
		Use:   "ask [prompt]",
		Short: "Send a single message and print the reply",
		Long: `Send a single message to the assistant and print its reply.

The prompt is taken from the argument, from --file, or from stdin.
Replies are rendered as markdown on a terminal and printed as plain text
otherwise.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt, ok, err := readPrompt(cmd, args, opts.file)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("no prompt given: pass it as an argument, with --file, or on stdin")
			}
			return runAsk(cmd, deps, prompt, opts)
		},
	}
	addAskFlags(cmd, &opts)
	return cmd
}

// readPrompt resolves the prompt from --file, the argument or piped stdin
func readPrompt(cmd *cobra.Command, args []string, file string) (string, bool, error) {
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", false, fmt.Errorf("failed to read file: %w", err)
		}
		return string(data), true, nil
	}

	if len(args) > 0 {
		return args[0], true, nil
	}

	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok {
		stat, err := f.Stat()
		if err != nil || stat.Mode()&os.ModeCharDevice != 0 {
			return "", false, nil
		}
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return "", false, fmt.Errorf("failed to read stdin: %w", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return "", false, nil
	}
	return string(data), true, nil
}

// commandLogger logs to stderr in verbose mode and to the configured
// file (or nowhere) otherwise
func commandLogger(cfg config.Config) (*zap.Logger, error) {
	if cfg.Verbose {
		return logging.New(cfg.Log)
	}
	return logging.NewForTUI(cfg.Log)
}

// runAsk sends prompt through a conversation controller and prints the reply
func runAsk(cmd *cobra.Command, deps *Dependencies, prompt string, opts askOptions) error {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return fmt.Errorf("prompt cannot be empty")
	}

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

	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()
	plain := opts.raw || opts.html || !isTerminal(stdout)

	view := newConsoleView(stderr, !plain && isTerminal(stderr))
	ctrl := conversation.New(view, newProvider(cfg, client),
		conversation.WithLogger(logger),
		conversation.WithRequestTimeout(cfg.RequestTimeoutDuration()),
	)

	if cfg.Verbose {
		fmt.Fprintf(stderr, "[verbose] Provider: %s, base URL: %s\n", cfg.Provider, cfg.BaseURL)
	}

	pending, err := ctrl.Submit(cmd.Context(), prompt)
	if err != nil {
		return err
	}
	<-pending.Done()

	reply, failed := pending.Outcome()
	if failed {
		fmt.Fprintln(stderr, warningStyle.Render(reply.Content))
		return errRequestFailed
	}

	text := reply.Content
	out := text
	if opts.html {
		out = render.Markup(text)
	}

	if cfg.CopyToClipboard {
		if err := deps.Clipboard(text); err != nil {
			fmt.Fprintln(stderr, errorStyle.Render(fmt.Sprintf("⚠ Failed to copy to clipboard: %v", err)))
		} else if !plain {
			fmt.Fprintln(stderr, successStyle.Render("✓ Copied to clipboard"))
		}
	}

	if opts.output != "" {
		if err := os.WriteFile(opts.output, []byte(out), 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		if !plain {
			fmt.Fprintln(stderr, successStyle.Render(fmt.Sprintf("✓ Response saved to %s", opts.output)))
		}
		return nil
	}

	if plain {
		if !strings.HasSuffix(out, "\n") {
			out += "\n"
		}
		fmt.Fprint(stdout, out)
		return nil
	}

	fmt.Fprintln(stdout, renderReply(text, getTerminalWidth(), render.OptionsFromConfig(cfg.Markdown)))
	return nil
}

// consoleView drives a spinner on stderr while a reply is pending. The
// reply itself is read from the pending request once it resolves.
type consoleView struct {
	out      io.Writer
	progress bool

	mu   sync.Mutex
	spin *spinner
}

func newConsoleView(out io.Writer, progress bool) *consoleView {
	return &consoleView{out: out, progress: progress}
}

func (v *consoleView) AppendMessage(models.Message, string) {}
func (v *consoleView) ClearInput() {}
func (v *consoleView) SetInputEnabled(bool) {}
func (v *consoleView) UpdateStatus(models.ConnectionState) {}

func (v *consoleView) ShowPending(string) {
	if !v.progress {
		return
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.spin = newSpinner(v.out, "Waiting for the assistant")
	v.spin.start()
}

func (v *consoleView) RemovePending(string) {
	v.mu.Lock()
	spin := v.spin
	v.spin = nil
	v.mu.Unlock()
	if spin != nil {
		spin.halt()
	}
}
