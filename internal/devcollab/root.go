package devcollab

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/agnel18/DevCollab/internal/client"
	"github.com/agnel18/DevCollab/internal/devcollab/commands/boardcmd"
	"github.com/agnel18/DevCollab/internal/devcollab/commands/cardcmd"
	"github.com/agnel18/DevCollab/internal/devcollab/commands/taskcmd"
	"github.com/agnel18/DevCollab/internal/devcollab/commands/timercmd"
	"github.com/spf13/cobra"
)

type globalFlags struct {
	serverURL string
	output    string
	logLevel  string
	logFormat string
}

// commandRuntime is shared with the command subpackages. The logger is built once the
// global flags are applied.
type commandRuntime struct {
	cfg    *Config
	stderr io.Writer
	logger *slog.Logger
}

func (r *commandRuntime) ServerURL() string {
	return r.cfg.ServerURL
}

func (r *commandRuntime) Output() string {
	return string(r.cfg.Output)
}

func (r *commandRuntime) DefaultBoard() int64 {
	return r.cfg.Board
}

func (r *commandRuntime) Logger() *slog.Logger {
	if r.logger == nil {
		logger, err := NewLogger(r.stderr, r.cfg.LogLevel, r.cfg.LogFormat)
		if err != nil {
			logger, _ = NewLogger(r.stderr, "", "")
		}
		r.logger = logger
	}
	return r.logger
}

func newAPIClient(rt *commandRuntime) (*client.Client, error) {
	return client.New(rt.ServerURL(), client.WithLogger(rt.Logger()))
}

func NewRootCommand(initial Config, stdout, stderr io.Writer) *cobra.Command {
	cfg := initial
	flags := globalFlags{
		serverURL: initial.ServerURL,
		output:    string(initial.Output),
		logLevel:  initial.LogLevel,
		logFormat: initial.LogFormat,
	}
	runtime := &commandRuntime{cfg: &cfg, stderr: stderr}

	root := &cobra.Command{
		Use:   "devcollab",
		Short: "Run the DevCollab server and manage boards, projects and pomodoro timers.",
		Long: strings.TrimSpace(`devcollab is a unified binary for:
- starting the DevCollab backend server
- managing boards, columns, projects and tasks over the HTTP API
- running pomodoro timers, one at a time
- an interactive terminal board with drag and drop

Use devcollab help <command> for command-specific examples.`),
		Example: strings.TrimSpace(`devcollab serve
devcollab board create -n "Client work"
devcollab card create -b 1 -n "Landing page"
devcollab timer start -i 1
devcollab card move -i 1 -s DONE
devcollab ui -b 1
devcollab --output json watch -b 1`),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if err := applyGlobalFlags(&cfg, flags); err != nil {
				return err
			}
			logger, err := NewLogger(stderr, cfg.LogLevel, cfg.LogFormat)
			if err != nil {
				return &cliError{status: http.StatusBadRequest, message: err.Error()}
			}
			runtime.logger = logger
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVar(&flags.serverURL, "server-url", flags.serverURL, "Backend API base URL (e.g. http://127.0.0.1:8080)")
	root.PersistentFlags().StringVar(&flags.output, "output", flags.output, "Output format: text or json")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", flags.logLevel, "Log level: debug, info, warn or error")
	root.PersistentFlags().StringVar(&flags.logFormat, "log-format", flags.logFormat, "Log format: text, logfmt or json")

	root.AddCommand(newServeCommand(&cfg, runtime))
	root.AddCommand(newPrimerCommand(&cfg, stdout))
	root.AddCommand(boardcmd.New(runtime, stdout, handleResult, wrapCLIError))
	root.AddCommand(boardcmd.NewColumn(runtime, stdout, handleResult, wrapCLIError))
	root.AddCommand(cardcmd.New(runtime, stdout, handleResult, wrapCLIError))
	root.AddCommand(timercmd.New(runtime, stdout, handleResult, wrapCLIError))
	root.AddCommand(taskcmd.New(runtime, stdout, handleResult, wrapCLIError))
	root.AddCommand(taskcmd.NewSubtask(runtime, stdout, handleResult, wrapCLIError))
	root.AddCommand(newWatchCommand(&cfg, runtime, stdout))
	root.AddCommand(newUICommand(&cfg))

	return root
}

func applyGlobalFlags(cfg *Config, flags globalFlags) error {
	output := strings.TrimSpace(flags.output)
	if !isValidOutput(output) {
		return &cliError{status: http.StatusBadRequest, message: fmt.Sprintf("invalid --output: %s", output)}
	}

	cfg.ServerURL = strings.TrimSpace(flags.serverURL)
	cfg.Output = Output(output)
	if level := strings.TrimSpace(flags.logLevel); level != "" {
		cfg.LogLevel = level
	}
	if format := strings.TrimSpace(flags.logFormat); format != "" {
		cfg.LogFormat = format
	}

	if cfg.ServerURL == "" {
		return &cliError{status: http.StatusBadRequest, message: "--server-url cannot be empty"}
	}

	return nil
}
