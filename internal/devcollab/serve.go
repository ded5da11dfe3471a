package devcollab

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/agnel18/DevCollab/internal/server"
	"github.com/spf13/cobra"
)

const defaultListenAddr = "127.0.0.1:8080"

type serveOptions struct {
	Addr       string
	SQLitePath string
	ConfigFile string
	Logger     *slog.Logger
}

var runServeFn = runServe

func setRunServeForTest(fn func(serveOptions) error) func() {
	prev := runServeFn
	runServeFn = fn
	return func() { runServeFn = prev }
}

func addrFromServerURL(serverURL string) string {
	raw := strings.TrimSpace(serverURL)
	if raw == "" {
		return defaultListenAddr
	}

	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return defaultListenAddr
	}

	host := u.Host
	if _, _, splitErr := net.SplitHostPort(host); splitErr == nil {
		return host
	}

	switch u.Scheme {
	case "https":
		return net.JoinHostPort(host, "443")
	case "http":
		return net.JoinHostPort(host, "80")
	default:
		return defaultListenAddr
	}
}

func newServeCommand(cfg *Config, rt *commandRuntime) *cobra.Command {
	addr := addrFromServerURL(cfg.ServerURL)
	sqlitePath := cfg.SQLitePath

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the DevCollab backend API server.",
		Long:  "Runs the REST API and the websocket change feed on top of a sqlite database.",
		Example: strings.TrimSpace(`devcollab serve
devcollab serve --addr 127.0.0.1:8090
devcollab --server-url http://127.0.0.1:9010 serve
devcollab serve --sqlite-path /tmp/devcollab/devcollab.db`),
		RunE: func(cmd *cobra.Command, _ []string) error {
			serveAddr := strings.TrimSpace(addr)
			serveSQLite := strings.TrimSpace(sqlitePath)

			if !cmd.Flags().Changed("addr") {
				serveAddr = addrFromServerURL(cfg.ServerURL)
			}
			if !cmd.Flags().Changed("sqlite-path") {
				serveSQLite = strings.TrimSpace(cfg.SQLitePath)
			}

			if serveAddr == "" {
				return errors.New("--addr cannot be empty")
			}
			if serveSQLite == "" {
				return errors.New("--sqlite-path cannot be empty")
			}

			return runServeFn(serveOptions{
				Addr:       serveAddr,
				SQLitePath: serveSQLite,
				ConfigFile: cfg.ConfigFile,
				Logger:     rt.Logger(),
			})
		},
	}

	cmd.Flags().StringVar(&addr, "addr", addr, "server listen address")
	cmd.Flags().StringVar(&sqlitePath, "sqlite-path", sqlitePath, "sqlite database path")
	return cmd
}

func runServe(opts serveOptions) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if err := os.MkdirAll(filepath.Dir(opts.SQLitePath), 0o755); err != nil {
		return fmt.Errorf("create sqlite parent dir failed: %w", err)
	}

	app, err := server.New(server.Options{SQLitePath: opts.SQLitePath, ConfigPath: opts.ConfigFile, Logger: logger})
	if err != nil {
		return fmt.Errorf("init server failed: %w", err)
	}
	defer func() {
		if closeErr := app.Close(); closeErr != nil {
			logger.Error("close server failed", "error", closeErr)
		}
	}()

	httpServer := &http.Server{
		Addr:              opts.Addr,
		Handler:           app.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	logger.Info("starting devcollab backend", "addr", opts.Addr, "sqlite_path", opts.SQLitePath)

	serverErrCh := make(chan error, 1)
	go func() {
		if listenErr := httpServer.ListenAndServe(); listenErr != nil && listenErr != http.ErrServerClosed {
			serverErrCh <- listenErr
			return
		}
		serverErrCh <- nil
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case listenErr := <-serverErrCh:
		if listenErr != nil {
			return fmt.Errorf("listen failed: %w", listenErr)
		}
		return nil
	case sig := <-sigCh:
		logger.Info("shutdown signal received", "signal", sig.String())
	}

	if err := httpServer.Close(); err != nil {
		return fmt.Errorf("http server close failed: %w", err)
	}
	if listenErr := <-serverErrCh; listenErr != nil {
		return fmt.Errorf("listen failed after shutdown: %w", listenErr)
	}
	logger.Info("server stopped")
	return nil
}
