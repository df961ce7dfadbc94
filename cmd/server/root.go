package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/tendant/simple-graph/pkg/contentgraph/config"
)

const shutdownTimeout = 10 * time.Second

// serverOptions holds command line flags. Flags that are not set leave the
// environment or default value in place.
type serverOptions struct {
	port      string
	seed      bool
	seedFile  string
	logLevel  string
	logFormat string
}

func newRootCommand() *cobra.Command {
	opts := &serverOptions{}

	cmd := &cobra.Command{
		Use:   "simple-graph",
		Short: "Content graph server",
		Long: `Serve an in-memory graph of users, posts and comments over HTTP.

Queries and mutations are JSON routes. Post and comment changes are streamed
as server-sent events from /subscriptions/posts and
/subscriptions/posts/{id}/comments.

Configuration is read from the environment (see "simple-graph env") and can
be overridden with flags.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			return runServer(cmd.Context(), cfg)
		},
	}

	opts.bind(cmd)
	cmd.AddCommand(newEnvCommand())

	return cmd
}

func (o *serverOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.port, "port", "p", "", "HTTP listen port")
	cmd.Flags().BoolVar(&o.seed, "seed", true, "load the built-in demo dataset")
	cmd.Flags().StringVar(&o.seedFile, "seed-file", "", "YAML fixture to load instead of the demo dataset")
	cmd.Flags().StringVar(&o.logLevel, "log-level", "", "log level (debug|info|warn|error)")
	cmd.Flags().StringVar(&o.logFormat, "log-format", "", "log format (text|json)")
}

func newEnvCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "List the environment variables the server reads",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprint(cmd.OutOrStdout(), config.Usage())
		},
	}
}

// loadConfig layers explicitly set flags over the environment.
func loadConfig(cmd *cobra.Command, opts *serverOptions) (*config.ServerConfig, error) {
	options := []config.Option{config.WithEnv()}

	flags := cmd.Flags()
	if flags.Changed("port") {
		options = append(options, config.WithPort(opts.port))
	}
	if flags.Changed("seed") {
		options = append(options, config.WithSeed(opts.seed))
	}
	if flags.Changed("seed-file") {
		options = append(options, config.WithSeedFile(opts.seedFile))
	}
	if flags.Changed("log-level") {
		options = append(options, config.WithLogLevel(opts.logLevel))
	}
	if flags.Changed("log-format") {
		options = append(options, config.WithLogFormat(opts.logFormat))
	}

	cfg, err := config.Load(options...)
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	return cfg, nil
}

func runServer(ctx context.Context, cfg *config.ServerConfig) error {
	logger := cfg.NewLogger(os.Stderr)
	slog.SetDefault(logger)

	svc, err := cfg.BuildService(logger)
	if err != nil {
		return fmt.Errorf("build service: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := NewHTTPServer(svc, cfg)
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           server.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		// Request contexts end on shutdown so open subscription streams return.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Simple Graph Server starting", "port", cfg.Port, "environment", cfg.Environment,
			"seed", cfg.Seed, "seed_file", cfg.SeedFile)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	slog.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	slog.Info("Server exiting")
	return nil
}
