package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/roach88/featureql/internal/features"
	"github.com/roach88/featureql/internal/server"
	"github.com/roach88/featureql/internal/store"
)

// DSNEnv is read when --dsn is not given.
const DSNEnv = "FEATUREQL_DSN"

// DefaultQueryTimeout bounds each statement.
const DefaultQueryTimeout = 30 * time.Second

// DatabaseOptions holds flags shared by commands that execute statements.
type DatabaseOptions struct {
	DSN          string
	QueryTimeout time.Duration
}

func bindDatabaseFlags(cmd *cobra.Command, opts *DatabaseOptions) {
	cmd.Flags().StringVar(&opts.DSN, "dsn", os.Getenv(DSNEnv), "PostgreSQL connection string (default $"+DSNEnv+")")
	cmd.Flags().DurationVar(&opts.QueryTimeout, "query-timeout", DefaultQueryTimeout, "per-statement timeout (0 disables)")
}

// openStore connects to the configured database.
func openStore(ctx context.Context, opts DatabaseOptions, extra ...store.Option) (*store.Store, error) {
	if opts.DSN == "" {
		return nil, &LoadError{Code: ErrCodeNoDatabase, Message: "no database configured: set --dsn or " + DSNEnv}
	}
	storeOpts := append([]store.Option{store.WithQueryTimeout(opts.QueryTimeout)}, extra...)
	st, err := store.Open(ctx, opts.DSN, storeOpts...)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeDatabase, Message: err.Error(), Err: err}
	}
	return st, nil
}

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	DatabaseOptions
	Addr string
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the catalogue over HTTP",
		Long: `Serve the collection catalogue as an OGC API Features endpoint.

Routes:
  GET /collections
  GET /collections/{collectionId}
  GET /collections/{collectionId}/items
  GET /metrics

Example:
  featureql serve --catalog catalog.cue --dsn postgres://gis@localhost/gis --addr :8080`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts, cmd)
		},
	}

	bindDatabaseFlags(cmd, &opts.DatabaseOptions)
	cmd.Flags().StringVar(&opts.Addr, "addr", ":8080", "listen address")

	return cmd
}

func runServe(opts *ServeOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	slog.Info("loading catalog", "path", opts.Catalog)
	cat, reg, err := LoadCatalog(opts.Catalog)
	if err != nil {
		return outputLoadError(formatter, err)
	}
	slog.Info("catalog loaded", "collections", cat.Len())

	// Use command's context if available (for testing), otherwise create one
	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	st, err := openStore(ctx, opts.DatabaseOptions, store.WithMetrics(store.NewMetrics(prometheus.DefaultRegisterer)))
	if err != nil {
		return outputLoadError(formatter, err)
	}
	defer st.Close()
	slog.Info("database ready")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan) // Prevent signal handler leak

	go func() {
		select {
		case sig := <-sigChan:
			slog.Info("received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
			// Parent context cancelled (e.g., from test)
		}
	}()

	srv := server.New(features.NewService(cat, reg, st))
	if err := srv.ListenAndServe(ctx, opts.Addr); err != nil {
		return WrapExitError(ExitFailure, "server error", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}
