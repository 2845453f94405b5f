package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/davidbz/ember/internal/http"
	"github.com/davidbz/ember/internal/observability"
)

const shutdownTimeout = 15 * time.Second

//nolint:gochecknoglobals // cobra command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Start the HTTP server.

The cache is seeded from CACHE_SEED_FILE and documents are ingested from
DOCS_DIR before the server accepts requests. SIGINT and SIGTERM trigger a
graceful shutdown.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	if err := initLogging(false); err != nil {
		return err
	}

	container, err := buildContainer()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return container.Invoke(func(server *http.Server) error {
		g, gctx := errgroup.WithContext(ctx)

		g.Go(server.Start)

		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		})

		err := g.Wait()
		observability.FromContext(ctx).Info("server stopped")
		return err
	})
}
