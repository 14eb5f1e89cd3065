package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/JonMunkholm/bizdir/internal/core"
	"github.com/JonMunkholm/bizdir/internal/logging"
	"github.com/JonMunkholm/bizdir/internal/store"
	"github.com/JonMunkholm/bizdir/internal/web"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context(), cmd)
		},
	}
}

func (a *app) serve(ctx context.Context, cmd *cobra.Command) error {
	cfg := a.cfg
	logging.Setup(cmd.OutOrStdout(), cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("configuration loaded", "config", cfg.String())

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	sel := store.Open(ctx, cfg.Database)
	defer sel.Close()
	if sel.Mode.AuthRequired() && len(cfg.Security.APIKeys) == 0 {
		slog.Warn("API_KEYS is empty, every gated request will be rejected")
	}

	service := core.NewService(sel.Store, sel.Mode, cfg)
	server := web.NewServer(service, cfg)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := server.Start(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if status := service.UploadStatus(); status.Active > 0 {
			slog.Info("waiting for imports to complete", "active", status.Active)
			if err := service.WaitForImports(shutdownCtx); err != nil {
				slog.Warn("imports did not complete in time", "error", err)
			} else {
				slog.Info("all imports completed")
			}
		}
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	slog.Info("server stopped")
	return nil
}
