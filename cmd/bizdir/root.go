package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/bizdir/internal/config"
	"github.com/JonMunkholm/bizdir/internal/core"
	"github.com/JonMunkholm/bizdir/internal/logging"
	"github.com/JonMunkholm/bizdir/internal/store"
)

// app carries what every subcommand needs once the root has run.
type app struct {
	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "bizdir",
		Short: "Business contact directory",
		Long: `bizdir keeps a directory of business contacts. It serves a JSON API,
imports spreadsheets and CSV files, and exports the directory as a
workbook, CSV mailing list or Word document.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.init,
	}
	root.AddCommand(newServeCmd(a), newImportCmd(a), newExportCmd(a))
	return root
}

// init loads .env and the environment, then configures logging. Logs go
// to stderr so command output on stdout stays machine-readable.
func (a *app) init(cmd *cobra.Command, args []string) error {
	envErr := godotenv.Overload()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logging.Setup(cmd.ErrOrStderr(), cfg.Logging.Level, cfg.Logging.Format)

	if envErr != nil {
		slog.Debug("no .env file found, using environment variables")
	} else {
		slog.Debug("loaded .env file (overwriting existing env vars)")
	}
	a.cfg = cfg
	return nil
}

// openService selects storage for a one-shot command. A configured but
// unreachable database is an error here, never a fallback to memory.
func (a *app) openService(ctx context.Context) (*core.Service, func(), error) {
	sel := store.Open(ctx, a.cfg.Database)
	if !sel.Mode.Available() {
		sel.Close()
		return nil, nil, fmt.Errorf("open storage: %w", core.ErrStorageUnavailable)
	}
	return core.NewService(sel.Store, sel.Mode, a.cfg), sel.Close, nil
}
