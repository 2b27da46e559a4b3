package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"ghexplorer/internal/di"

	"github.com/spf13/cobra"
)

// --- serve ---

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server (foreground)",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, cleanup, err := di.InitApp(&flags)
		if err != nil {
			return fmt.Errorf("init: %w", err)
		}
		defer cleanup()

		ctx, stop := signal.NotifyContext(ctxOf(cmd), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return app.Run(ctx)
	},
}

// --- migrate ---

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Bring persisted data up to the current layout and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, cleanup, err := di.InitStore(&flags)
		if err != nil {
			return fmt.Errorf("init: %w", err)
		}
		defer cleanup()

		if store.Degraded() {
			return fmt.Errorf("configured storage is unavailable")
		}
		from := store.MigrationVersion()
		if !store.RunMigrations(ctxOf(cmd)) {
			return fmt.Errorf("migration stopped at version %d", store.MigrationVersion())
		}
		if err := store.Flush(); err != nil {
			return fmt.Errorf("flush: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Migrated storage from version %d to %d\n", from, store.MigrationVersion())
		return nil
	},
}

// --- reset ---

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete every persisted watchlist and history entry",
	RunE: func(cmd *cobra.Command, args []string) error {
		confirm, _ := cmd.Flags().GetBool("confirm")
		if !confirm {
			fmt.Fprintln(cmd.OutOrStdout(), "This will delete ALL stored data. Use --confirm to proceed.")
			return nil
		}

		store, cleanup, err := di.InitStore(&flags)
		if err != nil {
			return fmt.Errorf("init: %w", err)
		}
		defer cleanup()

		if !store.ResetAll() {
			return fmt.Errorf("some keys could not be removed, see the storage log")
		}
		if err := store.Flush(); err != nil {
			return fmt.Errorf("flush: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Storage cleared")
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("confirm", false, "actually delete the data")
}

func ctxOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
