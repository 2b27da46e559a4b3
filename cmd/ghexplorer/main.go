package main

import (
	"fmt"
	"os"

	"ghexplorer/internal/structures"

	"github.com/spf13/cobra"
)

var version = "dev"

var flags structures.CliFlags

var rootCmd = &cobra.Command{
	Use:           "ghexplorer",
	Short:         "Browse GitHub users, repositories and activity over a local HTTP API",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flags.ConfigPath, "config", "c", "config/config.yaml", "path to the YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&flags.DebugMode, "debug", "d", false, "mirror logs to stdout")

	rootCmd.AddCommand(serveCmd, migrateCmd, resetCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
