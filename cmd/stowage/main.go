package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "stowage",
		Short:        "Track where things are stored from an append-only move log",
		SilenceUsage: true,
	}
	root.Version = version
	root.SetVersionTemplate("{{.Version}}\n")
	root.PersistentFlags().StringVar(&configPath, "config", "stowage.yaml", "Project config file")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")
	root.AddCommand(initCmd())
	root.AddCommand(importCmd())
	root.AddCommand(addCmd())
	root.AddCommand(removeCmd())
	root.AddCommand(whereCmd())
	root.AddCommand(contentsCmd())
	root.AddCommand(moveCmd())
	root.AddCommand(quickMoveCmd())
	root.AddCommand(historyCmd())
	root.AddCommand(listCmd())
	root.AddCommand(searchCmd())
	root.AddCommand(validateCmd())
	root.AddCommand(sqlCmd())
	root.AddCommand(serveCmd())
	root.AddCommand(versionCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
