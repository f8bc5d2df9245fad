package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"stowage/internal/inventory"
	"stowage/internal/store"
)

func historyCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history <ref>",
		Short: "List the moves of an entity and into it, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd, args[0], limit)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", store.DefaultHistoryLimit, "Maximum number of transitions")
	return cmd
}

func runHistory(cmd *cobra.Command, value string, limit int) error {
	ctx := context.Background()

	ref, err := inventory.ParseRef(value)
	if err != nil {
		return err
	}

	a, err := loadApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close(ctx)

	history, err := a.db.History(ctx, ref, limit)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(history) == 0 {
		fmt.Fprintf(out, "No transitions for %s.\n", ref)
		return nil
	}
	for _, t := range history {
		fmt.Fprintf(out, "%s  #%d  %s -> %s\n", t.CreatedAt.Format("2006-01-02 15:04:05"), t.ID, t.Mover, t.Destination)
	}
	return nil
}
