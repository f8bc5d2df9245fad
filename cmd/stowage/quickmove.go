package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"stowage/internal/inventory"
)

func quickMoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "quickmove <scan> <scan>",
		Short: "Move the smaller of two scanned entities into the larger",
		Args:  cobra.ExactArgs(2),
		RunE:  runQuickMove,
	}
}

func runQuickMove(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	first, err := inventory.ParseRef(args[0])
	if err != nil {
		return err
	}
	second, err := inventory.ParseRef(args[1])
	if err != nil {
		return err
	}

	a, err := loadApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close(ctx)

	decision, t, err := a.engine.QuickMove(ctx, a.db, first, second, time.Time{})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Moved %s into %s (transition %d).\n", decision.Mover, decision.Destination, t.ID)
	return nil
}
