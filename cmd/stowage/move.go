package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func moveCmd() *cobra.Command {
	var at string
	cmd := &cobra.Command{
		Use:   "move <mover> <destination>",
		Short: "Record a move, e.g. move item/5 container/10",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMove(cmd, args[0], args[1], at)
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "When the move happened (defaults to now)")
	return cmd
}

func runMove(cmd *cobra.Command, moverValue, destValue, atValue string) error {
	ctx := context.Background()

	mover, err := parseMover(moverValue)
	if err != nil {
		return err
	}
	dest, err := parseDest(destValue)
	if err != nil {
		return err
	}
	at, err := parseTimeFlag("at", atValue)
	if err != nil {
		return err
	}

	a, err := loadApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close(ctx)

	t, err := a.engine.Move(ctx, a.db, mover, dest, at)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Moved %s into %s (transition %d).\n", t.Mover, t.Destination, t.ID)
	return nil
}
