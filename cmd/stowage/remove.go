package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"stowage/internal/inventory"
)

func removeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <ref>",
		Short: "Soft-delete an entity; its history is kept",
		Args:  cobra.ExactArgs(1),
		RunE:  runRemove,
	}
}

func runRemove(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	ref, err := inventory.ParseRef(args[0])
	if err != nil {
		return err
	}

	a, err := loadApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close(ctx)

	removed, err := a.db.SoftDeleteEntity(ctx, ref, time.Time{})
	if err != nil {
		return err
	}
	if !removed {
		return fmt.Errorf("%s does not exist or was already removed", ref)
	}
	a.log.Info("removed entity", "ref", ref.String())
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %s.\n", ref)
	return nil
}
