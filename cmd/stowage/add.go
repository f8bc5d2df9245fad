package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"stowage/internal/inventory"
)

func addCmd() *cobra.Command {
	var typeID, roomID, id int64
	cmd := &cobra.Command{
		Use:   "add <kind> <name>",
		Short: "Create or rename an entity",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := inventory.ParseKind(args[0])
			if err != nil {
				return err
			}
			in := inventory.EntityInput{
				Kind:   kind,
				ID:     id,
				Name:   strings.Join(args[1:], " "),
				TypeID: typeID,
				RoomID: roomID,
			}
			return runAdd(cmd, in)
		},
	}
	cmd.Flags().Int64Var(&typeID, "type-id", 0, "Catalog type id")
	cmd.Flags().Int64Var(&roomID, "room", 0, "Room id (furniture only)")
	cmd.Flags().Int64Var(&id, "id", 0, "Explicit id; updates the entity if it exists")
	return cmd
}

func runAdd(cmd *cobra.Command, in inventory.EntityInput) error {
	ctx := context.Background()

	if in.Kind == inventory.KindFurniture && in.RoomID <= 0 {
		return fmt.Errorf("furniture needs --room")
	}
	if in.Kind != inventory.KindFurniture && in.RoomID != 0 {
		return fmt.Errorf("--room only applies to furniture")
	}

	a, err := loadApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close(ctx)

	if !a.catalog.IsKnown(in.Kind, in.TypeID) {
		return fmt.Errorf("unknown %s type id %d", in.Kind, in.TypeID)
	}

	entity, err := a.db.UpsertEntity(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", entity.Ref(), entity.Name)
	return nil
}
