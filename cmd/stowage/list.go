package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"stowage/internal/store"
)

func listCmd() *cobra.Command {
	var kind string
	var deleted bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List entities in the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, kind, deleted)
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "", "Entity kind to filter")
	cmd.Flags().BoolVar(&deleted, "deleted", false, "Include removed entities")
	return cmd
}

func runList(cmd *cobra.Command, kindValue string, deleted bool) error {
	ctx := context.Background()

	kind, err := parseOptionalKind(kindValue)
	if err != nil {
		return err
	}

	a, err := loadApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close(ctx)

	entities, err := a.db.ListEntities(ctx, store.ListFilter{Kind: kind, IncludeDeleted: deleted})
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(entities) == 0 {
		fmt.Fprintln(out, "No entities found.")
		return nil
	}

	for _, e := range entities {
		line := fmt.Sprintf("%s %s", e.Ref(), e.Name)
		if name, ok := a.catalog.TypeName(e.Kind, e.TypeID); ok {
			line += fmt.Sprintf(" [%s]", name)
		}
		if e.Deleted() {
			line += " (removed)"
		}
		fmt.Fprintln(out, line)
	}
	return nil
}
