package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"stowage/internal/ingest"
	"stowage/internal/parser"
)

func importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <manifest.yaml>",
		Short: "Create entities and replay moves from a manifest",
		Args:  cobra.ExactArgs(1),
		RunE:  runImport,
	}
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	manifest, err := parser.ParseFile(args[0])
	if err != nil {
		return err
	}

	a, err := loadApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close(ctx)

	result, err := ingest.Run(ctx, manifest, a.catalog, a.db, ingest.Options{Engine: a.engine, Logger: a.log})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Import complete.")
	fmt.Fprintf(out, "  Entities upserted: %d\n", result.EntitiesUpserted)
	fmt.Fprintf(out, "  Moves recorded:    %d\n", result.MovesRecorded)
	fmt.Fprintf(out, "  Moves skipped:     %d\n", result.MovesSkipped)

	if len(result.Errors) > 0 {
		fmt.Fprintf(out, "\nErrors (%d):\n", len(result.Errors))
		for _, item := range result.Errors {
			fmt.Fprintf(out, "  - %v\n", item)
		}
		return fmt.Errorf("import completed with errors")
	}
	return nil
}
