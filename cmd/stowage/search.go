package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func searchCmd() *cobra.Command {
	var kind string
	cmd := &cobra.Command{
		Use:   "search <text>",
		Short: "Search entities by name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, strings.Join(args, " "), kind)
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "", "Entity kind to filter")
	return cmd
}

func runSearch(cmd *cobra.Command, query, kindValue string) error {
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

	results, err := a.db.Search(ctx, query, kind)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(results) == 0 {
		fmt.Fprintln(out, "No results.")
		return nil
	}
	for _, r := range results {
		fmt.Fprintf(out, "%s %s (%.3f)\n", r.Ref, r.Name, r.Score)
	}
	return nil
}
