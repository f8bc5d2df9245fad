package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"stowage/internal/inventory"
)

func whereCmd() *cobra.Command {
	var asOf string
	cmd := &cobra.Command{
		Use:   "where <ref>",
		Short: "Show where an item, container or place is",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWhere(cmd, args[0], asOf)
		},
	}
	cmd.Flags().StringVar(&asOf, "as-of", "", "Resolve at an earlier time (RFC 3339 or YYYY-MM-DD)")
	return cmd
}

func runWhere(cmd *cobra.Command, value, asOf string) error {
	ctx := context.Background()

	ref, err := inventory.ParseRef(value)
	if err != nil {
		return err
	}
	at, err := parseTimeFlag("as-of", asOf)
	if err != nil {
		return err
	}

	a, err := loadApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close(ctx)

	chain, err := a.engine.AsOf(at).Resolve(ctx, ref)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(chain) == 0 {
		if ref.Kind == inventory.KindRoom {
			fmt.Fprintf(out, "%s is a room.\n", ref)
		} else {
			fmt.Fprintf(out, "%s has never been placed.\n", ref)
		}
		return nil
	}
	fmt.Fprintln(out, chain.String())
	if _, ok := chain.Room(); !ok {
		fmt.Fprintln(out, "(chain does not reach a room)")
	}
	for _, step := range chain {
		switch {
		case step.Fixed:
			fmt.Fprintf(out, "  %s (fixed)\n", step.Label())
		default:
			fmt.Fprintf(out, "  %s since %s\n", step.Label(), step.MovedAt.Format("2006-01-02 15:04"))
		}
	}
	return nil
}
