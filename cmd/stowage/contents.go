package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"stowage/internal/inventory"
	"stowage/internal/locate"
)

func contentsCmd() *cobra.Command {
	var asOf string
	var direct bool
	cmd := &cobra.Command{
		Use:   "contents <ref>",
		Short: "List everything inside a room, furniture, place or container",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runContents(cmd, args[0], asOf, direct)
		},
	}
	cmd.Flags().StringVar(&asOf, "as-of", "", "Collect at an earlier time (RFC 3339 or YYYY-MM-DD)")
	cmd.Flags().BoolVar(&direct, "direct", false, "Only direct members")
	return cmd
}

func runContents(cmd *cobra.Command, value, asOf string, direct bool) error {
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

	contents, err := a.engine.AsOf(at).ContentsOf(ctx, ref)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printed := 0
	held := locate.HeldKinds(ref.Kind)
	for i := len(held) - 1; i >= 0; i-- {
		kind := held[i]
		members := contents.All(kind)
		if direct {
			members = contents.Direct(kind)
		}
		if len(members) == 0 {
			continue
		}
		fmt.Fprintf(out, "%s (%d):\n", heading(kind), len(members))
		for _, m := range members {
			name := m.Name
			if name == "" {
				name = "(unnamed)"
			}
			indent := strings.Repeat("  ", m.Depth)
			if m.Depth > 1 {
				fmt.Fprintf(out, "%s%s %s in %s\n", indent, m.Ref, name, m.Holder)
			} else {
				fmt.Fprintf(out, "%s%s %s\n", indent, m.Ref, name)
			}
		}
		printed += len(members)
	}
	if printed == 0 {
		fmt.Fprintf(out, "%s is empty.\n", ref)
	}
	return nil
}

func heading(kind inventory.Kind) string {
	plural := kind.Plural()
	return strings.ToUpper(plural[:1]) + plural[1:]
}
