package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

const defaultCatalog = `version: 1
types:
  container:
    - { id: 1, name: Crate }
    - { id: 2, name: Bin }
    - { id: 3, name: Toolbox }
  place:
    - { id: 1, name: Shelf }
    - { id: 2, name: Drawer }
    - { id: 3, name: Hook }
  item:
    - { id: 1, name: Tool }
    - { id: 2, name: Consumable }
    - { id: 3, name: Document }
`

func initCmd() *cobra.Command {
	var projectName string
	var dsn string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Scaffold a new stowage project and create its tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(projectName) == "" {
				return fmt.Errorf("--name is required")
			}
			return runInit(cmd, projectName, dsn)
		},
	}
	cmd.Flags().StringVar(&projectName, "name", "", "Project name")
	cmd.Flags().StringVar(&dsn, "dsn", "sqlite://./stowage.db", "Database DSN (sqlite:// or postgres://)")
	return cmd
}

func runInit(cmd *cobra.Command, projectName, dsn string) error {
	ctx := context.Background()

	catalogPath := filepath.Join(filepath.Dir(configPath), "catalog.yaml")
	for _, path := range []string{configPath, catalogPath} {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists", path)
		}
	}

	configContents := fmt.Sprintf("project: %s\nversion: 1\n\ndatabase:\n  dsn: %s\n\nlog:\n  mode: dev\n\nresolver:\n  max_depth: 6\n\nmetrics:\n  addr: \"\"\n\ncatalog: catalog.yaml\n", projectName, dsn)
	if err := os.WriteFile(configPath, []byte(configContents), 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", configPath, err)
	}
	if err := os.WriteFile(catalogPath, []byte(defaultCatalog), 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", catalogPath, err)
	}

	a, err := loadApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close(ctx)

	fmt.Fprintf(cmd.OutOrStdout(), "Initialised %s (%s).\n", projectName, configPath)
	return nil
}
