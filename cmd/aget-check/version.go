package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aget-framework/aget-sub002/internal/manifest"
	"github.com/aget-framework/aget-sub002/internal/semver"
	"github.com/aget-framework/aget-sub002/pkg/version"
)

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Inspect and migrate the workspace version manifest",
	}

	cmd.AddCommand(newVersionGetCmd())
	cmd.AddCommand(newVersionValidateCmd())
	cmd.AddCommand(newVersionMigrateCmd())

	return cmd
}

func newVersionGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get [root]",
		Short: "Print the workspace version and migration history",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}

			m, err := manifest.Load(root)
			if err != nil {
				return err
			}

			if flagJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(m)
			}

			fmt.Printf("aget_version: %s\n", m.AgetVersion)
			for _, entry := range m.MigrationHistory {
				fmt.Printf("  %s\n", entry)
			}
			return nil
		},
	}
}

func newVersionValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [root]",
		Short: "Check the workspace version against this tool's version",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}

			toolVersion, err := semver.Parse(version.Version)
			if err != nil {
				return err
			}

			m, err := manifest.Load(root)
			if err != nil {
				return err
			}

			v, err := m.Version()
			if err != nil {
				return fmt.Errorf("manifest version: %w", err)
			}

			if !semver.Compatible(v, toolVersion) {
				return fmt.Errorf("workspace %s is not supported by tool %s", v, toolVersion)
			}

			fmt.Printf("workspace %s is compatible with tool %s\n", v, toolVersion)
			return nil
		},
	}
}

func newVersionMigrateCmd() *cobra.Command {
	var note string
	var initialize bool

	cmd := &cobra.Command{
		Use:   "migrate [root] --to <version>",
		Short: "Record a version migration, or initialize a manifest",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}

			to, err := semver.Parse(cmd.Flag("to").Value.String())
			if err != nil {
				return fmt.Errorf("target version: %w", err)
			}

			m, err := manifest.Load(root)
			if errors.Is(err, manifest.ErrNotFound) {
				if !initialize {
					return fmt.Errorf("no manifest in %s (use --init to create one)", root)
				}
				if _, err := manifest.Init(root, to); err != nil {
					return err
				}
				fmt.Printf("initialized %s at %s\n", manifest.Path(root), to)
				return nil
			}
			if err != nil {
				return err
			}

			from := m.AgetVersion
			if err := m.RecordMigration(to, note); err != nil {
				return err
			}
			if err := m.Save(root); err != nil {
				return err
			}

			fmt.Printf("migrated %s -> %s\n", from, m.AgetVersion)
			return nil
		},
	}

	cmd.Flags().String("to", "", "target version (required)")
	cmd.Flags().StringVar(&note, "note", "", "note appended to the history entry")
	cmd.Flags().BoolVar(&initialize, "init", false, "create the manifest when missing")
	cmd.MarkFlagRequired("to")

	return cmd
}
