package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aget-framework/aget-sub002/internal/semver"
	"github.com/aget-framework/aget-sub002/internal/validate"
	"github.com/aget-framework/aget-sub002/pkg/version"
)

func newRunCmd() *cobra.Command {
	var validatorNames []string

	cmd := &cobra.Command{
		Use:     "run [root]",
		Aliases: []string{"check"},
		Short:   "Run compliance validators against a workspace",
		Long: `Runs the memory, composition, content, versioning and vocabulary
validators against the workspace and prints the findings. Exits non-zero
when any error-severity finding is present.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			toolVersion, err := semver.Parse(version.Version)
			if err != nil {
				return err
			}

			validators, err := validate.DefaultValidators(cfg.Validate, toolVersion)
			if err != nil {
				return err
			}
			validators = validate.Select(validators, validatorNames)

			ws := validate.NewWorkspace(root, cfg.Scan.ExcludePatterns)
			report := validate.NewRunner(validators...).Run(context.Background(), ws)

			if flagJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				if err := enc.Encode(report); err != nil {
					return err
				}
			} else {
				printReport(report)
			}

			if !report.Valid() {
				return fmt.Errorf("%d error(s) found", report.Counts.Errors)
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&validatorNames, "validators", nil, "validators to run (default: all)")

	return cmd
}

func printReport(report *validate.Report) {
	for _, f := range report.Findings {
		location := f.Path
		if f.Line > 0 {
			location = fmt.Sprintf("%s:%d", f.Path, f.Line)
		}
		if location == "" {
			location = "-"
		}
		fmt.Printf("%-7s %-32s %-28s %s\n", f.Severity, f.Rule, location, f.Message)
	}

	fmt.Printf("\n%s\n", report.Summary())
}
