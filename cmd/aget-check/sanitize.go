package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/aget-framework/aget-sub002/internal/sanitize"
	"github.com/aget-framework/aget-sub002/internal/validate"
)

func newSanitizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sanitize",
		Short: "Detect and strip sensitive content before publication",
	}

	cmd.AddCommand(newSanitizeScanCmd())
	cmd.AddCommand(newSanitizeApplyCmd())

	return cmd
}

func newSanitizeScanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scan [root]",
		Short: "Scan workspace documents for PII and secret-shaped strings",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			ws := validate.NewWorkspace(root, cfg.Scan.ExcludePatterns)
			files, err := ws.MarkdownFiles()
			if err != nil {
				return err
			}

			total := 0
			all := make(map[string][]sanitize.Detection)

			for _, rel := range files {
				doc, err := ws.Load(rel)
				if err != nil {
					continue
				}
				detections := sanitize.Detect(doc.Content)
				if len(detections) == 0 {
					continue
				}
				all[rel] = detections
				total += len(detections)
			}

			if flagJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				if err := enc.Encode(all); err != nil {
					return err
				}
			} else {
				for rel, detections := range all {
					for _, d := range detections {
						fmt.Printf("%s:%d  %-14s %s\n", rel, d.Line, d.Detector, d.Excerpt)
					}
				}
			}

			if total > 0 {
				return fmt.Errorf("%d sensitive string(s) detected", total)
			}
			return nil
		},
	}
}

type rulesFile struct {
	Rules []sanitize.Rule `yaml:"rules"`
}

func newSanitizeApplyCmd() *cobra.Command {
	var rulesPath string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "apply [root]",
		Short: "Apply literal find-and-replace rules to workspace documents",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}

			data, err := os.ReadFile(rulesPath)
			if err != nil {
				return fmt.Errorf("read rules: %w", err)
			}

			var rf rulesFile
			if err := yaml.Unmarshal(data, &rf); err != nil {
				return fmt.Errorf("parse rules: %w", err)
			}

			s, err := sanitize.New(rf.Rules)
			if err != nil {
				return err
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			ws := validate.NewWorkspace(root, cfg.Scan.ExcludePatterns)
			files, err := ws.MarkdownFiles()
			if err != nil {
				return err
			}

			changed := 0
			for _, rel := range files {
				doc, err := ws.Load(rel)
				if err != nil {
					continue
				}

				result := s.Apply(doc.Content)
				if !result.Changed {
					continue
				}
				changed++

				for _, hit := range result.Hits {
					fmt.Printf("%s: %q x%d\n", rel, hit.Rule.Find, hit.Count)
				}

				if !dryRun {
					if err := os.WriteFile(ws.Abs(rel), []byte(result.Output), 0644); err != nil {
						return fmt.Errorf("write %s: %w", rel, err)
					}
				}
			}

			if dryRun {
				fmt.Printf("%d file(s) would change\n", changed)
			} else {
				fmt.Printf("%d file(s) changed\n", changed)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&rulesPath, "rules", "", "YAML file with find/replace rules (required)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report changes without writing")
	cmd.MarkFlagRequired("rules")

	return cmd
}
