package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aget-framework/aget-sub002/internal/docs"
	"github.com/aget-framework/aget-sub002/internal/vocab"
)

func newVocabCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vocab",
		Short: "Query the controlled vocabulary and check term casing",
	}

	cmd.AddCommand(newVocabLookupCmd())
	cmd.AddCommand(newVocabCheckCmd())

	return cmd
}

func loadVocabulary() (*vocab.Registry, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if cfg.Validate.VocabularyFile == "" {
		return nil, fmt.Errorf("no vocabulary file configured")
	}
	return vocab.Load(cfg.Validate.VocabularyFile)
}

func newVocabLookupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lookup [term]",
		Short: "Look up a term's definition, or list all terms",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := loadVocabulary()
			if err != nil {
				return err
			}

			if len(args) == 0 {
				for _, name := range registry.Names() {
					fmt.Println(name)
				}
				return nil
			}

			term, ok := registry.Resolve(args[0])
			if !ok {
				return fmt.Errorf("unknown term %q", args[0])
			}

			if flagJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(term)
			}

			fmt.Printf("%s: %s\n", term.Name, term.Definition)
			printLinks := func(label string, names []string) {
				if len(names) > 0 {
					fmt.Printf("  %s: %v\n", label, names)
				}
			}
			printLinks("broader", term.Broader)
			printLinks("narrower", term.Narrower)
			printLinks("related", term.Related)
			return nil
		},
	}
}

func newVocabCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <file>...",
		Short: "Check documents for miscased vocabulary terms",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := loadVocabulary()
			if err != nil {
				return err
			}

			total := 0
			for _, path := range args {
				content, _, err := docs.ReadFileAsUTF8(path)
				if err != nil {
					return fmt.Errorf("read %s: %w", path, err)
				}

				for _, hit := range registry.Scan(content) {
					fmt.Printf("%s:%d  %s should be %s\n", path, hit.Line, hit.Token, hit.Canonical)
					total++
				}
			}

			if total > 0 {
				return fmt.Errorf("%d miscased term(s)", total)
			}
			return nil
		},
	}
}
