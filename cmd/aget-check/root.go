package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/aget-framework/aget-sub002/internal/config"
	"github.com/aget-framework/aget-sub002/internal/logger"
	"github.com/aget-framework/aget-sub002/pkg/version"
)

var (
	flagJSON     bool
	flagLogLevel string
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "aget-check",
		Short:        "Compliance checks for agent configuration workspaces",
		Version:      version.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.Init(logger.Config{
				Level:  logger.ParseLevel(flagLogLevel),
				Format: "text",
				Output: os.Stderr,
			})
		},
	}

	root.PersistentFlags().BoolVar(&flagJSON, "json", false, "emit JSON instead of text")
	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	root.AddCommand(newRunCmd())
	root.AddCommand(newSanitizeCmd())
	root.AddCommand(newVersionCmd())
	root.AddCommand(newVocabCmd())

	return root
}

func loadConfig() (*config.Config, error) {
	return config.Load()
}
