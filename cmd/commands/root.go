package commands

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	appConfig  Config
	logger     *zap.Logger
	configPath string
	verbose    bool
)

func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "sumeval",
		Short: "Summary evaluation CLI",
		Long:  "sumeval scores machine-generated summaries with reference-based, source-based, and LLM-judge metrics.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(configPath)
			if err != nil {
				return err
			}
			appConfig = cfg

			if verbose {
				logger, _ = zap.NewDevelopment()
			} else {
				logger, _ = zap.NewProduction()
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "config file path")
	root.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable verbose logging")

	root.AddCommand(newListMetricsCommand())
	root.AddCommand(newRecommendCommand())
	root.AddCommand(newRunCommand())
	root.AddCommand(newBatchCommand())
	root.AddCommand(newServeCommand())

	return root
}

func resolveString(value string, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}

func resolveInt(value int, fallback int, defaultValue int) int {
	if value > 0 {
		return value
	}
	if fallback > 0 {
		return fallback
	}
	return defaultValue
}
