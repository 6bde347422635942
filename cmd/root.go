package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// configDefault is the embedded config written on first run
var configDefault string

var rootCmd = &cobra.Command{
	Use:           "start-page-service",
	Short:         "Start Page Service with a self-update orchestrator",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func Execute(c string) {
	configDefault = c
	if err := rootCmd.Execute(); err != nil {
		bootstrapLogger.Error("command failed", zap.Error(err))
		os.Exit(1)
	}
}
