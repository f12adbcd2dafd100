package main

import (
	"github.com/spf13/cobra"

	"github.com/halverson/comfyscan/config"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var verboseFlag bool

	rootCmd := &cobra.Command{
		Use:           "comfyscan",
		Short:         "Recover AI-image-generation metadata from image and video files",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			setupLogging(verboseFlag)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable debug logging")

	loadConfig := func() (config.Config, error) {
		return config.Load(configFlag)
	}

	rootCmd.AddCommand(newScanCommand(loadConfig))
	rootCmd.AddCommand(newConvertCommand(loadConfig))

	return rootCmd
}
