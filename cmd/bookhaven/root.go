package main

import "github.com/spf13/cobra"

var rootCmd = &cobra.Command{
	Use:           "bookhaven",
	Short:         "Bookhaven is a bookstore catalog and review service.",
	SilenceErrors: true,
	SilenceUsage:  true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd)
}
