package main

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "spamtrial",
	Short: "Exercise the spamguard classifiers against generated traffic",
	Long: `spamtrial marks a batch of random addresses as spam in each classifier,
verifies that every one of them is still reported, then probes the classifier
with a large set of addresses that were never added and reports how many
were wrongly flagged.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
