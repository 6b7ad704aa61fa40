// Package main implements the annum CLI tool.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "annum",
	Short:         "Annum - year progress and task timing",
	SilenceUsage:  true,
	SilenceErrors: false,
}
