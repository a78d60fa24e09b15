// Package cli implements the paretoctl analysis front end. It reads a
// Pareto store directory produced by the library, recomputes its own
// ideal point and normalization for display, and never mutates entries
// or trusts their persisted distance prefixes.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Use:          "paretoctl",
	Short:        "Analyze and export Pareto front stores",
	SilenceUsage: true, // don't print usage on operational errors
	Long: `paretoctl inspects the Pareto front stores written by paretogo:
it ranks stored optimizer results against a freshly computed ideal point,
filters them by objective limits, and packages fronts for sharing.`,
}

// Execute is called by main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the paretoctl version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version)
		},
	})
}
