// Package main is the entry point for the collateral CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// version is set at build time via ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "collateral",
	Short: "Generate marketing collateral from a product record",
	Long: `collateral turns one structured product record into analysis, marketing
copy, a categorized FAQ, a competitor comparison and three page documents.

Use "run" for in-process runs, "worker" to serve each stage as a Zeebe job
worker, and "evaluate" to check generated copy against its source record.`,
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the build version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version)
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default: configs/config.yaml)")
	rootCmd.AddCommand(versionCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
