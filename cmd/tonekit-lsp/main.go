package main

import (
	"os"

	"github.com/jsvensson/tonekit/internal/lsp"
	"github.com/spf13/cobra"
)

var (
	flagVerbose int
	flagStdio   bool
	version     = "dev"
)

var rootCmd = &cobra.Command{
	Use:     "tonekit-lsp",
	Short:   "Language server for tonekit token files",
	Version: version,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return lsp.NewServer(version, flagVerbose).Run()
	},
}

func main() {
	rootCmd.Flags().CountVarP(&flagVerbose, "verbose", "v", "increase log verbosity (can be repeated)")
	// Editors pass --stdio; stdio is the only transport.
	rootCmd.Flags().BoolVar(&flagStdio, "stdio", true, "communicate over stdin/stdout")
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
