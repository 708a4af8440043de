package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/jsvensson/tonekit"
	"github.com/jsvensson/tonekit/internal/format"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
)

var (
	flagTokens    string
	flagOut       string
	flagTemplates string
	flagApp       []string
	flagBuiltins  bool
	flagCheck     bool
	flagVerbose   int
	flagNoColor   bool
	flagYAML      bool
	version       = "dev" // Injected at build time via ldflags
)

var log = commonlog.GetLogger("tonekit.cli")

var rootCmd = &cobra.Command{
	Use:           "tonekit",
	Short:         "Generate perceptual color ramps, harmonies and contrast reports",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		commonlog.Configure(flagVerbose, nil)
	},
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Render token files from templates",
	RunE:  runGenerate,
}

var fmtCmd = &cobra.Command{
	Use:   "fmt [files...]",
	Short: "Format token files",
	Long:  "Format one or more token files in-place. Prints the name of each file that was modified.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runFmt,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version)
	},
}

func init() {
	rootCmd.PersistentFlags().CountVarP(&flagVerbose, "verbose", "v", "increase log verbosity (can be repeated)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable terminal color swatches")
	rootCmd.PersistentFlags().BoolVar(&flagYAML, "yaml", false, "print results as YAML")

	generateCmd.Flags().StringVar(&flagTokens, "tokens", "tokens.hcl", "path to token HCL file")
	generateCmd.Flags().StringVar(&flagOut, "out", "output", "output directory")
	generateCmd.Flags().StringVar(&flagTemplates, "templates", "templates", "templates directory")
	generateCmd.Flags().StringArrayVar(&flagApp, "app", nil, "generate only for specific templates (can be repeated)")
	generateCmd.Flags().BoolVar(&flagBuiltins, "builtins", true, "also render the built-in tokens.css and tokens.yaml")
	fmtCmd.Flags().BoolVarP(&flagCheck, "check", "c", false, "check if files are formatted (do not write changes)")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(fmtCmd)
	rootCmd.AddCommand(versionCmd)
	addColorCommands(rootCmd)
	rootCmd.AddCommand(auditCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	tokens, err := tonekit.Load(flagTokens)
	if err != nil {
		return err
	}

	e := &tonekit.Engine{
		TemplatesDir: flagTemplates,
		OutputDir:    flagOut,
		Apps:         flagApp,
		Builtins:     flagBuiltins,
	}

	if err := e.Run(tokens); err != nil {
		return fmt.Errorf("generating: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Generated token files in %s\n", flagOut)
	return nil
}

func runFmt(cmd *cobra.Command, args []string) error {
	hasErrors := false
	needsFormatting := false

	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error reading %s: %v\n", path, err)
			hasErrors = true
			continue
		}

		content := string(data)
		formatted, err := format.Format(content)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error formatting %s: %v\n", path, err)
			hasErrors = true
			continue
		}

		if formatted == content {
			log.Debugf("%s already formatted", path)
			continue
		}

		fmt.Fprintln(cmd.OutOrStdout(), path)
		needsFormatting = true

		if !flagCheck {
			if err := os.WriteFile(path, []byte(formatted), 0o644); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error writing %s: %v\n", path, err)
				hasErrors = true
			}
		}
	}

	if hasErrors {
		return errSilentFailure
	}
	if flagCheck && needsFormatting {
		return errSilentFailure
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errSilentFailure) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
