package main

import (
	"fmt"

	"github.com/jsvensson/tonekit"
	"github.com/spf13/cobra"
)

var auditCmd = &cobra.Command{
	Use:   "audit [tokens]",
	Short: "Evaluate the contrast checks in a token file",
	Long: "Evaluate every check block in a token file against WCAG 2 and APCA. " +
		"Exits non-zero when any check fails.",
	Args: cobra.MaximumNArgs(1),
	RunE: runAudit,
}

func runAudit(cmd *cobra.Command, args []string) error {
	path := "tokens.hcl"
	if len(args) == 1 {
		path = args[0]
	}

	tokens, err := tonekit.Load(path)
	if err != nil {
		return err
	}
	report := tokens.Audit()

	p := newPrinter(cmd)
	if flagYAML {
		if err := p.yaml(report); err != nil {
			return err
		}
	} else {
		for _, f := range report.Findings {
			p.printf("%s %s: %s on %s\n", p.status(f.Passed()), f.Name, p.swatch(f.Text), p.swatch(f.Background))
			p.printf("    WCAG %.2f:1 %s (min %s)\n", f.Result.WCAG.Ratio, f.Result.WCAG.Rating, f.Min)
			p.printf("    APCA Lc %.1f %s (%s)\n", f.Result.APCA.Lc, f.Result.APCA.Rating, f.Use)
			if f.Suggestion != "" {
				p.printf("    try %s\n", p.swatch(f.Suggestion))
			}
		}
	}

	failed := report.Failed()
	log.Infof("%d checks, %d failed", len(report.Findings), failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d checks failed", failed, len(report.Findings))
	}
	return nil
}
