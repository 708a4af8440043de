package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/jsvensson/tonekit/internal/contrast"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// errSilentFailure exits non-zero without printing an error; the command
// has already reported what went wrong.
var errSilentFailure = errors.New("command failed")

type printer struct {
	w     io.Writer
	color bool
}

func newPrinter(cmd *cobra.Command) *printer {
	w := cmd.OutOrStdout()
	return &printer{
		w:     w,
		color: !flagNoColor && isTerminal(w),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// swatch renders hex on its own color, with the best text color on top.
func (p *printer) swatch(hex string) string {
	if !p.color || len(hex) != 7 {
		return hex
	}
	text, err := contrast.BestTextColorHex(hex)
	if err != nil {
		return hex
	}
	return lipgloss.NewStyle().
		Background(lipgloss.Color(hex)).
		Foreground(lipgloss.Color(text)).
		Padding(0, 1).
		Render(hex)
}

func (p *printer) printf(format string, args ...any) {
	fmt.Fprintf(p.w, format, args...)
}

func (p *printer) yaml(v any) error {
	enc := yaml.NewEncoder(p.w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding yaml: %w", err)
	}
	return enc.Close()
}

// status renders a pass/fail marker.
func (p *printer) status(ok bool) string {
	mark, fg := "✓", lipgloss.Color("2")
	if !ok {
		mark, fg = "✗", lipgloss.Color("1")
	}
	if !p.color {
		return mark
	}
	return lipgloss.NewStyle().Foreground(fg).Bold(true).Render(mark)
}
