package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// printer writes colored results to stdout. Color is off when requested,
// when NO_COLOR is set, or when stdout is not a terminal.
type printer struct {
	bold   *color.Color
	faint  *color.Color
	yellow *color.Color
	red    *color.Color
}

func newPrinter(noColor bool) *printer {
	if noColor || os.Getenv("NO_COLOR") != "" || !term.IsTerminal(int(os.Stdout.Fd())) {
		color.NoColor = true
	}
	return &printer{
		bold:   color.New(color.Bold),
		faint:  color.New(color.Faint),
		yellow: color.New(color.FgYellow),
		red:    color.New(color.FgRed, color.Bold),
	}
}

func (p *printer) header(s string) { p.bold.Fprintln(os.Stdout, s) }

func (p *printer) detail(s string) { p.faint.Fprintln(os.Stdout, s) }

func (p *printer) warning(where, msg string) {
	fmt.Fprintf(os.Stdout, "%s: %s\n", p.yellow.Sprint(where), msg)
}

func (p *printer) failure(where, msg string) {
	fmt.Fprintf(os.Stdout, "%s: %s\n", p.red.Sprint(where), msg)
}
