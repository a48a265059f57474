package ui

import (
	"fmt"
	"io"
	"os"
)

var (
	reset = "\033[0m"
	bold  = "\033[1m"

	fgGray   = "\033[90m"
	fgGreen  = "\033[32m"
	fgYellow = "\033[33m"
	fgBlue   = "\033[34m"
	fgRed    = "\033[31m"

	symCheck = "✔"
	symCross = "✖"
)

// Printer writes the command-line output: status lines, panels, hints.
type Printer struct {
	Out   io.Writer
	Err   io.Writer
	Theme Theme
	color bool
}

// NewPrinter colors output only when out is a terminal and the theme has
// a palette.
func NewPrinter(out, errOut io.Writer, theme Theme) *Printer {
	return &Printer{Out: out, Err: errOut, Theme: theme, color: theme.Colored && isTTY(out)}
}

// ForceColor overrides terminal detection.
func (p *Printer) ForceColor(on bool) { p.color = on && p.Theme.Colored }

func isTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}

func (p *Printer) C(color, s string) string {
	if !p.color || color == "" {
		return s
	}
	return color + s + reset
}

func (p *Printer) OK(msg string)   { fmt.Fprintln(p.Out, p.C(p.Theme.Success, symCheck+" "+msg)) }
func (p *Printer) Fail(msg string) { fmt.Fprintln(p.Err, p.C(p.Theme.Error, symCross+" "+msg)) }

// Hint prints a muted line to the error stream.
func (p *Printer) Hint(msg string) { fmt.Fprintln(p.Err, p.C(p.Theme.Muted, msg)) }

func (p *Printer) Println(a ...any) { fmt.Fprintln(p.Out, a...) }
