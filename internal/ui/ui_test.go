package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrinterPlainWhenNotATerminal(t *testing.T) {
	var out, errOut bytes.Buffer
	p := NewPrinter(&out, &errOut, ThemeByName("classic"))
	p.OK("added")
	p.Fail("boom")
	assert.Equal(t, "✔ added\n", out.String())
	assert.Equal(t, "✖ boom\n", errOut.String())
}

func TestForceColorRespectsMono(t *testing.T) {
	var out bytes.Buffer
	p := NewPrinter(&out, &out, ThemeByName("classic"))
	p.ForceColor(true)
	assert.Equal(t, fgGreen+"x"+reset, p.C(fgGreen, "x"))

	mono := NewPrinter(&out, &out, ThemeByName("mono"))
	mono.ForceColor(true)
	assert.Equal(t, "x", mono.C(fgGreen, "x"))
}

func TestPanelAlignsColoredLines(t *testing.T) {
	var out bytes.Buffer
	p := NewPrinter(&out, &out, ThemeByName("mono"))
	p.Panel([]string{"ab", "\033[32mabcd\033[0m"})
	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	assert.Equal(t, []string{
		"+------+",
		"| ab   |",
		"| \033[32mabcd\033[0m |",
		"+------+",
	}, lines)
}

func TestMarkers(t *testing.T) {
	th := ThemeByName("")
	assert.Equal(t, "classic", th.Name)
	assert.Equal(t, "[X]", th.Marker(true))
	assert.Equal(t, "[ ]", th.Marker(false))
}

func TestProgressBar(t *testing.T) {
	assert.Equal(t, "██░░░  40%", ProgressBar(2, 5, 5))
	assert.Equal(t, "░░░░░   0%", ProgressBar(0, 0, 1))
}
