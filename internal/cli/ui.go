package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Terminal colors (ANSI 256).
var (
	colorAccent = lipgloss.Color("36")
	colorOK     = lipgloss.Color("35")
	colorWarn   = lipgloss.Color("220")
	colorFail   = lipgloss.Color("167")
	colorLane   = lipgloss.Color("75")
	colorText   = lipgloss.Color("255")
	colorMuted  = lipgloss.Color("245")
	colorFaint  = lipgloss.Color("240")
)

var (
	StyleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	StyleDim     = lipgloss.NewStyle().Foreground(colorFaint)
	StyleValue   = lipgloss.NewStyle().Foreground(colorText)
	StyleWarning = lipgloss.NewStyle().Foreground(colorWarn)

	styleOK      = lipgloss.NewStyle().Foreground(colorOK)
	styleFail    = lipgloss.NewStyle().Foreground(colorFail)
	styleMuted   = lipgloss.NewStyle().Foreground(colorMuted)
	styleSpinner = lipgloss.NewStyle().Foreground(colorAccent)
	styleLane    = lipgloss.NewStyle().Foreground(colorLane)
	styleKey     = lipgloss.NewStyle().Foreground(colorMuted).Width(12)
)

// printer writes styled status lines. Commands get one from [CLI.out] so
// that output follows cmd.SetOut.
type printer struct{ w io.Writer }

func (p printer) line(s string) { fmt.Fprintln(p.w, s) }

func (p printer) status(icon lipgloss.Style, mark, msg string) {
	p.line(icon.Render(mark) + " " + msg)
}

func (p printer) success(format string, args ...any) {
	p.status(styleOK, "✓", fmt.Sprintf(format, args...))
}

func (p printer) failure(format string, args ...any) {
	p.status(styleFail, "✗", fmt.Sprintf(format, args...))
}

func (p printer) warning(format string, args ...any) {
	p.status(StyleWarning, "!", StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func (p printer) info(format string, args ...any) {
	p.status(styleMuted, "›", fmt.Sprintf(format, args...))
}

func (p printer) detail(format string, args ...any) {
	p.line("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

func (p printer) file(path string) {
	p.line("  " + StyleDim.Render("→") + " " + StyleValue.Render(path))
}

func (p printer) keyValue(key, value string) {
	p.line(styleKey.Render(key) + " " + StyleValue.Render(value))
}

func (p printer) stats(nodes, edges, synthetic int, cached bool) {
	p.line(statsLine(nodes, edges, synthetic, cached))
}

// nextStep suggests the command to run after this one.
func (p printer) nextStep(description, cmd string) {
	p.line("")
	p.line(StyleDim.Render(description+":") + " " + styleLane.Render(cmd))
}

// statsLine renders "  3 nodes · 4 edges · 1 waypoints · fresh", leaving
// out zero counts.
func statsLine(nodes, edges, synthetic int, cached bool) string {
	var parts []string
	for _, c := range []struct {
		n    int
		noun string
	}{{nodes, "nodes"}, {edges, "edges"}, {synthetic, "waypoints"}} {
		if c.n > 0 {
			parts = append(parts, StyleDim.Render(fmt.Sprintf("%d %s", c.n, c.noun)))
		}
	}
	if cached {
		parts = append(parts, styleOK.Render("cached"))
	} else {
		parts = append(parts, styleMuted.Render("fresh"))
	}
	return "  " + strings.Join(parts, StyleDim.Render(" · "))
}
