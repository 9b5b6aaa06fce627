// Package ui prints the daemon's human-facing status lines to stderr.
// Structured logs go through hclog; this is only the operator's view.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var (
	out      io.Writer = os.Stderr
	renderer           = lipgloss.NewRenderer(os.Stderr)

	brand   = renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	dim     = renderer.NewStyle().Faint(true)
	value   = renderer.NewStyle().Foreground(lipgloss.Color("15"))
	info    = renderer.NewStyle().Foreground(lipgloss.Color("6"))
	success = renderer.NewStyle().Foreground(lipgloss.Color("2"))
	warn    = renderer.NewStyle().Foreground(lipgloss.Color("3"))
	failure = renderer.NewStyle().Foreground(lipgloss.Color("1"))
	accent  = renderer.NewStyle().Foreground(lipgloss.Color("5"))
)

// SetOutput redirects all status output, e.g. to a buffer in tests.
// Styling is dropped for anything that is not a terminal.
func SetOutput(w io.Writer) {
	out = w
	if w != os.Stderr {
		renderer.SetColorProfile(termenv.Ascii)
	}
}

// Banner prints the startup banner.
//
//	hintd v0.1.0
func Banner(version string) {
	fmt.Fprintf(out, "\n  %s %s\n", brand.Render("hintd"), dim.Render("v"+version))
}

// KeyValue prints a labeled line:  ▸ label  value
func KeyValue(label, v string) {
	fmt.Fprintf(out, "  %s %-11s %s\n", info.Render("▸"), dim.Render(label), value.Render(v))
}

// Info prints an info line:  ● message
func Info(format string, a ...any) {
	fmt.Fprintf(out, "  %s %s\n", info.Render("●"), fmt.Sprintf(format, a...))
}

// Success prints a success line:  ✔ message
func Success(format string, a ...any) {
	fmt.Fprintf(out, "  %s %s\n", success.Render("✔"), fmt.Sprintf(format, a...))
}

// Warn prints a warning line:  ▲ message
func Warn(format string, a ...any) {
	fmt.Fprintf(out, "  %s %s\n", warn.Render("▲"), fmt.Sprintf(format, a...))
}

// Error prints an error line:  ✖ message
func Error(format string, a ...any) {
	fmt.Fprintf(out, "  %s %s\n", failure.Render("✖"), fmt.Sprintf(format, a...))
}

// Step prints one replayed hint with its offset and outcome, followed by
// the actions it caused, indented.
//
//	+0.400s interaction  handled
//	        acquire #5 for 1.5s [0x20c 0x1e01]
func Step(offset, hint string, handled bool, actions []string) {
	outcome := success.Render("handled")
	if !handled {
		outcome = warn.Render("not handled")
	}
	fmt.Fprintf(out, "  %s %-22s %s\n", dim.Render(offset), accent.Render(hint), outcome)
	for _, action := range actions {
		fmt.Fprintf(out, "          %s\n", action)
	}
}

// Separator prints a dim horizontal line.
func Separator() {
	fmt.Fprintf(out, "  %s\n", dim.Render(strings.Repeat("─", 48)))
}

// Dim wraps text in the dim style.
func Dim(text string) string {
	return dim.Render(text)
}
