// Package report renders run progress for the operator. The console
// reporter writes styled one-liners; structured detail stays in the
// logs, so this layer never carries information of its own.
package report

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Common color palette for consistent styling
var (
	ColorSuccess = lipgloss.Color("#00ff00")
	ColorWarning = lipgloss.Color("#ffaa00")
	ColorError   = lipgloss.Color("#ff0000")
	ColorInfo    = lipgloss.Color("#0099ff")
)

// Console writes styled progress lines to a terminal. It implements
// engine.Reporter.
type Console struct {
	out     io.Writer
	info    lipgloss.Style
	success lipgloss.Style
	warning lipgloss.Style
	failure lipgloss.Style
}

// NewConsole creates a console reporter writing to out.
func NewConsole(out io.Writer) *Console {
	return &Console{
		out:     out,
		info:    lipgloss.NewStyle().Foreground(ColorInfo),
		success: lipgloss.NewStyle().Foreground(ColorSuccess),
		warning: lipgloss.NewStyle().Foreground(ColorWarning),
		failure: lipgloss.NewStyle().Foreground(ColorError).Bold(true),
	}
}

// Info reports a neutral progress message.
func (c *Console) Info(msg string) {
	fmt.Fprintln(c.out, c.info.Render("• "+msg))
}

// Successf reports a successful outcome.
func (c *Console) Successf(format string, args ...interface{}) {
	fmt.Fprintln(c.out, c.success.Render("✓ "+fmt.Sprintf(format, args...)))
}

// Warnf reports a non-fatal condition.
func (c *Console) Warnf(format string, args ...interface{}) {
	fmt.Fprintln(c.out, c.warning.Render("! "+fmt.Sprintf(format, args...)))
}

// Errorf reports a fatal condition.
func (c *Console) Errorf(format string, args ...interface{}) {
	fmt.Fprintln(c.out, c.failure.Render("✗ "+fmt.Sprintf(format, args...)))
}

// Silent discards all progress output. It serves machine-readable
// modes where the run record is the only output.
type Silent struct{}

// NewSilent creates a reporter that reports nothing.
func NewSilent() *Silent {
	return &Silent{}
}

func (s *Silent) Info(msg string) {}

func (s *Silent) Successf(format string, args ...interface{}) {}

func (s *Silent) Warnf(format string, args ...interface{}) {}

func (s *Silent) Errorf(format string, args ...interface{}) {}
