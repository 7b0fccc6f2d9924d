package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("78"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// Printer writes styled console output. The markdown renderer is lazy
// so plain output never pays for terminal detection.
type Printer struct {
	out      io.Writer
	renderer *glamour.TermRenderer
}

// NewPrinter creates a Printer writing to out.
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// Rule prints a styled section rule with a title.
func (p *Printer) Rule(title string) {
	line := strings.Repeat("─", 8)
	fmt.Fprintf(p.out, "%s %s %s\n", dimStyle.Render(line), titleStyle.Render(title), dimStyle.Render(line))
}

// Markdown renders markdown for the terminal and prints it. Falls back
// to the raw text if rendering fails.
func (p *Printer) Markdown(md string) {
	if p.renderer == nil {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(100),
		)
		if err != nil {
			fmt.Fprintln(p.out, md)
			return
		}
		p.renderer = r
	}
	out, err := p.renderer.Render(md)
	if err != nil {
		fmt.Fprintln(p.out, md)
		return
	}
	fmt.Fprint(p.out, out)
}

// Successf prints a success line.
func (p *Printer) Successf(format string, args ...any) {
	fmt.Fprintln(p.out, successStyle.Render(fmt.Sprintf(format, args...)))
}

// Warnf prints a warning line.
func (p *Printer) Warnf(format string, args ...any) {
	fmt.Fprintln(p.out, warnStyle.Render(fmt.Sprintf(format, args...)))
}

// Errorf prints an error line.
func (p *Printer) Errorf(format string, args ...any) {
	fmt.Fprintln(p.out, errorStyle.Render(fmt.Sprintf(format, args...)))
}

// Dimf prints a de-emphasized line.
func (p *Printer) Dimf(format string, args ...any) {
	fmt.Fprintln(p.out, dimStyle.Render(fmt.Sprintf(format, args...)))
}
