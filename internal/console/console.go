// Package console prints the live tally, the stop notice and the closing
// summary of a run.
package console

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/bartekus/conform/internal/engine"
	"github.com/bartekus/conform/internal/outcome"
	"github.com/bartekus/conform/internal/selector"
)

// Console writes human-facing output. Tally lines go to Out, problems to Err.
type Console struct {
	Out io.Writer
	Err io.Writer

	// Quiet suppresses the PASSED lines.
	Quiet bool

	styled bool
	mu     sync.Mutex

	passed  *color.Color
	failed  *color.Color
	warning *color.Color
	muted   *color.Color
}

// New returns a console writing to out and errw. Colour and boxes are only
// used when out is a terminal.
func New(out, errw io.Writer) *Console {
	c := &Console{
		Out:     out,
		Err:     errw,
		styled:  isTerminal(out),
		passed:  color.New(color.FgGreen),
		failed:  color.New(color.FgRed),
		warning: color.New(color.FgYellow),
		muted:   color.New(color.Faint),
	}
	if !c.styled {
		c.Plain()
	}
	return c
}

// Plain turns off colour and box drawing.
func (c *Console) Plain() *Console {
	c.styled = false
	for _, col := range []*color.Color{c.passed, c.failed, c.warning, c.muted} {
		col.DisableColor()
	}
	return c
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// TestFinished prints one tally line per test.
func (c *Console) TestFinished(r outcome.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if r.Outcome.Passed() {
		if !c.Quiet {
			_, _ = c.passed.Fprintf(c.Out, "PASSED: %s\n", r.Rel)
		}
		return
	}
	line := fmt.Sprintf("FAILED: %s of %s", r.Outcome, r.Rel)
	if r.Signal != "" {
		line += " with signal " + r.Signal
	}
	_, _ = c.failed.Fprintln(c.Out, line)
	if r.Reason != "" {
		_, _ = c.muted.Fprintf(c.Out, "  %s\n", r.Reason)
	}
}

// Stopped explains a stop trigger and how to reproduce it.
func (c *Console) Stopped(err *engine.StopError) {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, _ = c.failed.Fprintln(c.Err, err.Message)
	fmt.Fprintf(c.Err, "Failed test: %s\n", err.Path)
	if err.FailedSource != "" {
		fmt.Fprintf(c.Err, "Saved source: %s\n", err.FailedSource)
	}
	if err.FailedArtifact != "" {
		fmt.Fprintf(c.Err, "Saved binary: %s\n", err.FailedArtifact)
	}
	if len(err.Repro) > 0 {
		fmt.Fprintln(c.Err, "Reproduce with:")
		for _, line := range err.Repro {
			fmt.Fprintf(c.Err, "  %s\n", line)
		}
	}
}

// Warn prints a non-fatal problem, such as a failed export.
func (c *Console) Warn(format string, args ...interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = c.warning.Fprintf(c.Err, format+"\n", args...)
}

// Selection prints how many tests were chosen and why the others were not.
func (c *Console) Selection(sel selector.Selection) {
	lines := []string{
		fmt.Sprintf("Corpus:   %s", sel.Root),
		fmt.Sprintf("Target:   %s", sel.Target),
		fmt.Sprintf("Scanned:  %d", sel.Scanned),
		fmt.Sprintf("Selected: %d", len(sel.Tests)),
	}
	for _, reason := range selector.Reasons() {
		if n := sel.Excluded[reason]; n > 0 {
			lines = append(lines, fmt.Sprintf("  excluded %-17s %d", string(reason)+":", n))
		}
	}
	c.box("Selection", lines, "")
}

// Summary prints the closing tally.
func (c *Console) Summary(s *outcome.Summary) {
	lines := []string{
		fmt.Sprintf("Total:  %d", s.Total),
		fmt.Sprintf("Passed: %d", s.Passed),
		fmt.Sprintf("Failed: %d", s.FailedTotal()),
	}
	for _, o := range outcome.Failures() {
		if n := s.Failed[o]; n > 0 {
			lines = append(lines, fmt.Sprintf("  %-19s %d", string(o)+":", n))
		}
	}

	footer := "All tests passed"
	if !s.OK() {
		footer = fmt.Sprintf("FAILED TESTS (%d)", s.FailedTotal())
	}
	c.box("Results", lines, footer)
}

func (c *Console) box(title string, lines []string, footer string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.styled {
		fmt.Fprintln(c.Out, title)
		for _, l := range lines {
			fmt.Fprintf(c.Out, "  %s\n", l)
		}
		if footer != "" {
			fmt.Fprintln(c.Out, footer)
		}
		return
	}

	parts := []string{titleStyle.Render(title)}
	parts = append(parts, lines...)
	if footer != "" {
		parts = append(parts, "", footerStyle(strings.HasPrefix(footer, "All")).Render(footer))
	}
	fmt.Fprintln(c.Out, boxStyle.Render(strings.Join(parts, "\n")))
}

var (
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)
	titleStyle = lipgloss.NewStyle().Bold(true)
)

func footerStyle(ok bool) lipgloss.Style {
	if ok {
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
}
