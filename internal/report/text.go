package report

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/dusk-indust/epitastyle/internal/lint"
)

// TextOptions controls the text renderer.
type TextOptions struct {
	Color      bool
	ShowSource bool // print the offending line under each violation
	Quiet      bool // summary only
}

// ColorEnabled reports whether w should get ANSI colors: never with
// noColor or NO_COLOR set, otherwise only for a terminal.
func ColorEnabled(w io.Writer, noColor bool) bool {
	if noColor || os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

type palette struct {
	on bool

	location lipgloss.Style
	major    lipgloss.Style
	minor    lipgloss.Style
	rule     lipgloss.Style
	source   lipgloss.Style
	summary  lipgloss.Style
}

func newPalette(w io.Writer, color bool) palette {
	r := lipgloss.NewRenderer(w)
	if color {
		r.SetColorProfile(termenv.ANSI)
	} else {
		r.SetColorProfile(termenv.Ascii)
	}
	return palette{
		on:       color,
		location: r.NewStyle().Foreground(lipgloss.Color("6")),
		major:    r.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		minor:    r.NewStyle().Foreground(lipgloss.Color("11")),
		rule:     r.NewStyle().Faint(true),
		source:   r.NewStyle().Foreground(lipgloss.Color("8")),
		summary:  r.NewStyle().Bold(true),
	}
}

func (p palette) paint(s lipgloss.Style, text string) string {
	if !p.on {
		return text
	}
	return s.Render(text)
}

func (p palette) severity(sev lint.Severity) string {
	label := "[" + string(sev) + "]"
	if sev == lint.Major {
		return p.paint(p.major, label)
	}
	return p.paint(p.minor, label)
}

// Text writes one line per violation,
// "path:line:column: [SEVERITY] rule: message", then the summary.
func Text(w io.Writer, files int, vs []lint.Violation, opts TextOptions) error {
	p := newPalette(w, opts.Color)

	if !opts.Quiet {
		for _, v := range vs {
			loc := fmt.Sprintf("%s:%d:%d:", v.File, v.Line, v.Column)
			if _, err := fmt.Fprintf(w, "%s %s %s %s\n",
				p.paint(p.location, loc), p.severity(v.Severity), p.paint(p.rule, v.Rule+":"), v.Message); err != nil {
				return err
			}
			if opts.ShowSource && v.LineContent != "" {
				if _, err := fmt.Fprintf(w, "    %s\n", p.paint(p.source, v.LineContent)); err != nil {
					return err
				}
			}
		}
		if len(vs) > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
	}

	s := Summarize(files, vs)
	line := fmt.Sprintf("Files: %d  Major: %s  Minor: %s", s.Files,
		p.paint(p.major, fmt.Sprint(s.Major)), p.paint(p.minor, fmt.Sprint(s.Minor)))
	_, err := fmt.Fprintln(w, p.paint(p.summary, line))
	return err
}
