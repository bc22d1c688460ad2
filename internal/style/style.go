// Package style renders pass/fail markers. Plain mode is ASCII only so the
// output stays grep-friendly; fancy mode adds glyphs and colour.
package style

import "github.com/charmbracelet/lipgloss"

var (
	colorPass = lipgloss.Color("#04B575")
	colorFail = lipgloss.Color("#FF5F87")
	colorWarn = lipgloss.Color("#FFAF00")
	colorHead = lipgloss.Color("#7D56F4")
	colorDim  = lipgloss.Color("#767676")
)

// Marker styles one console report.
type Marker struct {
	fancy bool
	pass  lipgloss.Style
	fail  lipgloss.Style
	warn  lipgloss.Style
	head  lipgloss.Style
	dim   lipgloss.Style
}

// New returns a Marker. With fancy=false every method returns plain ASCII.
func New(fancy bool) Marker {
	return Marker{
		fancy: fancy,
		pass:  lipgloss.NewStyle().Foreground(colorPass).Bold(true),
		fail:  lipgloss.NewStyle().Foreground(colorFail).Bold(true),
		warn:  lipgloss.NewStyle().Foreground(colorWarn).Bold(true),
		head:  lipgloss.NewStyle().Foreground(colorHead).Bold(true),
		dim:   lipgloss.NewStyle().Foreground(colorDim),
	}
}

// Fancy reports whether Unicode cosmetics are enabled.
func (m Marker) Fancy() bool { return m.fancy }

// Status returns the glyph and label for an outcome, e.g. "[+] PASS".
func (m Marker) Status(ok bool) string {
	if !m.fancy {
		if ok {
			return "[+] PASS"
		}
		return "[x] FAIL"
	}
	if ok {
		return m.pass.Render("✔ PASS")
	}
	return m.fail.Render("✘ FAIL")
}

// Separator joins a step name and its message.
func (m Marker) Separator() string {
	if m.fancy {
		return " — "
	}
	return " - "
}

// Rule returns a horizontal rule of n characters.
func (m Marker) Rule(n int) string {
	ch := "="
	if m.fancy {
		ch = "═"
	}
	out := make([]byte, 0, n*len(ch))
	for i := 0; i < n; i++ {
		out = append(out, ch...)
	}
	if m.fancy {
		return m.dim.Render(string(out))
	}
	return string(out)
}

// Heading renders a title line.
func (m Marker) Heading(s string) string {
	if m.fancy {
		return m.head.Render(s)
	}
	return s
}

// Tier colours a verdict: ok, warning or critical.
func (m Marker) Tier(s string, level int) string {
	if !m.fancy {
		return s
	}
	switch level {
	case 0:
		return m.pass.Render(s)
	case 1:
		return m.warn.Render(s)
	default:
		return m.fail.Render(s)
	}
}
