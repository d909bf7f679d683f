package console

import (
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"
)

const defaultWidth = 80

// Renderer turns reply markup into terminal output.
type Renderer interface {
	Render(md string) string
}

// Plain prints markup as is.
type Plain struct{}

func (Plain) Render(md string) string { return md }

// Markdown styles replies with glamour, wrapped to the terminal width.
type Markdown struct {
	r *glamour.TermRenderer
}

func NewMarkdown() *Markdown {
	width := defaultWidth
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		width = w
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return &Markdown{}
	}
	return &Markdown{r: r}
}

func (m *Markdown) Render(md string) string {
	if m.r == nil || md == "" {
		return md
	}
	out, err := m.r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n ")
}

// IsTerminal reports whether stdout is an interactive terminal.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
