package tui

import (
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"
)

// NewRenderer returns a function that renders a compiled document for display.
// On a terminal the document is shown as a highlighted YAML block; otherwise it is
// returned unchanged so redirected output stays byte-exact.
func NewRenderer() func(string) (string, error) {
	return newRenderer(term.IsTerminal(int(os.Stdout.Fd())))
}

func newRenderer(tty bool) func(string) (string, error) {
	plain := func(doc string) (string, error) { return doc, nil }
	if !tty {
		return plain
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
		glamour.WithWordWrap(0),
	)
	if err != nil {
		return plain
	}

	return func(doc string) (string, error) {
		return r.Render(Fence(doc))
	}
}

// Fence wraps a compiled document in a markdown yaml code block.
func Fence(doc string) string {
	if !strings.HasSuffix(doc, "\n") {
		doc += "\n"
	}
	return "```yaml\n" + doc + "```\n"
}
