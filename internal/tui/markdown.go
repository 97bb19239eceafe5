package tui

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

// minMarkdownWidth keeps glamour from wrapping every word onto its own line
// in very narrow modals.
const minMarkdownWidth = 10

type rendererKey struct {
	dark  bool
	width int
}

// markdownRenderers holds one glamour renderer per background and width.
// A fixed standard style is used: WithAutoStyle queries the terminal and can
// stall while bubbletea owns stdin.
var markdownRenderers sync.Map // rendererKey -> *glamour.TermRenderer

func markdownRenderer(width int) (*glamour.TermRenderer, error) {
	key := rendererKey{dark: lipgloss.HasDarkBackground(), width: width}
	if r, ok := markdownRenderers.Load(key); ok {
		return r.(*glamour.TermRenderer), nil
	}
	style := "light"
	if key.dark {
		style = "dark"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, fmt.Errorf("markdown renderer: %w", err)
	}
	actual, _ := markdownRenderers.LoadOrStore(key, r)
	return actual.(*glamour.TermRenderer), nil
}

// renderMarkdown renders md for a modal body. Rendering failures fall back
// to the raw text.
func renderMarkdown(md string, width int) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	r, err := markdownRenderer(max(width, minMarkdownWidth))
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}
