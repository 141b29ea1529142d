// Package ui renders pattern files for terminal display in the 'view' and
// 'list' commands.
package ui

import (
	"fmt"
	"os"
	"strings"
	"time"

	"patternbook/internal/catalog"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/termenv"
)

const defaultWidth = 80

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	dimStyle    = lipgloss.NewStyle().Faint(true)
)

// DetectStyle picks a glamour style for the current terminal. GLAMOUR_STYLE
// overrides detection when set to a concrete value; background probing is
// bounded so unresponsive terminals can't hang the command.
func DetectStyle(timeout time.Duration) string {
	style := os.Getenv("GLAMOUR_STYLE")
	if style != "" && style != "auto" {
		return style
	}

	ch := make(chan string, 1)
	go func() {
		out := termenv.NewOutput(os.Stdout)
		if out.HasDarkBackground() {
			ch <- "dark"
			return
		}
		ch <- "light"
	}()

	select {
	case s := <-ch:
		return s
	case <-time.After(timeout):
		return "dark"
	}
}

// RenderMarkdown renders markdown for the terminal. Dumb terminals get
// word-wrapped plain text instead of ANSI styling.
func RenderMarkdown(content string, width int) (string, error) {
	if width <= 0 {
		width = defaultWidth
	}

	if termenv.NewOutput(os.Stdout).ColorProfile() == termenv.Ascii {
		return wordwrap.String(content, width), nil
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(DetectStyle(500*time.Millisecond)),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create markdown renderer: %w", err)
	}

	rendered, err := renderer.Render(content)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return rendered, nil
}

// FormatEntryList renders catalog entries grouped by category for the 'list'
// command.
func FormatEntryList(entries []catalog.Entry) string {
	if len(entries) == 0 {
		return "No patterns found.\n"
	}

	var b strings.Builder
	lastCategory := ""
	for _, entry := range entries {
		if entry.Category != lastCategory {
			if lastCategory != "" {
				b.WriteString("\n")
			}
			b.WriteString(headerStyle.Render(entry.Category) + "\n")
			lastCategory = entry.Category
		}

		b.WriteString("  " + entry.Name)
		if entry.Title != entry.Name {
			b.WriteString(dimStyle.Render("  " + entry.Title))
		}
		b.WriteString("\n")
		if entry.Description != "" {
			b.WriteString(dimStyle.Render("    "+entry.Description) + "\n")
		}
	}
	return b.String()
}
