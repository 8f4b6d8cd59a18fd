// Package richtext converts to-do descriptions between plain text, HTML, and
// terminal-rendered Markdown, and identifies attachment content types.
package richtext

import (
	"html"
	"regexp"
	"strings"

	"github.com/charmbracelet/glamour"
)

// RenderMarkdown renders Markdown for terminal display using glamour,
// wrapped at width columns.
func RenderMarkdown(md string, width int) (string, error) {
	if strings.TrimSpace(md) == "" {
		return "", nil
	}
	if width <= 0 {
		width = 80
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}

	out, err := r.Render(md)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// TextToHTML wraps plain text lines in <div> elements, escaping markup.
// Blank lines become <br>.
func TextToHTML(text string) string {
	if text == "" {
		return ""
	}
	var b strings.Builder
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			b.WriteString("<div><br></div>")
			continue
		}
		b.WriteString("<div>")
		b.WriteString(html.EscapeString(line))
		b.WriteString("</div>")
	}
	return b.String()
}

var (
	blockBreak = regexp.MustCompile(`(?i)<br\s*/?>|</(div|p|li|h[1-6])>`)
	anyTag     = regexp.MustCompile(`<[^>]*>`)
	blankRuns  = regexp.MustCompile(`\n{3,}`)
)

// HTMLToText strips tags from rich text, keeping line structure.
func HTMLToText(s string) string {
	if s == "" {
		return ""
	}
	s = blockBreak.ReplaceAllString(s, "\n")
	s = anyTag.ReplaceAllString(s, "")
	s = html.UnescapeString(s)
	s = blankRuns.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// IsHTML reports whether s contains an HTML tag.
func IsHTML(s string) bool {
	return anyTag.MatchString(s)
}
