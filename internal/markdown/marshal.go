package markdown

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Marshal renders a published post: the header block in fixed field order,
// a blank line, then the trimmed body.
//
// Scalars are single-quoted with embedded quotes doubled and tags are written
// as an inline JSON sequence, which is what the site generator's content
// schema expects.
func Marshal(h Header, body string) string {
	var b strings.Builder

	b.WriteString("---\n")
	b.WriteString(fmt.Sprintf("title: %s\n", quote(h.Title)))
	b.WriteString(fmt.Sprintf("date: %s\n", quote(h.Date)))
	b.WriteString(fmt.Sprintf("excerpt: %s\n", quote(h.Excerpt)))
	b.WriteString(fmt.Sprintf("tags: %s\n", inlineSequence(h.Tags)))
	if h.Cover != "" {
		b.WriteString(fmt.Sprintf("cover: %s\n", quote(h.Cover)))
	}
	b.WriteString("---\n\n")

	b.WriteString(strings.TrimSpace(body))
	b.WriteString("\n")

	return b.String()
}

// Date returns the date field formatted as a calendar date when it was
// decoded as a timestamp, or its trimmed string form otherwise.
func (m Metadata) Date() string {
	if t, ok := m["date"].(time.Time); ok {
		if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
			return t.Format(time.DateOnly)
		}
		return t.Format(time.RFC3339)
	}
	return m.Text("date")
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func inlineSequence(items []string) string {
	if items == nil {
		items = []string{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(items); err != nil {
		return "[]"
	}
	return strings.TrimRight(buf.String(), "\n")
}
