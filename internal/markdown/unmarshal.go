package markdown

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"
)

var (
	// delimiterLine matches a line made of exactly three dashes.
	delimiterLine = regexp.MustCompile(`(?m)^---[ \t]*$`)

	// titleHeading matches the first level-1 heading of a body.
	titleHeading = regexp.MustCompile(`(?m)^#[ \t]*([^#\s].*)$`)

	tagSeparator = regexp.MustCompile(`[,，]`)

	// punctuation look-alikes that commonly break YAML when typed by an IME.
	lookalikes = strings.NewReplacer(
		"‘", "'",
		"’", "'",
		"“", `"`,
		"”", `"`,
		"，", ",",
	)
)

// Unmarshal parses raw document text into a Document.
//
// A document starting with a "---" line and containing a second "---" line is
// read as header + body. Anything else falls back to first-line-as-title.
func Unmarshal(raw string) (*Document, error) {
	raw = strings.TrimSpace(strings.ReplaceAll(raw, "\r\n", "\n"))
	if raw == "" {
		return nil, ErrEmptyDocument
	}

	doc, ok, err := splitWithFrontmatter(raw)
	if err != nil {
		return nil, err
	}
	if !ok {
		doc = splitFirstLine(raw)
	}

	if doc.Title == "" || strings.TrimSpace(doc.Body) == "" {
		return nil, ErrMissingTitleOrBody
	}
	return doc, nil
}

// splitWithFrontmatter handles the header path. ok is false when the text
// does not carry a complete header and the caller should fall back.
func splitWithFrontmatter(raw string) (*Document, bool, error) {
	first, _, _ := strings.Cut(raw, "\n")
	if strings.TrimRight(first, " \t") != "---" {
		return nil, false, nil
	}

	parts := delimiterLine.Split(raw, -1)
	if len(parts) < 3 {
		return nil, false, nil
	}

	meta, err := parseFrontmatter(parts[1])
	if err != nil {
		return nil, false, err
	}

	body := strings.TrimSpace(strings.Join(parts[2:], "\n"))
	title := ""
	if v, ok := meta["title"]; ok && v != nil {
		title = strings.TrimSpace(fmt.Sprint(v))
	}
	if title == "" {
		title = titleFromBody(body)
	}

	return &Document{Title: title, Body: body, Meta: meta}, true, nil
}

// splitFirstLine is the no-header path: the first line is the title, the
// remaining lines are the body.
func splitFirstLine(raw string) *Document {
	first, rest, _ := strings.Cut(raw, "\n")
	return &Document{
		Title: cleanHeading(first),
		Body:  rest,
		Meta:  Metadata{},
	}
}

// parseFrontmatter decodes the header block. A failed strict decode is
// retried once with punctuation look-alikes replaced; if that fails too the
// strict error is returned.
func parseFrontmatter(block string) (Metadata, error) {
	meta, err := decodeHeader(block)
	if err == nil {
		return NormalizeMeta(meta), nil
	}

	normalized := lookalikes.Replace(block)
	if normalized != block {
		if retried, retryErr := decodeHeader(normalized); retryErr == nil {
			return NormalizeMeta(retried), nil
		}
	}
	return nil, &ParseError{Err: err}
}

func decodeHeader(block string) (Metadata, error) {
	var meta Metadata
	if err := yaml.Unmarshal([]byte(block), &meta); err != nil {
		return nil, err
	}
	if meta == nil {
		meta = Metadata{}
	}
	return meta, nil
}

// NormalizeMeta rewrites the tags field into a list of trimmed, unquoted,
// non-empty strings. Every other field is left untouched. The map is modified
// in place and returned.
func NormalizeMeta(meta Metadata) Metadata {
	if meta == nil {
		return Metadata{}
	}

	switch tags := meta["tags"].(type) {
	case string:
		meta["tags"] = cleanTags(tagSeparator.Split(tags, -1))
	case []string:
		meta["tags"] = cleanTags(tags)
	case []any:
		var raw []string
		for _, t := range tags {
			if s, ok := t.(string); ok {
				raw = append(raw, s)
			}
		}
		meta["tags"] = cleanTags(raw)
	}
	return meta
}

func cleanTags(raw []string) []string {
	tags := make([]string, 0, len(raw))
	for _, t := range raw {
		t = strings.TrimFunc(t, func(r rune) bool {
			return unicode.IsSpace(r) || r == '\'' || r == '"'
		})
		if t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// Tags returns the normalised tags of meta, or nil when there are none.
func (m Metadata) Tags() []string {
	tags, _ := m["tags"].([]string)
	return tags
}

// Text returns the trimmed string form of key, or "" when absent.
func (m Metadata) Text(key string) string {
	v, ok := m[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(fmt.Sprint(v))
}

func titleFromBody(body string) string {
	match := titleHeading.FindStringSubmatch(body)
	if match == nil {
		return ""
	}
	return strings.TrimSpace(match[1])
}

func cleanHeading(line string) string {
	return strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "#"))
}
