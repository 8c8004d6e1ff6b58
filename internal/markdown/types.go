package markdown

import (
	"errors"
	"fmt"
)

// Metadata is the open key/value mapping decoded from a document header.
// Recognised keys are title, date, excerpt, tags and cover.
type Metadata map[string]any

// Document is the intermediate representation between an authored markdown
// file and a publish target.
type Document struct {
	Title string
	Body  string // markdown body (without the header block)
	Meta  Metadata
}

// Header is the fixed set of fields written in front of a published post.
type Header struct {
	Title   string
	Date    string
	Excerpt string
	Tags    []string
	Cover   string // omitted when empty
}

// Post is a published post decoded back from disk.
type Post struct {
	Title   string   `yaml:"title"`
	Date    string   `yaml:"date"`
	Excerpt string   `yaml:"excerpt"`
	Tags    []string `yaml:"tags"`
	Cover   string   `yaml:"cover"`
	Body    string   `yaml:"-"`
}

var (
	ErrEmptyDocument      = errors.New("markdown: document is empty")
	ErrMissingTitleOrBody = errors.New("markdown: document is missing a title or body")
)

// ParseError reports a header block that could not be decoded, neither as
// written nor after punctuation normalisation. Err is the error from the
// first (strict) attempt.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("markdown: parsing frontmatter: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
