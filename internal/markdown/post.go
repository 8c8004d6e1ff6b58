package markdown

import (
	"fmt"
	"io"
	"strings"

	"github.com/adrg/frontmatter"
)

// ReadPost decodes a published post the way a static-site content loader
// does: a YAML header between --- lines, followed by the body.
func ReadPost(r io.Reader) (*Post, error) {
	var post Post
	body, err := frontmatter.Parse(r, &post)
	if err != nil {
		return nil, fmt.Errorf("reading post: %w", err)
	}
	post.Body = strings.TrimSpace(string(body))
	return &post, nil
}
