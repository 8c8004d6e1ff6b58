package target

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/dt-pm-tools/mdpub/internal/config"
	"github.com/dt-pm-tools/mdpub/internal/markdown"
	"github.com/dt-pm-tools/mdpub/internal/notify"
)

// AstroName is the configuration key of the Astro content-collection target.
const AstroName = "astro"

const excerptLimit = 120

var (
	// slugUnsafe matches runs of characters that may not appear in a slug:
	// anything but lowercase ASCII letters, digits and CJK unified ideographs.
	slugUnsafe = regexp.MustCompile(`[^a-z0-9\x{4e00}-\x{9fa5}]+`)

	paragraphBreak = regexp.MustCompile(`\n\s*\n`)
)

// Astro writes posts into an Astro site's content collection.
type Astro struct {
	cfg  *config.TargetConfig
	deps Deps
}

// NewAstro is the Factory for the astro target.
func NewAstro(cfg *config.TargetConfig, deps Deps) Target {
	return &Astro{cfg: cfg, deps: deps}
}

func (a *Astro) Name() string { return AstroName }

// Publish writes the composed post to <repo_root>/<posts_dir>/<filename>,
// replacing any existing file, then runs the commit command if configured.
func (a *Astro) Publish(title, body string, meta markdown.Metadata) error {
	if !Enabled(a.cfg) {
		return nil
	}
	if strings.TrimSpace(a.cfg.RepoRoot) == "" {
		return configurationError(ErrRepoRootRequired, "astro target misconfigured")
	}

	filename, content := a.Compose(title, body, meta)
	targetPath := filepath.Join(a.PostsDir(), filename)

	if err := os.MkdirAll(filepath.Dir(targetPath), 0755); err != nil {
		return fmt.Errorf("creating posts directory: %w", err)
	}
	if err := os.WriteFile(targetPath, []byte(content), 0644); err != nil {
		return fmt.Errorf("writing post: %w", err)
	}
	a.notify(notify.Info, fmt.Sprintf("Post written: %s", targetPath))

	if a.cfg.AutoCommit && a.cfg.GitCmd != "" && a.deps.Committer != nil {
		// The written post stays in place when the commit fails.
		if err := a.deps.Committer.Run(a.cfg.GitCmd, a.cfg.RepoRoot, filename); err != nil {
			return err
		}
	}
	return nil
}

// PostsDir returns the absolute directory posts are written to.
func (a *Astro) PostsDir() string {
	if a.cfg == nil {
		return ""
	}
	return filepath.Join(a.cfg.RepoRoot, a.cfg.PostsDirOrDefault())
}

// Compose returns the filename and file content for a post.
func (a *Astro) Compose(title, body string, meta markdown.Metadata) (string, string) {
	now := a.deps.now()
	return ComposeFilename(title, a.cfg.FilenamePatternOrDefault(), now),
		ComposeContent(title, body, meta, now)
}

// ComposeFilename substitutes {date} and {slug} in pattern.
func ComposeFilename(title, pattern string, now time.Time) string {
	if pattern == "" {
		pattern = config.DefaultFilenamePattern
	}
	date := now.Format(time.DateOnly)
	slug := Slug(title)
	if slug == "" {
		slug = "post-" + date
	}
	name := strings.ReplaceAll(pattern, "{date}", date)
	return strings.ReplaceAll(name, "{slug}", slug)
}

// Slug lowercases title and collapses every run of unsafe characters into a
// single hyphen.
func Slug(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = slugUnsafe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// ComposeContent renders the post header and body. Metadata values win over
// derived ones.
func ComposeContent(title, body string, meta markdown.Metadata, now time.Time) string {
	h := markdown.Header{
		Title:   title,
		Date:    meta.Date(),
		Excerpt: meta.Text("excerpt"),
		Tags:    meta.Tags(),
		Cover:   meta.Text("cover"),
	}
	if h.Date == "" {
		h.Date = now.Format(time.DateOnly)
	}
	if h.Excerpt == "" {
		h.Excerpt = Excerpt(body)
	}
	return markdown.Marshal(h, body)
}

// Excerpt returns the first non-empty paragraph of body on one line,
// truncated to 120 characters.
func Excerpt(body string) string {
	for _, p := range paragraphBreak.Split(body, -1) {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		p = strings.ReplaceAll(p, "\n", " ")
		if r := []rune(p); len(r) > excerptLimit {
			p = string(r[:excerptLimit])
		}
		return p
	}
	return ""
}

func (a *Astro) notify(level notify.Level, msg string) {
	if a.deps.Notifier != nil {
		a.deps.Notifier.Notify(level, msg)
	}
}
