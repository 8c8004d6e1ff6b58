// Package assets copies locally referenced images into the site repository
// and rewrites the references to their public paths.
//
// Relocation is not safe for concurrent use against the same repository:
// picking a free destination name and copying to it are separate steps.
package assets

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// imageRef matches ![alt](path); group 1 is the path portion.
var imageRef = regexp.MustCompile(`!\[[^\]]*\]\(([^)]+)\)`)

// Record describes one relocated image.
type Record struct {
	AbsolutePath string // destination on disk
	PublicPath   string // site-relative URL written into the body
	RelativePath string // destination relative to the repository root
}

// Result is the rewritten body and the images that were relocated.
type Result struct {
	Body   string
	Assets []Record
}

// CopyError reports an image that could not be copied. Relocation stops at
// the first failure; images copied before it stay in place.
type CopyError struct {
	Source string
	Dest   string
	Err    error
}

func (e *CopyError) Error() string {
	return fmt.Sprintf("assets: copying %s to %s: %v", e.Source, e.Dest, e.Err)
}

func (e *CopyError) Unwrap() error { return e.Err }

// Relocate copies images referenced by absolute path into
// <repoRoot>/public/uploads/<year>/<month> and rewrites their references.
func Relocate(body, repoRoot string) (*Result, error) {
	return RelocateAt(body, repoRoot, time.Now())
}

// RelocateAt is Relocate with an explicit clock reading.
func RelocateAt(body, repoRoot string, now time.Time) (*Result, error) {
	year := fmt.Sprintf("%04d", now.Year())
	month := fmt.Sprintf("%02d", int(now.Month()))
	destDir := filepath.Join(repoRoot, "public", "uploads", year, month)
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return nil, fmt.Errorf("creating upload directory: %w", err)
	}

	result := &Result{}
	var b strings.Builder
	last := 0

	for _, m := range imageRef.FindAllStringSubmatchIndex(body, -1) {
		pathStart, pathEnd := m[2], m[3]
		source := unquote(strings.TrimSpace(body[pathStart:pathEnd]))
		if !eligible(source) {
			continue
		}

		name, err := freeName(destDir, filepath.Base(source))
		if err != nil {
			return nil, err
		}
		dest := filepath.Join(destDir, name)
		if err := copyFile(source, dest); err != nil {
			return nil, &CopyError{Source: source, Dest: dest, Err: err}
		}

		rel, err := filepath.Rel(repoRoot, dest)
		if err != nil {
			rel = dest
		}
		publicPath := path.Join("/uploads", year, month, name)

		b.WriteString(body[last:pathStart])
		b.WriteString(publicPath)
		last = pathEnd

		result.Assets = append(result.Assets, Record{
			AbsolutePath: dest,
			PublicPath:   publicPath,
			RelativePath: rel,
		})
	}

	b.WriteString(body[last:])
	result.Body = b.String()
	return result, nil
}

// eligible reports whether p is an absolute path to an existing file.
// Relative paths and URLs are left alone, so relocated bodies are stable.
func eligible(p string) bool {
	if p == "" || !filepath.IsAbs(p) {
		return false
	}
	info, err := os.Stat(p)
	return err == nil && info.Mode().IsRegular()
}

func unquote(p string) string {
	if len(p) >= 2 {
		if (p[0] == '"' && p[len(p)-1] == '"') || (p[0] == '\'' && p[len(p)-1] == '\'') {
			return p[1 : len(p)-1]
		}
	}
	return p
}

// freeName returns base, or base with -N inserted before the extension, such
// that no file of that name exists in dir.
func freeName(dir, base string) (string, error) {
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	name := base
	for n := 1; ; n++ {
		_, err := os.Stat(filepath.Join(dir, name))
		if os.IsNotExist(err) {
			return name, nil
		}
		if err != nil {
			return "", fmt.Errorf("checking %s: %w", name, err)
		}
		name = fmt.Sprintf("%s-%d%s", stem, n, ext)
	}
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	return out.Close()
}
