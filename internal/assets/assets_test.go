package assets

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var testNow = time.Date(2024, time.March, 9, 10, 0, 0, 0, time.Local)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestRelocateCopiesAndRewrites(t *testing.T) {
	repo := t.TempDir()
	src := filepath.Join(t.TempDir(), "shot.png")
	writeFile(t, src, "png-bytes")

	body := "Intro\n\n![a shot](" + src + ")\n\nOutro"
	res, err := RelocateAt(body, repo, testNow)
	if err != nil {
		t.Fatalf("RelocateAt returned error: %v", err)
	}

	want := "Intro\n\n![a shot](/uploads/2024/03/shot.png)\n\nOutro"
	if res.Body != want {
		t.Errorf("body = %q, want %q", res.Body, want)
	}
	if len(res.Assets) != 1 {
		t.Fatalf("expected 1 asset, got %d", len(res.Assets))
	}

	rec := res.Assets[0]
	wantDest := filepath.Join(repo, "public", "uploads", "2024", "03", "shot.png")
	if rec.AbsolutePath != wantDest {
		t.Errorf("AbsolutePath = %q, want %q", rec.AbsolutePath, wantDest)
	}
	if rec.PublicPath != "/uploads/2024/03/shot.png" {
		t.Errorf("PublicPath = %q", rec.PublicPath)
	}
	if rec.RelativePath != filepath.Join("public", "uploads", "2024", "03", "shot.png") {
		t.Errorf("RelativePath = %q", rec.RelativePath)
	}
	data, err := os.ReadFile(wantDest)
	if err != nil || string(data) != "png-bytes" {
		t.Errorf("copied file = %q, %v", data, err)
	}
}

func TestRelocateSkipsIneligibleReferences(t *testing.T) {
	repo := t.TempDir()
	missing := filepath.Join(t.TempDir(), "gone.png")
	dir := t.TempDir()

	body := strings.Join([]string{
		"![rel](images/a.png)",
		"![url](https://example.com/b.png)",
		"![missing](" + missing + ")",
		"![dir](" + dir + ")",
		"![empty]( )",
	}, "\n")

	res, err := RelocateAt(body, repo, testNow)
	if err != nil {
		t.Fatalf("RelocateAt returned error: %v", err)
	}
	if res.Body != body {
		t.Errorf("body changed:\n%s", res.Body)
	}
	if len(res.Assets) != 0 {
		t.Errorf("expected no assets, got %v", res.Assets)
	}
	if _, err := os.Stat(filepath.Join(repo, "public", "uploads", "2024", "03")); err != nil {
		t.Errorf("expected destination directory to exist: %v", err)
	}
}

func TestRelocateDeduplicatesNames(t *testing.T) {
	repo := t.TempDir()
	first := filepath.Join(t.TempDir(), "img.png")
	second := filepath.Join(t.TempDir(), "img.png")
	writeFile(t, first, "one")
	writeFile(t, second, "two")
	// A file from an earlier publish already holds the plain name.
	writeFile(t, filepath.Join(repo, "public", "uploads", "2024", "03", "img.png"), "old")

	body := "![1](" + first + ") ![2](" + second + ")"
	res, err := RelocateAt(body, repo, testNow)
	if err != nil {
		t.Fatalf("RelocateAt returned error: %v", err)
	}

	want := "![1](/uploads/2024/03/img-1.png) ![2](/uploads/2024/03/img-2.png)"
	if res.Body != want {
		t.Errorf("body = %q, want %q", res.Body, want)
	}
	if len(res.Assets) != 2 || res.Assets[0].AbsolutePath == res.Assets[1].AbsolutePath {
		t.Fatalf("expected two distinct assets, got %v", res.Assets)
	}
	data, _ := os.ReadFile(res.Assets[1].AbsolutePath)
	if string(data) != "two" {
		t.Errorf("second copy = %q, want two", data)
	}
}

func TestRelocateQuotedPath(t *testing.T) {
	repo := t.TempDir()
	src := filepath.Join(t.TempDir(), "q.jpg")
	writeFile(t, src, "x")

	res, err := RelocateAt(`![q]( "`+src+`" )`, repo, testNow)
	if err != nil {
		t.Fatalf("RelocateAt returned error: %v", err)
	}
	if res.Body != "![q](/uploads/2024/03/q.jpg)" {
		t.Errorf("body = %q", res.Body)
	}
}

func TestRelocateSecondPassIsNoop(t *testing.T) {
	repo := t.TempDir()
	src := filepath.Join(t.TempDir(), "a.gif")
	writeFile(t, src, "gif")

	first, err := RelocateAt("![a]("+src+")", repo, testNow)
	if err != nil {
		t.Fatalf("first pass: %v", err)
	}
	second, err := RelocateAt(first.Body, repo, testNow)
	if err != nil {
		t.Fatalf("second pass: %v", err)
	}
	if second.Body != first.Body || len(second.Assets) != 0 {
		t.Errorf("second pass changed body or copied: %q %v", second.Body, second.Assets)
	}
}

func TestRelocateCopyFailureAborts(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root can read unreadable files")
	}
	repo := t.TempDir()
	src := filepath.Join(t.TempDir(), "locked.png")
	writeFile(t, src, "x")
	if err := os.Chmod(src, 0000); err != nil {
		t.Fatalf("chmod: %v", err)
	}

	_, err := RelocateAt("![l]("+src+")", repo, testNow)
	var cerr *CopyError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected *CopyError, got %v", err)
	}
	if cerr.Source != src {
		t.Errorf("Source = %q, want %q", cerr.Source, src)
	}
}
