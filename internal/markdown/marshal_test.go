package markdown

import (
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestMarshalFieldOrderAndQuoting(t *testing.T) {
	got := Marshal(Header{
		Title:   "It's here",
		Date:    "2024-01-02",
		Excerpt: "Don't <panic> & relax",
		Tags:    []string{"go", "博客"},
	}, "\n\nBody text\n\n")

	want := "---\n" +
		"title: 'It''s here'\n" +
		"date: '2024-01-02'\n" +
		"excerpt: 'Don''t <panic> & relax'\n" +
		`tags: ["go","博客"]` + "\n" +
		"---\n\n" +
		"Body text\n"
	if got != want {
		t.Errorf("Marshal mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestMarshalCoverAndEmptyTags(t *testing.T) {
	got := Marshal(Header{Title: "T", Date: "d", Cover: "/uploads/a.png"}, "b")
	if !strings.Contains(got, "tags: []\ncover: '/uploads/a.png'\n---\n") {
		t.Errorf("unexpected header:\n%s", got)
	}
}

func TestReadPostRoundTrip(t *testing.T) {
	out := Marshal(Header{
		Title:   "It's here",
		Date:    "2024-01-02",
		Excerpt: "short",
		Tags:    []string{"a", "b"},
		Cover:   "/c.png",
	}, "Hello\n\nWorld")

	post, err := ReadPost(strings.NewReader(out))
	if err != nil {
		t.Fatalf("ReadPost returned error: %v", err)
	}
	if post.Title != "It's here" || post.Date != "2024-01-02" || post.Cover != "/c.png" {
		t.Errorf("unexpected post header: %+v", post)
	}
	if !reflect.DeepEqual(post.Tags, []string{"a", "b"}) {
		t.Errorf("tags = %#v", post.Tags)
	}
	if post.Body != "Hello\n\nWorld" {
		t.Errorf("body = %q", post.Body)
	}
}

func TestMetadataDate(t *testing.T) {
	day := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	if got := (Metadata{"date": day}).Date(); got != "2024-01-02" {
		t.Errorf("Date() = %q, want 2024-01-02", got)
	}
	if got := (Metadata{"date": " 2023-05-06 "}).Date(); got != "2023-05-06" {
		t.Errorf("Date() = %q, want 2023-05-06", got)
	}
	if got := (Metadata{}).Date(); got != "" {
		t.Errorf("Date() = %q, want empty", got)
	}
}
