package signer

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"net/http"
	"regexp"
	"testing"
)

func newTestSigner(t *testing.T) *Signer {
	t.Helper()
	s, err := New("203803574", "test-secret")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return s
}

func TestNewRequiresCredentials(t *testing.T) {
	if _, err := New("", "secret"); !errors.Is(err, ErrCredentialsRequired) {
		t.Errorf("expected ErrCredentialsRequired, got %v", err)
	}
	if _, err := New("key", ""); !errors.Is(err, ErrCredentialsRequired) {
		t.Errorf("expected ErrCredentialsRequired, got %v", err)
	}
}

func TestCanonicalString(t *testing.T) {
	s := newTestSigner(t)
	got := s.CanonicalString("n-1", "/api/upload")
	want := "POST\napplication/json, text/plain, */*\n\napplication/json;\n\n" +
		"x-ca-key:203803574\nx-ca-nonce:n-1\n/api/upload"
	if got != want {
		t.Errorf("CanonicalString = %q, want %q", got, want)
	}
}

func TestSignMatchesHMACOfCanonicalString(t *testing.T) {
	s := newTestSigner(t)
	got, err := s.Sign("n-1", "https://img.example.com/api/upload?x=1")
	if err != nil {
		t.Fatalf("Sign returned error: %v", err)
	}

	mac := hmac.New(sha256.New, []byte("test-secret"))
	mac.Write([]byte(s.CanonicalString("n-1", "/api/upload")))
	want := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	if got != want {
		t.Errorf("Sign = %q, want %q", got, want)
	}
}

func TestSignDeterministicAndNonceSensitive(t *testing.T) {
	s := newTestSigner(t)
	a, _ := s.Sign("nonce-a", "https://h/p")
	b, _ := s.Sign("nonce-a", "https://h/p")
	c, _ := s.Sign("nonce-b", "https://h/p")
	if a != b {
		t.Errorf("expected deterministic output, got %q and %q", a, b)
	}
	if a == c {
		t.Error("expected signature to change with nonce")
	}
}

func TestSignIgnoresQueryAndHost(t *testing.T) {
	s := newTestSigner(t)
	a, _ := s.Sign("n", "https://one.example.com/upload?a=1")
	b, _ := s.Sign("n", "http://two.example.com/upload?b=2#frag")
	if a != b {
		t.Errorf("expected same signature, got %q and %q", a, b)
	}
	c, _ := s.Sign("n", "https://one.example.com/other")
	if a == c {
		t.Error("expected signature to depend on path")
	}
}

func TestSignRejectsRelativeURL(t *testing.T) {
	s := newTestSigner(t)
	if _, err := s.Sign("n", "/just/a/path"); err == nil {
		t.Fatal("expected error for relative url")
	}
}

func TestSignEmptyPathUsesRoot(t *testing.T) {
	s := newTestSigner(t)
	a, _ := s.Sign("n", "https://h")
	b, _ := s.Sign("n", "https://h/")
	if a != b {
		t.Errorf("expected empty path to sign as /, got %q and %q", a, b)
	}
}

var nonceShape = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)

func TestNewNonceShape(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		n := NewNonce()
		if !nonceShape.MatchString(n) {
			t.Fatalf("nonce %q does not match v4 layout", n)
		}
		seen[n] = true
	}
	if len(seen) < 50 {
		t.Errorf("expected unique nonces, got %d distinct", len(seen))
	}
}

func TestSignRequestSetsHeaders(t *testing.T) {
	s := newTestSigner(t)
	req, err := http.NewRequest(http.MethodPost, "https://img.example.com/api/upload?t=1", nil)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	if err := s.SignRequest(req); err != nil {
		t.Fatalf("SignRequest returned error: %v", err)
	}

	nonce := req.Header.Get(HeaderNonce)
	if !nonceShape.MatchString(nonce) {
		t.Errorf("unexpected nonce header %q", nonce)
	}
	want, _ := s.Sign(nonce, "https://img.example.com/api/upload")
	if got := req.Header.Get(HeaderSignature); got != want {
		t.Errorf("signature header = %q, want %q", got, want)
	}
	if req.Header.Get(HeaderKey) != "203803574" {
		t.Errorf("key header = %q", req.Header.Get(HeaderKey))
	}
}
