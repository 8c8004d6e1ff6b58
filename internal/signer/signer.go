// Package signer computes the HMAC-SHA256 request signatures expected by the
// image host's API gateway.
package signer

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/google/uuid"
)

// Fixed header values that are part of the canonical string. Requests signed
// with SignRequest carry the same values.
const (
	acceptValue      = "application/json, text/plain, */*"
	contentTypeValue = "application/json;"
)

// Header names set by SignRequest.
const (
	HeaderKey              = "X-Ca-Key"
	HeaderNonce            = "X-Ca-Nonce"
	HeaderSignature        = "X-Ca-Signature"
	HeaderSignatureHeaders = "X-Ca-Signature-Headers"
)

var ErrCredentialsRequired = errors.New("signer: key and secret are required")

// Signer holds the key identifier and shared secret. Both come from
// configuration; rotating them means updating the config file.
type Signer struct {
	key    string
	secret []byte
}

// New creates a Signer for the given key identifier and secret.
func New(key, secret string) (*Signer, error) {
	if key == "" || secret == "" {
		return nil, ErrCredentialsRequired
	}
	return &Signer{key: key, secret: []byte(secret)}, nil
}

// Key returns the key identifier.
func (s *Signer) Key() string { return s.key }

// Sign returns the base64 signature for a POST to rawURL with the given
// nonce. Only the URL path is signed; scheme, host and query are ignored.
func (s *Signer) Sign(nonce, rawURL string) (string, error) {
	path, err := urlPath(rawURL)
	if err != nil {
		return "", err
	}

	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(s.CanonicalString(nonce, path)))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil)), nil
}

// CanonicalString builds the text that gets signed.
func (s *Signer) CanonicalString(nonce, path string) string {
	return fmt.Sprintf("POST\n%s\n\n%s\n\nx-ca-key:%s\nx-ca-nonce:%s\n%s",
		acceptValue, contentTypeValue, s.key, nonce, path)
}

// SignRequest generates a nonce, signs req.URL and sets the gateway headers.
func (s *Signer) SignRequest(req *http.Request) error {
	if req.URL == nil {
		return fmt.Errorf("signer: request has no URL")
	}
	nonce := NewNonce()
	sig, err := s.Sign(nonce, req.URL.String())
	if err != nil {
		return err
	}

	req.Header.Set("Accept", acceptValue)
	req.Header.Set("Content-Type", contentTypeValue)
	req.Header.Set(HeaderKey, s.key)
	req.Header.Set(HeaderNonce, nonce)
	req.Header.Set(HeaderSignature, sig)
	req.Header.Set(HeaderSignatureHeaders, "x-ca-key,x-ca-nonce")
	return nil
}

// NewNonce returns a random identifier shaped like a version 4 UUID.
func NewNonce() string {
	return uuid.NewString()
}

func urlPath(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("signer: parsing url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("signer: url %q must be absolute", rawURL)
	}
	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	return path, nil
}
