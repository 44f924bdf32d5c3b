package model

import (
	"encoding/hex"
	"mime"
	"net/http"
	"strings"

	"golang.org/x/crypto/sha3"
)

// FetchResult is the outcome of a single fetch performed by the host crawler.
// It is owned by the caller and must not be modified while it is being scraped.
type FetchResult struct {
	// URL is the URL that was requested.
	// Relative links and statistics are keyed on this URL.
	URL string `json:"url"`

	// EffectiveURL is the URL the content was finally served from,
	// after any redirects. It is informational only.
	EffectiveURL string `json:"effective_url,omitempty"`

	// StatusCode is the HTTP response status code.
	StatusCode int `json:"status_code"`

	// Error describes a fetch failure reported by the host, if any.
	Error string `json:"error,omitempty"`

	// ContentType is the Content-Type header of the response.
	// It is used as a hint when decoding non UTF-8 pages.
	ContentType string `json:"content_type,omitempty"`

	// Content is the raw response body.
	Content []byte `json:"-"`
}

// OK reports whether the fetch succeeded with a usable body.
func (f *FetchResult) OK() bool {
	return f != nil && f.StatusCode == http.StatusOK && f.Error == "" && len(f.Content) > 0
}

// Fingerprint returns the hex encoded SHA3-256 digest of the content.
// An empty body has an empty fingerprint.
func (f *FetchResult) Fingerprint() string {
	if f == nil || len(f.Content) == 0 {
		return ""
	}
	sum := sha3.Sum256(f.Content)
	return hex.EncodeToString(sum[:])
}

// IsHTML reports whether the content type denotes an HTML document.
// A missing content type is treated as HTML, matching how hosts usually
// hand over pages they did not classify.
func (f *FetchResult) IsHTML() bool {
	if f == nil || f.ContentType == "" {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(f.ContentType)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(strings.SplitN(f.ContentType, ";", 2)[0]))
	}
	return mediaType == "text/html" || mediaType == "application/xhtml+xml"
}
