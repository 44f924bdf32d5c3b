package model

import "testing"

// TestFetchResultOK tests the OK method.
func TestFetchResultOK(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		result *FetchResult
		want   bool
	}{
		{
			name:   "200 with body is ok",
			result: &FetchResult{StatusCode: 200, Content: []byte("<html></html>")},
			want:   true,
		},
		{
			name:   "404 is not ok",
			result: &FetchResult{StatusCode: 404, Content: []byte("not found")},
			want:   false,
		},
		{
			name:   "empty body is not ok",
			result: &FetchResult{StatusCode: 200},
			want:   false,
		},
		{
			name:   "fetch error is not ok",
			result: &FetchResult{StatusCode: 200, Error: "connection reset", Content: []byte("x")},
			want:   false,
		},
		{
			name:   "nil result is not ok",
			result: nil,
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.result.OK(); got != tt.want {
				t.Errorf("OK() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestFetchResultFingerprint tests the Fingerprint method.
func TestFetchResultFingerprint(t *testing.T) {
	t.Parallel()

	t.Run("computes SHA3-256 of content", func(t *testing.T) {
		t.Parallel()

		result := &FetchResult{Content: []byte("abc")}
		expected := "3a985da74fe225b2045c172d6bd390bd855f086e3e9d525b46bfe24511431532"
		if got := result.Fingerprint(); got != expected {
			t.Errorf("got %q, expected %q", got, expected)
		}
	})

	t.Run("empty content produces empty fingerprint", func(t *testing.T) {
		t.Parallel()

		result := &FetchResult{}
		if got := result.Fingerprint(); got != "" {
			t.Errorf("expected empty fingerprint, got %q", got)
		}
	})
}

// TestFetchResultIsHTML tests content type detection.
func TestFetchResultIsHTML(t *testing.T) {
	t.Parallel()

	tests := []struct {
		contentType string
		want        bool
	}{
		{"text/html", true},
		{"text/html; charset=utf-8", true},
		{"TEXT/HTML", true},
		{"application/xhtml+xml", true},
		{"", true},
		{"application/pdf", false},
		{"image/png", false},
	}

	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			t.Parallel()
			result := &FetchResult{ContentType: tt.contentType}
			if got := result.IsHTML(); got != tt.want {
				t.Errorf("IsHTML(%q) = %v, want %v", tt.contentType, got, tt.want)
			}
		})
	}
}
