package message

import "testing"

func TestMatchMimeType(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		pattern     string
		want        bool
	}{
		{"exact", "text/plain", "text/plain", true},
		{"with params", "text/plain; charset=UTF-8", "text/plain", true},
		{"wildcard subtype", "text/html; charset=utf-8", "text/*", true},
		{"wildcard mismatch", "application/pdf", "text/*", false},
		{"subtype mismatch", "text/html", "text/plain", false},
		{"case insensitive", "TEXT/PLAIN", "text/plain", true},
		{"pattern params ignored", "text/plain", "text/plain; charset=koi8-r", true},
		{"embedded message", "message/rfc822", "message/rfc822", true},
		{"multipart wildcard", "multipart/mixed; boundary=abc", "multipart/*", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MatchMimeType(tt.contentType, tt.pattern); got != tt.want {
				t.Errorf("MatchMimeType(%q, %q) = %v, want %v", tt.contentType, tt.pattern, got, tt.want)
			}
		})
	}
}

func TestMatchMimeType_UnparsablePatternFallsBackToContains(t *testing.T) {
	// "//" does not parse as a media type, so matching degrades to
	// substring containment against the stored content-type string.
	if !MatchMimeType("text//plain", "//") {
		t.Error("expected containment match for unparsable pattern")
	}
	if MatchMimeType("text/plain", "//") {
		t.Error("expected no containment match")
	}
}

func TestMatchMimeType_MalformedContentType(t *testing.T) {
	if MatchMimeType("", "text/plain") {
		t.Error("empty content type must not match a structured pattern")
	}
}

func TestContentByType(t *testing.T) {
	result := &ContentAndAttachments{}
	result.AddContent("text/plain; charset=UTF-8", "first")
	result.AddContent("text/html", "<p>markup</p>")
	result.AddContent("text/plain", "second")

	if got := result.ContentByType("text/plain"); got != "first\nsecond" {
		t.Errorf("ContentByType(text/plain) = %q", got)
	}
	if got := result.ContentByType("text/html"); got != "<p>markup</p>" {
		t.Errorf("ContentByType(text/html) = %q", got)
	}
	if got := result.ContentByType("image/*"); got != "" {
		t.Errorf("ContentByType(image/*) = %q, want empty", got)
	}
}

func TestContentByType_OrderPreserved(t *testing.T) {
	result := &ContentAndAttachments{}
	result.AddContent("text/plain", "a")
	result.AddContent("text/plain", "b")
	result.AddContent("text/plain", "c")

	if got := result.ContentByType("text/*"); got != "a\nb\nc" {
		t.Errorf("joined content out of order: %q", got)
	}
}
