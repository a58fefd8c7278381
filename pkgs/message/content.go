package message

import (
	"mime"
	"strings"
)

// Conventional content types for outgoing message bodies.
const (
	ContentTypeText = "text/plain; charset=utf-8"
	ContentTypeHTML = "text/html; charset=utf-8"
)

// Content is one decoded body chunk of a message together with its
// content type (e.g. "text/plain; charset=UTF-8"). A message may carry
// several chunks of the same semantic type; they are kept as separate
// entries in document order.
type Content struct {
	ContentType string
	Data        string
}

// MatchesMimeType reports whether the chunk's content type matches the
// given pattern. The pattern may use a wildcard subtype ("text/*").
// Patterns that don't parse as a media type fall back to substring
// containment against the stored content-type string, which keeps loose
// matching working for malformed headers.
func (c Content) MatchesMimeType(pattern string) bool {
	return MatchMimeType(c.ContentType, pattern)
}

// MatchMimeType matches a concrete content-type string against a pattern
// with optional wildcard subtype. Parameters (charset etc.) are ignored.
func MatchMimeType(contentType, pattern string) bool {
	pt, _, err := mime.ParseMediaType(pattern)
	if err != nil {
		return strings.Contains(contentType, pattern)
	}
	ct, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}

	pType, pSub, ok := splitType(pt)
	if !ok {
		return strings.Contains(contentType, pattern)
	}
	cType, cSub, ok := splitType(ct)
	if !ok {
		return false
	}

	if pType != cType {
		return false
	}
	if prefix, found := strings.CutSuffix(pSub, "*"); found {
		return strings.HasPrefix(cSub, prefix)
	}
	return pSub == cSub
}

func splitType(mediaType string) (typ, sub string, ok bool) {
	typ, sub, ok = strings.Cut(mediaType, "/")
	return typ, sub, ok
}

// ContentAndAttachments accumulates the flattened result of one MIME
// extraction: every body chunk and every attachment found during the walk,
// both in pre-order traversal order. It lives for the duration of one
// extraction call.
type ContentAndAttachments struct {
	Contents    []Content
	Attachments []Attachment
}

// AddContent appends one body chunk.
func (r *ContentAndAttachments) AddContent(contentType, data string) {
	r.Contents = append(r.Contents, Content{ContentType: contentType, Data: data})
}

// AddAttachment appends one attachment.
func (r *ContentAndAttachments) AddAttachment(a Attachment) {
	r.Attachments = append(r.Attachments, a)
}

// ContentByType returns the data of every chunk matching the pattern,
// joined with a newline when there is more than one.
func (r *ContentAndAttachments) ContentByType(pattern string) string {
	var parts []string
	for _, c := range r.Contents {
		if c.MatchesMimeType(pattern) {
			parts = append(parts, c.Data)
		}
	}
	return strings.Join(parts, "\n")
}
