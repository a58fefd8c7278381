// Package converter turns protocol-level messages into the flat
// content-plus-attachment model and back. Extract is the incoming
// direction, WriteMessage the outgoing one.
package converter

import (
	"io"
	"mime"
	"strings"
	"unicode/utf8"

	gomessage "github.com/emersion/go-message"
	gomail "github.com/emersion/go-message/mail"

	"github.com/demail/demail/pkgs/message"
)

// Extract recursively walks the MIME tree of the given entity and
// flattens it into body chunks and attachments, both in pre-order
// traversal order. Any read failure aborts the whole walk; no partial
// snapshot is returned.
func Extract(entity *gomessage.Entity) (*message.ContentAndAttachments, error) {
	result := &message.ContentAndAttachments{}
	if err := extractPart(entity, result); err != nil {
		return nil, err
	}
	return result, nil
}

// extractPart resolves one part. Disposition and MIME type decide first;
// attachment-kind classification is subordinate to them, so an inline
// part with a non-text, non-multipart type still routes to attachment
// extraction. Everything else falls back to an opaque content chunk.
func extractPart(part *gomessage.Entity, result *message.ContentAndAttachments) error {
	disposition, _, _ := part.Header.ContentDisposition()
	mediaType, params, err := part.Header.ContentType()
	if err != nil {
		// Malformed Content-Type header: keep the raw value for the
		// chunk and let the default extraction handle the body.
		mediaType = ""
	}
	contentType := formatContentType(part, mediaType, params)

	if disposition != "attachment" {
		if message.MatchMimeType(contentType, "text/*") {
			data, err := readText(part.Body, params["charset"])
			if err != nil {
				return &message.ReadMessageError{
					Message: "an error occurred in getting content from the message",
					Cause:   err,
				}
			}
			result.AddContent(contentType, data)
			return nil
		}

		// A nested message: walk it as if it were a part of its own.
		if message.MatchMimeType(contentType, "message/rfc822") {
			embedded, err := gomessage.Read(part.Body)
			if err != nil && !gomessage.IsUnknownCharset(err) {
				return &message.ReadMessageError{
					Message: "an error occurred in reading a nested message",
					Cause:   err,
				}
			}
			return extractPart(embedded, result)
		}

		if mr := part.MultipartReader(); mr != nil {
			for {
				child, err := mr.NextPart()
				if err == io.EOF {
					break
				}
				if err != nil && !gomessage.IsUnknownCharset(err) {
					return &message.ReadMessageError{
						Message: "an error occurred in walking the parts of the message",
						Cause:   err,
					}
				}
				if err := extractPart(child, result); err != nil {
					return err
				}
			}
			return nil
		}
	}

	if message.FindAttachmentType(contentType) != message.AttachmentUnknown {
		attachment, err := extractAttachment(part, contentType)
		if err != nil {
			return err
		}
		if attachment != nil {
			result.AddAttachment(*attachment)
		}
		return nil
	}

	data, err := defaultContent(part, params["charset"])
	if err != nil {
		return err
	}
	result.AddContent(contentType, data)
	return nil
}

// extractAttachment reads the part's payload into an Attachment. A part
// with no payload yields nil: an attachment without bytes is treated as
// absent.
func extractAttachment(part *gomessage.Entity, contentType string) (*message.Attachment, error) {
	data, err := io.ReadAll(part.Body)
	if err != nil {
		return nil, &message.ReadMessageError{
			Message: "an error occurred in getting an attachment from the message",
			Cause:   err,
		}
	}
	if len(data) == 0 {
		return nil, nil
	}

	header := gomail.AttachmentHeader{Header: part.Header}
	name, _ := header.Filename()

	attachment := message.NewAttachment(name, contentType, data)
	return &attachment, nil
}

// defaultContent is the fallback extraction strategy for parts no other
// rule resolved: the body is read, decoded as text and line-joined with
// "\n" separators.
func defaultContent(part *gomessage.Entity, charset string) (string, error) {
	data, err := readText(part.Body, charset)
	if err != nil {
		return "", &message.ReadMessageError{
			Message: "an error occurred in getting content from the message",
			Cause:   err,
		}
	}
	return data, nil
}

// readText reads a body stream and decodes it into UTF-8 text with
// "\n" line separators.
func readText(body io.Reader, charset string) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	text := string(data)
	if !utf8.Valid(data) {
		// The entity reader leaves bodies with unknown charsets raw;
		// decode them through the charset table.
		text = decodeText(data, charset)
	}
	return strings.ReplaceAll(text, "\r\n", "\n"), nil
}

// formatContentType reconstructs the full content-type header value,
// parameters included. When parsing failed the raw header value is kept
// so that loose matching still works downstream.
func formatContentType(part *gomessage.Entity, mediaType string, params map[string]string) string {
	if mediaType == "" {
		if raw := part.Header.Get("Content-Type"); raw != "" {
			return raw
		}
		return "text/plain"
	}
	if len(params) == 0 {
		return mediaType
	}
	if formatted := mime.FormatMediaType(mediaType, params); formatted != "" {
		return formatted
	}
	return mediaType
}
