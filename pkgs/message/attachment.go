package message

// AttachmentType classifies an attachment by its content type.
type AttachmentType string

const (
	AttachmentImage       AttachmentType = "image"
	AttachmentVideo       AttachmentType = "video"
	AttachmentAudio       AttachmentType = "audio"
	AttachmentDocument    AttachmentType = "document"
	AttachmentApplication AttachmentType = "application"
	AttachmentText        AttachmentType = "text"
	AttachmentUnknown     AttachmentType = "unknown"
)

// attachmentPatterns maps content-type patterns to attachment kinds.
// Order matters: document patterns are checked before the generic
// application/* pattern.
var attachmentPatterns = []struct {
	kind     AttachmentType
	patterns []string
}{
	{AttachmentImage, []string{"image/*"}},
	{AttachmentVideo, []string{"video/*"}},
	{AttachmentAudio, []string{"audio/*"}},
	{AttachmentDocument, []string{
		"application/pdf",
		"application/msword",
		"application/vnd.*",
		"application/rtf",
		"text/csv",
	}},
	{AttachmentApplication, []string{"application/*"}},
	{AttachmentText, []string{"text/*"}},
}

// FindAttachmentType classifies the given content type, returning
// AttachmentUnknown when no known pattern matches.
func FindAttachmentType(contentType string) AttachmentType {
	for _, entry := range attachmentPatterns {
		for _, pattern := range entry.patterns {
			if MatchMimeType(contentType, pattern) {
				return entry.kind
			}
		}
	}
	return AttachmentUnknown
}

// Attachment is one extracted message attachment. Size always equals
// len(Data); an attachment with no data is never emitted by extraction.
type Attachment struct {
	Name        string
	ContentType string
	Type        AttachmentType
	Data        []byte
	Size        int64
}

// NewAttachment builds an Attachment, classifying its kind and recording
// the payload size.
func NewAttachment(name, contentType string, data []byte) Attachment {
	return Attachment{
		Name:        name,
		ContentType: contentType,
		Type:        FindAttachmentType(contentType),
		Data:        data,
		Size:        int64(len(data)),
	}
}
