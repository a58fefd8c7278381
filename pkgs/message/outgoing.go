package message

import (
	"github.com/demail/demail/pkgs/template"
)

// OutgoingMessage is a message to be sent: a subject, the recipients, an
// ordered list of body chunks and the attachments. Plain, HTML and
// templated messages are all the same value; they differ only in the
// content type of their chunks.
type OutgoingMessage struct {
	Subject     string
	Recipients  []Participant
	Contents    []Content
	Attachments []Attachment
}

// NewTextMessage builds an outgoing message with one text/plain body.
func NewTextMessage(subject, body string, recipients ...Participant) *OutgoingMessage {
	return &OutgoingMessage{
		Subject:    subject,
		Recipients: recipients,
		Contents:   []Content{{ContentType: ContentTypeText, Data: body}},
	}
}

// NewHTMLMessage builds an outgoing message with one text/html body.
func NewHTMLMessage(subject, body string, recipients ...Participant) *OutgoingMessage {
	return &OutgoingMessage{
		Subject:    subject,
		Recipients: recipients,
		Contents:   []Content{{ContentType: ContentTypeHTML, Data: body}},
	}
}

// NewTemplatedMessage renders the template at pathToTemplate with params
// and builds an outgoing message from the result. The rendered chunk
// carries contentType, which must be ContentTypeText or ContentTypeHTML;
// HTML templates are rendered with contextual escaping.
func NewTemplatedMessage(subject, pathToTemplate string, params map[string]any, contentType string, recipients ...Participant) (*OutgoingMessage, error) {
	if pathToTemplate == "" {
		return nil, &ValidationError{Message: "the path to the template must not be empty"}
	}

	var (
		body string
		err  error
	)
	if MatchMimeType(contentType, "text/html") {
		body, err = template.RenderHTML(pathToTemplate, params)
	} else {
		body, err = template.Render(pathToTemplate, params)
	}
	if err != nil {
		return nil, &CreateMessageError{Message: "the message template couldn't be rendered", Cause: err}
	}

	return &OutgoingMessage{
		Subject:    subject,
		Recipients: recipients,
		Contents:   []Content{{ContentType: contentType, Data: body}},
	}, nil
}

// AddAttachment appends an attachment to the message.
func (m *OutgoingMessage) AddAttachment(a Attachment) *OutgoingMessage {
	m.Attachments = append(m.Attachments, a)
	return m
}
