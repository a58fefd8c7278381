package message

import "time"

// MessageView is a lightweight projection of one mailbox entry, built
// without fetching the message body.
//
// ID is the folder-local sequence number, not a stable identifier: an
// expunge renumbers the remaining messages.
type MessageView struct {
	ID      int
	Subject string

	// Sender is the first address of the From header only; messages with
	// several senders keep just the first. Nil when the header is absent.
	Sender *Participant

	// Recipients holds the To addresses.
	Recipients []Participant

	// Seen is best-effort: a failed flag read leaves it false instead of
	// failing the projection.
	Seen bool

	Size            int64
	SentDate        *time.Time
	ReceivedDate    *time.Time
	TransferEncoder TransferEncoder
}

// IncomingMessage is a fully read mailbox entry: the view plus the
// flattened content chunks and attachments.
type IncomingMessage struct {
	MessageView

	Contents    []Content
	Attachments []Attachment
}

// TextContent returns all text/plain chunks joined with a newline.
func (m *IncomingMessage) TextContent() string {
	return (&ContentAndAttachments{Contents: m.Contents}).ContentByType("text/plain")
}

// HTMLContent returns all text/html chunks joined with a newline.
func (m *IncomingMessage) HTMLContent() string {
	return (&ContentAndAttachments{Contents: m.Contents}).ContentByType("text/html")
}
