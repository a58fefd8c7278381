package converter

import (
	"bytes"
	"log/slog"

	gomessage "github.com/emersion/go-message"

	"github.com/demail/demail/pkgs/message"
	"github.com/demail/demail/pkgs/transport"
)

// ProjectView maps a message handle into a MessageView without fetching
// the body. Subject, sender, recipients, size, dates and the transfer
// encoding are essential: a failed read aborts the projection. The seen
// flag is best-effort only; a failed read is logged and leaves the field
// unset.
func ProjectView(msg transport.Message, logger *slog.Logger) (*message.MessageView, error) {
	if logger == nil {
		logger = slog.Default()
	}

	view := &message.MessageView{ID: msg.SeqNum()}

	subject, err := msg.Subject()
	if err != nil {
		return nil, &message.ReadMessageError{
			Message: "the attempt to get the subject of the message has failed",
			Cause:   err,
		}
	}
	view.Subject = subject

	froms, err := msg.From()
	if err != nil {
		return nil, &message.ReadMessageError{
			Message: "the attempt to get the senders of the message has failed",
			Cause:   err,
		}
	}
	// A message can carry several senders; only the first one is kept.
	if len(froms) > 0 {
		view.Sender = &froms[0]
	}

	recipients, err := msg.To()
	if err != nil {
		return nil, &message.ReadMessageError{
			Message: "the attempt to get the recipients of the message has failed",
			Cause:   err,
		}
	}
	view.Recipients = recipients

	if seen, err := msg.IsSet(transport.FlagSeen); err != nil {
		logger.Warn("it is impossible to determine whether the message has been seen",
			"id", msg.SeqNum(), "error", err)
	} else {
		view.Seen = seen
	}

	size, err := msg.Size()
	if err != nil {
		return nil, &message.ReadMessageError{
			Message: "the attempt to get the size of the message has failed",
			Cause:   err,
		}
	}
	view.Size = size

	encoding, err := msg.TransferEncoding()
	if err != nil {
		return nil, &message.ReadMessageError{
			Message: "the attempt to get the transfer encoding of the message has failed",
			Cause:   err,
		}
	}
	view.TransferEncoder = message.TransferEncoderForName(encoding)

	sent, err := msg.SentDate()
	if err != nil {
		return nil, &message.ReadMessageError{
			Message: "the attempt to get the sent date of the message has failed",
			Cause:   err,
		}
	}
	view.SentDate = sent

	received, err := msg.ReceivedDate()
	if err != nil {
		return nil, &message.ReadMessageError{
			Message: "the attempt to get the received date of the message has failed",
			Cause:   err,
		}
	}
	view.ReceivedDate = received

	return view, nil
}

// ToIncoming fully reads one message: the view projection plus the
// flattened contents and attachments extracted from the message body.
func ToIncoming(msg transport.Message, logger *slog.Logger) (*message.IncomingMessage, error) {
	view, err := ProjectView(msg, logger)
	if err != nil {
		return nil, err
	}

	raw, err := msg.Raw()
	if err != nil {
		return nil, &message.ReadMessageError{
			Message: "the attempt to get the content of the message has failed",
			Cause:   err,
		}
	}

	entity, err := gomessage.Read(bytes.NewReader(raw))
	if err != nil && !gomessage.IsUnknownCharset(err) {
		return nil, &message.ReadMessageError{
			Message: "the message body couldn't be parsed",
			Cause:   err,
		}
	}

	result, err := Extract(entity)
	if err != nil {
		return nil, err
	}

	return &message.IncomingMessage{
		MessageView: *view,
		Contents:    result.Contents,
		Attachments: result.Attachments,
	}, nil
}
