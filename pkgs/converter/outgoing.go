package converter

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
	"time"

	gomail "github.com/emersion/go-message/mail"

	"github.com/demail/demail/pkgs/message"
)

// WriteMessage assembles an outgoing message into its wire form: one
// inline body part per content chunk and one attachment part per
// attachment, each with an explicit Content-Type header. Attachments
// without data are silently skipped.
func WriteMessage(w io.Writer, from message.Participant, out *message.OutgoingMessage) error {
	if out == nil {
		return &message.ValidationError{Message: "the outgoing message must not be nil"}
	}
	if from.Email == "" {
		return &message.ValidationError{Message: "the sender's email must not be empty"}
	}

	var header gomail.Header
	header.SetDate(time.Now())
	header.SetSubject(out.Subject)
	header.SetAddressList("From", []*gomail.Address{{Name: from.Name, Address: from.Email}})
	header.Set("Message-ID", GenerateMessageID(from.Email))

	if len(out.Recipients) > 0 {
		to := make([]*gomail.Address, len(out.Recipients))
		for i, r := range out.Recipients {
			to[i] = &gomail.Address{Name: r.Name, Address: r.Email}
		}
		header.SetAddressList("To", to)
	}

	attachments := nonEmptyAttachments(out)

	var (
		mw  *gomail.Writer
		iw  *gomail.InlineWriter
		err error
	)
	if len(attachments) == 0 {
		iw, err = gomail.CreateInlineWriter(w, header)
	} else {
		mw, err = gomail.CreateWriter(w, header)
		if err == nil {
			iw, err = mw.CreateInline()
		}
	}
	if err != nil {
		return &message.CreateMessageError{Message: "the message couldn't be created", Cause: err}
	}

	for _, content := range out.Contents {
		if err := writeInlinePart(iw, content); err != nil {
			return err
		}
	}
	if err := iw.Close(); err != nil {
		return &message.CreateMessageError{Message: "the message body couldn't be closed", Cause: err}
	}

	if mw != nil {
		for _, attachment := range attachments {
			if err := writeAttachmentPart(mw, attachment); err != nil {
				return err
			}
		}
		if err := mw.Close(); err != nil {
			return &message.CreateMessageError{Message: "the message couldn't be closed", Cause: err}
		}
	}

	return nil
}

// writeInlinePart writes one body chunk. The chunk's content type is set
// explicitly; the transport's charset inference is never relied on.
func writeInlinePart(iw *gomail.InlineWriter, content message.Content) error {
	var h gomail.InlineHeader
	h.Set("Content-Type", content.ContentType)

	pw, err := iw.CreatePart(h)
	if err != nil {
		return &message.CreateMessageError{Message: "a body part couldn't be created", Cause: err}
	}
	if _, err := io.WriteString(pw, content.Data); err != nil {
		pw.Close()
		return &message.CreateMessageError{Message: "a body part couldn't be written", Cause: err}
	}
	return pw.Close()
}

func writeAttachmentPart(mw *gomail.Writer, attachment message.Attachment) error {
	var h gomail.AttachmentHeader
	h.SetFilename(attachment.Name)
	h.Set("Content-Type", attachment.ContentType)

	aw, err := mw.CreateAttachment(h)
	if err != nil {
		return &message.CreateMessageError{Message: "an attachment part couldn't be created", Cause: err}
	}
	if _, err := aw.Write(attachment.Data); err != nil {
		aw.Close()
		return &message.CreateMessageError{Message: "an attachment part couldn't be written", Cause: err}
	}
	return aw.Close()
}

// nonEmptyAttachments filters out attachments without data. An attachment
// with no bytes carries nothing to send.
func nonEmptyAttachments(out *message.OutgoingMessage) []message.Attachment {
	result := make([]message.Attachment, 0, len(out.Attachments))
	for _, a := range out.Attachments {
		if len(a.Data) > 0 {
			result = append(result, a)
		}
	}
	return result
}

// GenerateMessageID produces an RFC 5322 compliant Message-ID using the
// domain extracted from the sender's email address.
// Format: <timestamp.random@domain>
func GenerateMessageID(fromEmail string) string {
	domain := "localhost"
	if idx := strings.Index(fromEmail, "@"); idx >= 0 {
		domain = fromEmail[idx+1:]
	}

	b := make([]byte, 8)
	_, _ = rand.Read(b)

	return fmt.Sprintf("<%d.%s@%s>", time.Now().UnixNano(), hex.EncodeToString(b), domain)
}
