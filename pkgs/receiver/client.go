// Package receiver is the mailbox access layer: paged reading and
// flag-based deletion over an abstract transport store. Every operation
// opens a folder, works on it, and closes it on every exit path; close
// failures are logged, never returned.
package receiver

import (
	"log/slog"

	"github.com/demail/demail/pkgs/converter"
	"github.com/demail/demail/pkgs/message"
	"github.com/demail/demail/pkgs/transport"
)

// DefaultInboxFolder is used when an operation gets an empty folder name.
const DefaultInboxFolder = "INBOX"

// Client reads and mutates one mailbox account through a transport
// store. It is synchronous and not safe for concurrent use; callers
// serialize access per account.
type Client struct {
	store  transport.Store
	logger *slog.Logger
}

// New creates a Client over a connected store. A nil logger means
// slog.Default().
func New(store transport.Store, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{store: store, logger: logger}
}

// CheckMessages returns lightweight views of one page of the folder,
// without fetching message bodies. The folder is opened read-only, so
// checking never alters message flags.
func (c *Client) CheckMessages(folderName string, page message.PageRequest) ([]message.MessageView, error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}

	var views []message.MessageView
	err := c.withFolder(folderName, transport.ReadOnly, func(f transport.Folder) error {
		msgs, err := c.fetchPage(f, page)
		if err != nil {
			return err
		}
		views = make([]message.MessageView, 0, len(msgs))
		for _, m := range msgs {
			view, err := converter.ProjectView(m, c.logger)
			if err != nil {
				return err
			}
			views = append(views, *view)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return views, nil
}

// ReadMessages fully reads one page of the folder: views plus extracted
// contents and attachments. The folder is opened read-write; reading a
// message marks it as seen.
func (c *Client) ReadMessages(folderName string, page message.PageRequest) ([]*message.IncomingMessage, error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}

	var result []*message.IncomingMessage
	err := c.withFolder(folderName, transport.ReadWrite, func(f transport.Folder) error {
		msgs, err := c.fetchPage(f, page)
		if err != nil {
			return err
		}
		result = make([]*message.IncomingMessage, 0, len(msgs))
		for _, m := range msgs {
			incoming, err := converter.ToIncoming(m, c.logger)
			if err != nil {
				return err
			}
			result = append(result, incoming)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ReadMessageByID fully reads the message with the given sequence number.
func (c *Client) ReadMessageByID(folderName string, id int) (*message.IncomingMessage, error) {
	if id < 1 {
		return nil, &message.ValidationError{Message: "the message id must be positive"}
	}

	var incoming *message.IncomingMessage
	err := c.withFolder(folderName, transport.ReadWrite, func(f transport.Folder) error {
		msg, err := f.Message(id)
		if err != nil {
			return err
		}
		incoming, err = converter.ToIncoming(msg, c.logger)
		return err
	})
	if err != nil {
		return nil, err
	}
	return incoming, nil
}

// TotalCount returns the number of messages currently in the folder.
func (c *Client) TotalCount(folderName string) (int, error) {
	var total int
	err := c.withFolder(folderName, transport.ReadOnly, func(f transport.Folder) error {
		var err error
		total, err = f.MessageCount()
		return err
	})
	if err != nil {
		return 0, err
	}
	return total, nil
}

// withFolder opens the folder in the given mode, runs fn, and closes the
// folder unconditionally before returning.
func (c *Client) withFolder(folderName string, mode transport.FolderMode, fn func(transport.Folder) error) error {
	if folderName == "" {
		folderName = DefaultInboxFolder
	}

	folder, err := c.store.Open(folderName, mode)
	if err != nil {
		return err
	}
	defer c.closeFolder(folder)

	return fn(folder)
}

// closeFolder closes the folder; a failed close is logged, never
// surfaced to the caller.
func (c *Client) closeFolder(folder transport.Folder) {
	if err := folder.Close(); err != nil {
		c.logger.Warn("the folder couldn't be closed",
			"folder", folder.Name(), "error", err)
	}
}

// fetchPage computes the bounded fetch range of the page against the
// folder's live message count and fetches it. The page is truncated at
// the folder boundary; a page past the end yields no messages.
func (c *Client) fetchPage(f transport.Folder, page message.PageRequest) ([]transport.Message, error) {
	total, err := f.MessageCount()
	if err != nil {
		return nil, &message.FolderOperationError{
			Folder:  f.Name(),
			Message: "getting the count of messages in the folder " + f.Name() + " has failed",
			Cause:   err,
		}
	}
	if total == 0 {
		return nil, nil
	}

	start, end := page.Range(total)
	if start > end {
		return nil, nil
	}
	return f.Fetch(start, end)
}
