// Package transport defines the abstract mailbox transport consumed by
// the access layer: a connected store that opens folders, folders that
// fetch and expunge messages, and per-message accessors. The IMAP
// implementation lives in the imaptransport subpackage.
package transport

import (
	"time"

	"github.com/demail/demail/pkgs/message"
)

// FolderMode is the mode a folder is opened in.
type FolderMode int

const (
	ReadOnly FolderMode = iota
	ReadWrite
)

func (m FolderMode) String() string {
	if m == ReadWrite {
		return "read-write"
	}
	return "read-only"
}

// Flag is a message flag the access layer cares about.
type Flag string

const (
	FlagSeen    Flag = "seen"
	FlagDeleted Flag = "deleted"
)

// Store is a connected mailbox session bound to one account. A Store is
// not safe for concurrent use; callers serialize access per account.
type Store interface {
	// Open opens the named folder in the given mode. The caller must
	// close the returned folder on every exit path.
	Open(folderName string, mode FolderMode) (Folder, error)

	// Close releases the session.
	Close() error
}

// Folder is an open mailbox folder. Message ids are 1-based sequence
// numbers and are reassigned after an expunge.
type Folder interface {
	Name() string

	// MessageCount returns the live number of messages in the folder.
	MessageCount() (int, error)

	// Fetch returns handles for the 1-based inclusive range [start, end],
	// without fetching message bodies. An inverted range (start > end)
	// returns an empty slice.
	Fetch(start, end int) ([]Message, error)

	// Message returns a handle for a single sequence number.
	Message(id int) (Message, error)

	// Expunge permanently removes messages flagged deleted and renumbers
	// the rest.
	Expunge() error

	// Close closes the folder without expunging.
	Close() error
}

// Message is a handle onto one message in an open folder. Field accessors
// may hit the transport and return its errors; Raw fetches the full
// RFC 5322 bytes on demand.
type Message interface {
	SeqNum() int
	Subject() (string, error)
	From() ([]message.Participant, error)
	To() ([]message.Participant, error)
	Size() (int64, error)
	SentDate() (*time.Time, error)
	ReceivedDate() (*time.Time, error)
	TransferEncoding() (string, error)
	IsSet(flag Flag) (bool, error)
	SetFlag(flag Flag, value bool) error
	Raw() ([]byte, error)
}
