// Package imaptransport implements the transport contract over IMAP
// using go-imap v2.
package imaptransport

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"
	gomessage "github.com/emersion/go-message"

	"github.com/demail/demail/pkgs/message"
	"github.com/demail/demail/pkgs/transport"
)

// Config holds the IMAP connection settings. It is passed once to
// Connect and never mutated.
type Config struct {
	Host     string
	Port     int
	Email    string
	Password string

	// SSL enables implicit TLS (connect directly over TLS).
	SSL bool
	// StartTLS enables opportunistic TLS upgrade after connecting in plaintext.
	StartTLS bool

	// Debug dumps the protocol exchange to stderr.
	Debug bool
}

// Store is a connected IMAP session implementing transport.Store.
type Store struct {
	config Config
	client *imapclient.Client
}

var _ transport.Store = (*Store)(nil)

// Connect dials the IMAP server and authenticates.
func Connect(config Config) (*Store, error) {
	addr := fmt.Sprintf("%s:%d", config.Host, config.Port)

	opts := &imapclient.Options{}
	if config.Debug {
		opts.DebugWriter = os.Stderr
	}

	var client *imapclient.Client
	var err error
	switch {
	case config.SSL:
		client, err = imapclient.DialTLS(addr, opts)
	case config.StartTLS:
		client, err = imapclient.DialStartTLS(addr, opts)
	default:
		client, err = imapclient.DialInsecure(addr, opts)
	}
	if err != nil {
		return nil, &message.SessionError{
			Message: fmt.Sprintf("failed to connect to IMAP server %s", addr),
			Cause:   err,
		}
	}

	if err := client.Login(config.Email, config.Password).Wait(); err != nil {
		client.Close()
		return nil, &message.SessionError{Message: "IMAP authentication failed", Cause: err}
	}

	return &Store{config: config, client: client}, nil
}

// Open selects the named folder. ReadOnly maps to EXAMINE semantics.
func (s *Store) Open(folderName string, mode transport.FolderMode) (transport.Folder, error) {
	if s.client == nil {
		return nil, &message.SessionError{Message: "the IMAP store is not connected"}
	}

	selectData, err := s.client.Select(folderName, &imap.SelectOptions{
		ReadOnly: mode == transport.ReadOnly,
	}).Wait()
	if err != nil {
		return nil, &message.FolderOperationError{
			Folder:  folderName,
			Message: fmt.Sprintf("the folder %s couldn't be opened", folderName),
			Cause:   err,
		}
	}

	return &folder{
		store:       s,
		name:        folderName,
		mode:        mode,
		numMessages: int(selectData.NumMessages),
	}, nil
}

// Close logs out and releases the connection.
func (s *Store) Close() error {
	if s.client == nil {
		return nil
	}
	err := s.client.Logout().Wait()
	s.client = nil
	return err
}

// folder is a selected IMAP mailbox.
type folder struct {
	store       *Store
	name        string
	mode        transport.FolderMode
	numMessages int
	closed      bool
}

// headerSection fetches only the RFC 5322 header, without touching flags.
var headerSection = &imap.FetchItemBodySection{
	Specifier: imap.PartSpecifierHeader,
	Peek:      true,
}

func (f *folder) Name() string { return f.name }

func (f *folder) MessageCount() (int, error) {
	return f.numMessages, nil
}

func (f *folder) Fetch(start, end int) ([]transport.Message, error) {
	if start > end || end < 1 {
		return nil, nil
	}

	var seqSet imap.SeqSet
	seqSet.AddRange(uint32(start), uint32(end))

	bufs, err := f.store.client.Fetch(seqSet, &imap.FetchOptions{
		Envelope:     true,
		Flags:        true,
		UID:          true,
		RFC822Size:   true,
		InternalDate: true,
		BodySection:  []*imap.FetchItemBodySection{headerSection},
	}).Collect()
	if err != nil {
		return nil, &message.FolderOperationError{
			Folder:  f.name,
			Message: fmt.Sprintf("failed to fetch messages %d:%d from folder %s", start, end, f.name),
			Cause:   err,
		}
	}

	msgs := make([]transport.Message, 0, len(bufs))
	for _, buf := range bufs {
		msgs = append(msgs, &imapMessage{folder: f, buf: buf})
	}
	return msgs, nil
}

func (f *folder) Message(id int) (transport.Message, error) {
	msgs, err := f.Fetch(id, id)
	if err != nil {
		return nil, err
	}
	if len(msgs) == 0 {
		return nil, &message.FolderOperationError{
			Folder:  f.name,
			Message: fmt.Sprintf("the message with id=%d was not found in folder %s", id, f.name),
		}
	}
	return msgs[0], nil
}

func (f *folder) Expunge() error {
	if _, err := f.store.client.Expunge().Collect(); err != nil {
		return &message.FolderOperationError{
			Folder:  f.name,
			Message: fmt.Sprintf("the folder %s couldn't be expunged", f.name),
			Cause:   err,
		}
	}
	return nil
}

// Close unselects the mailbox. UNSELECT is used instead of CLOSE so that
// closing never expunges implicitly.
func (f *folder) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	if err := f.store.client.Unselect().Wait(); err != nil {
		return fmt.Errorf("failed to close folder %s: %w", f.name, err)
	}
	return nil
}

// imapMessage is a handle onto one fetched message. The envelope, flags
// and header are already buffered; the full body is fetched lazily.
type imapMessage struct {
	folder *folder
	buf    *imapclient.FetchMessageBuffer
	raw    []byte
}

func (m *imapMessage) SeqNum() int { return int(m.buf.SeqNum) }

func (m *imapMessage) Subject() (string, error) {
	env, err := m.envelope()
	if err != nil {
		return "", err
	}
	return env.Subject, nil
}

func (m *imapMessage) From() ([]message.Participant, error) {
	env, err := m.envelope()
	if err != nil {
		return nil, err
	}
	return convertAddresses(env.From), nil
}

func (m *imapMessage) To() ([]message.Participant, error) {
	env, err := m.envelope()
	if err != nil {
		return nil, err
	}
	return convertAddresses(env.To), nil
}

func (m *imapMessage) Size() (int64, error) {
	if m.buf.RFC822Size > 0 {
		return m.buf.RFC822Size, nil
	}
	// Servers that omit RFC822.SIZE: fall back to the header length.
	return int64(len(m.buf.FindBodySection(headerSection))), nil
}

func (m *imapMessage) SentDate() (*time.Time, error) {
	env, err := m.envelope()
	if err != nil {
		return nil, err
	}
	if env.Date.IsZero() {
		return nil, nil
	}
	date := env.Date
	return &date, nil
}

func (m *imapMessage) ReceivedDate() (*time.Time, error) {
	if m.buf.InternalDate.IsZero() {
		return nil, nil
	}
	date := m.buf.InternalDate
	return &date, nil
}

func (m *imapMessage) TransferEncoding() (string, error) {
	hdr := m.buf.FindBodySection(headerSection)
	if len(hdr) == 0 {
		return "", nil
	}
	entity, err := gomessage.Read(bytes.NewReader(hdr))
	if err != nil {
		return "", fmt.Errorf("failed to parse headers of message %d: %w", m.buf.SeqNum, err)
	}
	return entity.Header.Get("Content-Transfer-Encoding"), nil
}

func (m *imapMessage) IsSet(flag transport.Flag) (bool, error) {
	want := imapFlag(flag)
	for _, f := range m.buf.Flags {
		if f == want {
			return true, nil
		}
	}
	return false, nil
}

func (m *imapMessage) SetFlag(flag transport.Flag, value bool) error {
	op := imap.StoreFlagsAdd
	if !value {
		op = imap.StoreFlagsDel
	}

	seqSet := imap.SeqSetNum(m.buf.SeqNum)
	err := m.folder.store.client.Store(seqSet, &imap.StoreFlags{
		Op:     op,
		Silent: true,
		Flags:  []imap.Flag{imapFlag(flag)},
	}, nil).Close()
	if err != nil {
		return fmt.Errorf("failed to store the %s flag on message %d: %w", flag, m.buf.SeqNum, err)
	}
	return nil
}

// Raw fetches the full RFC 5322 bytes of the message. In read-write mode
// the fetch marks the message as seen, matching folder open semantics.
func (m *imapMessage) Raw() ([]byte, error) {
	if m.raw != nil {
		return m.raw, nil
	}

	bodySection := &imap.FetchItemBodySection{
		Peek: m.folder.mode == transport.ReadOnly,
	}
	bufs, err := m.folder.store.client.Fetch(imap.SeqSetNum(m.buf.SeqNum), &imap.FetchOptions{
		BodySection: []*imap.FetchItemBodySection{bodySection},
	}).Collect()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch the body of message %d: %w", m.buf.SeqNum, err)
	}
	if len(bufs) == 0 {
		return nil, fmt.Errorf("the body of message %d was not returned by the server", m.buf.SeqNum)
	}

	m.raw = bufs[0].FindBodySection(bodySection)
	return m.raw, nil
}

func (m *imapMessage) envelope() (*imap.Envelope, error) {
	if m.buf.Envelope == nil {
		return nil, fmt.Errorf("the envelope of message %d was not returned by the server", m.buf.SeqNum)
	}
	return m.buf.Envelope, nil
}

func convertAddresses(addrs []imap.Address) []message.Participant {
	result := make([]message.Participant, 0, len(addrs))
	for _, a := range addrs {
		result = append(result, message.Participant{
			Email: a.Addr(),
			Name:  a.Name,
		})
	}
	return result
}

func imapFlag(f transport.Flag) imap.Flag {
	switch f {
	case transport.FlagSeen:
		return imap.FlagSeen
	case transport.FlagDeleted:
		return imap.FlagDeleted
	}
	return imap.Flag(f)
}
