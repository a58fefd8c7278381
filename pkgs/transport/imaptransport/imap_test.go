package imaptransport

import (
	"errors"
	"net"
	"strconv"
	"strings"
	"testing"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"
	"github.com/emersion/go-imap/v2/imapserver"
	"github.com/emersion/go-imap/v2/imapserver/imapmemserver"

	"github.com/demail/demail/pkgs/message"
	"github.com/demail/demail/pkgs/transport"
)

const (
	imapTestUser = "testuser"
	imapTestPass = "testpass"
)

// newTestIMAPServer starts an in-memory IMAP server and returns the listen
// address. The server is shut down via t.Cleanup.
func newTestIMAPServer(t *testing.T) string {
	t.Helper()

	memSrv := imapmemserver.New()
	user := imapmemserver.NewUser(imapTestUser, imapTestPass)
	user.Create("INBOX", nil)
	memSrv.AddUser(user)

	srv := imapserver.New(&imapserver.Options{
		NewSession: func(_ *imapserver.Conn) (imapserver.Session, *imapserver.GreetingData, error) {
			return memSrv.NewSession(), nil, nil
		},
		InsecureAuth: true,
		Caps: imap.CapSet{
			imap.CapIMAP4rev1: {},
			imap.CapUnselect:  {},
		},
	})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	go srv.Serve(ln)
	t.Cleanup(func() { srv.Close() })

	return ln.Addr().String()
}

// appendTestMail appends a raw RFC 5322 message to the given mailbox via
// a direct IMAP client (not through the transport under test).
func appendTestMail(t *testing.T, addr, mailbox, rawMsg string) {
	t.Helper()

	conn, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatal(err)
	}
	c := imapclient.New(conn, nil)
	if err := c.Login(imapTestUser, imapTestPass).Wait(); err != nil {
		t.Fatal(err)
	}

	appendCmd := c.Append(mailbox, int64(len(rawMsg)), nil)
	if _, err := appendCmd.Write([]byte(rawMsg)); err != nil {
		t.Fatal(err)
	}
	if err := appendCmd.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := appendCmd.Wait(); err != nil {
		t.Fatal(err)
	}
	c.Close()
}

func splitHostPort(t *testing.T, addr string) (string, int) {
	t.Helper()
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		t.Fatal(err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		t.Fatal(err)
	}
	return host, port
}

// connectTestStore connects a Store to the test server.
func connectTestStore(t *testing.T, addr string) *Store {
	t.Helper()
	host, port := splitHostPort(t, addr)
	store, err := Connect(Config{
		Host:     host,
		Port:     port,
		Email:    imapTestUser,
		Password: imapTestPass,
	})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

const testMailPlain = "MIME-Version: 1.0\r\n" +
	"From: Sender <sender@example.com>\r\n" +
	"To: rcpt@example.com\r\n" +
	"Subject: Test Subject\r\n" +
	"Date: Mon, 10 Feb 2026 08:00:00 +0000\r\n" +
	"Message-Id: <test-1@example.com>\r\n" +
	"Content-Type: text/plain; charset=utf-8\r\n" +
	"Content-Transfer-Encoding: quoted-printable\r\n" +
	"\r\n" +
	"Hello, World!"

func TestConnect(t *testing.T) {
	addr := newTestIMAPServer(t)
	host, port := splitHostPort(t, addr)

	store, err := Connect(Config{
		Host:     host,
		Port:     port,
		Email:    imapTestUser,
		Password: imapTestPass,
	})
	if err != nil {
		t.Fatalf("Connect() error: %v", err)
	}
	store.Close()
}

func TestConnect_BadCredentials(t *testing.T) {
	addr := newTestIMAPServer(t)
	host, port := splitHostPort(t, addr)

	_, err := Connect(Config{
		Host:     host,
		Port:     port,
		Email:    "wrong",
		Password: "wrong",
	})
	var sessionErr *message.SessionError
	if !errors.As(err, &sessionErr) {
		t.Fatalf("expected SessionError, got %v", err)
	}
}

func TestOpenAndFetchFields(t *testing.T) {
	addr := newTestIMAPServer(t)
	appendTestMail(t, addr, "INBOX", testMailPlain)
	store := connectTestStore(t, addr)

	f, err := store.Open("INBOX", transport.ReadOnly)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer f.Close()

	if f.Name() != "INBOX" {
		t.Errorf("Name() = %q", f.Name())
	}
	count, err := f.MessageCount()
	if err != nil || count != 1 {
		t.Fatalf("MessageCount() = %d, %v; want 1", count, err)
	}

	msgs, err := f.Fetch(1, 1)
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if len(msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(msgs))
	}
	msg := msgs[0]

	if msg.SeqNum() != 1 {
		t.Errorf("SeqNum() = %d", msg.SeqNum())
	}
	if subject, err := msg.Subject(); err != nil || subject != "Test Subject" {
		t.Errorf("Subject() = %q, %v", subject, err)
	}
	if from, err := msg.From(); err != nil || len(from) != 1 || from[0].Email != "sender@example.com" || from[0].Name != "Sender" {
		t.Errorf("From() = %+v, %v", from, err)
	}
	if to, err := msg.To(); err != nil || len(to) != 1 || to[0].Email != "rcpt@example.com" {
		t.Errorf("To() = %+v, %v", to, err)
	}
	if size, err := msg.Size(); err != nil || size == 0 {
		t.Errorf("Size() = %d, %v; want non-zero", size, err)
	}
	if sent, err := msg.SentDate(); err != nil || sent == nil {
		t.Errorf("SentDate() = %v, %v", sent, err)
	}
	if received, err := msg.ReceivedDate(); err != nil || received == nil {
		t.Errorf("ReceivedDate() = %v, %v", received, err)
	}
	if enc, err := msg.TransferEncoding(); err != nil || !strings.EqualFold(enc, "quoted-printable") {
		t.Errorf("TransferEncoding() = %q, %v", enc, err)
	}
	if seen, err := msg.IsSet(transport.FlagSeen); err != nil || seen {
		t.Errorf("IsSet(seen) = %v, %v; want false", seen, err)
	}
}

func TestFetch_InvertedRange(t *testing.T) {
	addr := newTestIMAPServer(t)
	store := connectTestStore(t, addr)

	f, err := store.Open("INBOX", transport.ReadOnly)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	msgs, err := f.Fetch(3, 1)
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if len(msgs) != 0 {
		t.Errorf("expected empty result for an inverted range, got %d", len(msgs))
	}
}

func TestMessage_NotFound(t *testing.T) {
	addr := newTestIMAPServer(t)
	appendTestMail(t, addr, "INBOX", testMailPlain)
	store := connectTestStore(t, addr)

	f, err := store.Open("INBOX", transport.ReadOnly)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	_, err = f.Message(99)
	var folderErr *message.FolderOperationError
	if !errors.As(err, &folderErr) {
		t.Fatalf("expected FolderOperationError, got %v", err)
	}
}

func TestOpen_MissingFolder(t *testing.T) {
	addr := newTestIMAPServer(t)
	store := connectTestStore(t, addr)

	_, err := store.Open("NoSuchFolder", transport.ReadOnly)
	var folderErr *message.FolderOperationError
	if !errors.As(err, &folderErr) {
		t.Fatalf("expected FolderOperationError, got %v", err)
	}
	if folderErr.Folder != "NoSuchFolder" {
		t.Errorf("Folder = %q", folderErr.Folder)
	}
}

func TestRaw_ReadOnlyKeepsUnseen(t *testing.T) {
	addr := newTestIMAPServer(t)
	appendTestMail(t, addr, "INBOX", testMailPlain)
	store := connectTestStore(t, addr)

	f, err := store.Open("INBOX", transport.ReadOnly)
	if err != nil {
		t.Fatal(err)
	}
	msg, err := f.Message(1)
	if err != nil {
		t.Fatal(err)
	}

	raw, err := msg.Raw()
	if err != nil {
		t.Fatalf("Raw() error: %v", err)
	}
	if !strings.Contains(string(raw), "Hello, World!") {
		t.Errorf("raw message doesn't carry the body: %q", raw)
	}
	f.Close()

	f2, err := store.Open("INBOX", transport.ReadOnly)
	if err != nil {
		t.Fatal(err)
	}
	defer f2.Close()
	msg2, err := f2.Message(1)
	if err != nil {
		t.Fatal(err)
	}
	if seen, err := msg2.IsSet(transport.FlagSeen); err != nil || seen {
		t.Errorf("a read-only body fetch must not mark the message seen (seen=%v, err=%v)", seen, err)
	}
}

func TestRaw_ReadWriteMarksSeen(t *testing.T) {
	addr := newTestIMAPServer(t)
	appendTestMail(t, addr, "INBOX", testMailPlain)
	store := connectTestStore(t, addr)

	f, err := store.Open("INBOX", transport.ReadWrite)
	if err != nil {
		t.Fatal(err)
	}
	msg, err := f.Message(1)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := msg.Raw(); err != nil {
		t.Fatalf("Raw() error: %v", err)
	}
	f.Close()

	f2, err := store.Open("INBOX", transport.ReadOnly)
	if err != nil {
		t.Fatal(err)
	}
	defer f2.Close()
	msg2, err := f2.Message(1)
	if err != nil {
		t.Fatal(err)
	}
	if seen, err := msg2.IsSet(transport.FlagSeen); err != nil || !seen {
		t.Errorf("a read-write body fetch must mark the message seen (seen=%v, err=%v)", seen, err)
	}
}

func TestSetFlagAndExpunge(t *testing.T) {
	addr := newTestIMAPServer(t)
	appendTestMail(t, addr, "INBOX", testMailPlain)
	appendTestMail(t, addr, "INBOX", testMailPlain)
	store := connectTestStore(t, addr)

	f, err := store.Open("INBOX", transport.ReadWrite)
	if err != nil {
		t.Fatal(err)
	}
	msg, err := f.Message(1)
	if err != nil {
		t.Fatal(err)
	}
	if err := msg.SetFlag(transport.FlagDeleted, true); err != nil {
		t.Fatalf("SetFlag() error: %v", err)
	}
	if err := f.Expunge(); err != nil {
		t.Fatalf("Expunge() error: %v", err)
	}
	f.Close()

	f2, err := store.Open("INBOX", transport.ReadOnly)
	if err != nil {
		t.Fatal(err)
	}
	defer f2.Close()
	if count, err := f2.MessageCount(); err != nil || count != 1 {
		t.Errorf("MessageCount() after expunge = %d, %v; want 1", count, err)
	}
}

func TestStoreClose_Idempotent(t *testing.T) {
	addr := newTestIMAPServer(t)
	store := connectTestStore(t, addr)

	if err := store.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Errorf("second Close() error: %v", err)
	}
	if _, err := store.Open("INBOX", transport.ReadOnly); err == nil {
		t.Error("Open() after Close() must fail")
	}
}
