// Package sender delivers outgoing messages over SMTP.
package sender

import (
	"bytes"
	"crypto/tls"
	"fmt"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"

	"github.com/demail/demail/pkgs/converter"
	"github.com/demail/demail/pkgs/message"
)

// Config holds the SMTP connection settings. It is passed once to New
// and never mutated.
type Config struct {
	Host     string
	Port     int
	Email    string
	Password string

	// FromName is the display name used in the From header.
	FromName string

	// SSL enables implicit TLS (connect directly over TLS).
	SSL bool
	// StartTLS enables opportunistic TLS upgrade after connecting in plaintext.
	StartTLS bool
}

// Client is an SMTP sender bound to one account.
type Client struct {
	config Config
	client *smtp.Client
}

// New creates an SMTP client; the connection is established lazily on
// the first send.
func New(config Config) *Client {
	return &Client{config: config}
}

// Connect establishes a connection to the SMTP server and authenticates.
func (c *Client) Connect() error {
	addr := fmt.Sprintf("%s:%d", c.config.Host, c.config.Port)
	tlsCfg := &tls.Config{ServerName: c.config.Host}

	var client *smtp.Client
	var err error
	switch {
	case c.config.SSL:
		client, err = smtp.DialTLS(addr, tlsCfg)
	case c.config.StartTLS:
		client, err = smtp.DialStartTLS(addr, tlsCfg)
	default:
		client, err = smtp.Dial(addr)
	}
	if err != nil {
		return &message.SessionError{
			Message: fmt.Sprintf("failed to connect to SMTP server %s", addr),
			Cause:   err,
		}
	}

	if c.config.Password != "" {
		auth := sasl.NewPlainClient("", c.config.Email, c.config.Password)
		if err := client.Auth(auth); err != nil {
			client.Close()
			return &message.SessionError{Message: "SMTP authentication failed", Cause: err}
		}
	}

	c.client = client
	return nil
}

// Send assembles and delivers one outgoing message. The sender address
// is the account the client was configured with.
func (c *Client) Send(out *message.OutgoingMessage) error {
	if out == nil {
		return &message.ValidationError{Message: "the outgoing message must not be nil"}
	}
	if len(out.Recipients) == 0 {
		return &message.ValidationError{Message: "the outgoing message must have at least one recipient"}
	}

	if c.client == nil {
		if err := c.Connect(); err != nil {
			return err
		}
		defer c.Close()
	}

	from := message.Participant{Email: c.config.Email, Name: c.config.FromName}

	var buf bytes.Buffer
	if err := converter.WriteMessage(&buf, from, out); err != nil {
		return err
	}

	recipients := make([]string, len(out.Recipients))
	for i, r := range out.Recipients {
		recipients[i] = r.Email
	}

	if err := c.client.SendMail(from.Email, recipients, &buf); err != nil {
		return fmt.Errorf("failed to send the message: %w", err)
	}
	return nil
}

// Close closes the SMTP connection.
func (c *Client) Close() error {
	if c.client != nil {
		err := c.client.Close()
		c.client = nil
		return err
	}
	return nil
}
