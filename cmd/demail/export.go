package main

import (
	"fmt"
	"os"
	"time"

	"github.com/emersion/go-mbox"
	"github.com/spf13/cobra"

	"github.com/demail/demail/pkgs/message"
	"github.com/demail/demail/pkgs/transport"
)

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Export a page of the folder to an mbox file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		acc, err := loadAccount()
		if err != nil {
			return err
		}
		store, err := connectStore(acc)
		if err != nil {
			return err
		}
		defer store.Close()

		name := folderName
		if name == "" {
			name = "INBOX"
		}
		folder, err := store.Open(name, transport.ReadOnly)
		if err != nil {
			return err
		}
		defer folder.Close()

		total, err := folder.MessageCount()
		if err != nil {
			return err
		}
		start, end := message.PageOf(pageStart, pageSize).Range(total)
		msgs, err := folder.Fetch(start, end)
		if err != nil {
			return err
		}

		f, err := os.Create(args[0])
		if err != nil {
			return fmt.Errorf("failed to create mbox file: %w", err)
		}
		defer f.Close()

		w := mbox.NewWriter(f)
		for _, msg := range msgs {
			if err := writeMboxMessage(w, msg); err != nil {
				return err
			}
		}
		if err := w.Close(); err != nil {
			return fmt.Errorf("failed to close mbox writer: %w", err)
		}

		fmt.Printf("exported %d messages to %s\n", len(msgs), args[0])
		return nil
	},
}

func writeMboxMessage(w *mbox.Writer, msg transport.Message) error {
	fromAddr := "unknown@unknown"
	if froms, err := msg.From(); err == nil && len(froms) > 0 {
		fromAddr = froms[0].Email
	}

	date := time.Now()
	if received, err := msg.ReceivedDate(); err == nil && received != nil {
		date = *received
	}

	raw, err := msg.Raw()
	if err != nil {
		return err
	}

	mw, err := w.CreateMessage(fromAddr, date)
	if err != nil {
		return fmt.Errorf("creating mbox message: %w", err)
	}
	if _, err := mw.Write(raw); err != nil {
		return fmt.Errorf("writing mbox message: %w", err)
	}
	return nil
}
