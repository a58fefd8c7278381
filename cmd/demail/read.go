package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/demail/demail/pkgs/message"
)

var (
	pageStart int
	pageSize  int
)

func init() {
	for _, cmd := range []*cobra.Command{checkCmd, readCmd, exportCmd} {
		cmd.Flags().IntVar(&pageStart, "start", 0, "0-based offset of the first message")
		cmd.Flags().IntVar(&pageSize, "size", 20, "Number of messages per page")
	}
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "List message summaries without fetching bodies",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, store, err := openReceiver()
		if err != nil {
			return err
		}
		defer store.Close()

		views, err := client.CheckMessages(folderName, message.PageOf(pageStart, pageSize))
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tSEEN\tDATE\tFROM\tSUBJECT\tSIZE")
		for _, v := range views {
			seen := " "
			if v.Seen {
				seen = "*"
			}
			sender := ""
			if v.Sender != nil {
				sender = v.Sender.String()
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%d\n",
				v.ID, seen, formatDate(v.SentDate), sender, v.Subject, v.Size)
		}
		return w.Flush()
	},
}

var readCmd = &cobra.Command{
	Use:   "read [id]",
	Short: "Read full messages, bodies and attachments included",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, store, err := openReceiver()
		if err != nil {
			return err
		}
		defer store.Close()

		var msgs []*message.IncomingMessage
		if len(args) == 1 {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid message id %q", args[0])
			}
			msg, err := client.ReadMessageByID(folderName, id)
			if err != nil {
				return err
			}
			msgs = append(msgs, msg)
		} else {
			msgs, err = client.ReadMessages(folderName, message.PageOf(pageStart, pageSize))
			if err != nil {
				return err
			}
		}

		for i, m := range msgs {
			if i > 0 {
				fmt.Println("---")
			}
			printMessage(m)
		}
		return nil
	},
}

var countCmd = &cobra.Command{
	Use:   "count",
	Short: "Show the number of messages in the folder",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, store, err := openReceiver()
		if err != nil {
			return err
		}
		defer store.Close()

		total, err := client.TotalCount(folderName)
		if err != nil {
			return err
		}
		fmt.Println(total)
		return nil
	},
}

func printMessage(m *message.IncomingMessage) {
	fmt.Printf("Id:      %d\n", m.ID)
	if m.Sender != nil {
		fmt.Printf("From:    %s\n", m.Sender)
	}
	for _, r := range m.Recipients {
		fmt.Printf("To:      %s\n", r)
	}
	fmt.Printf("Subject: %s\n", m.Subject)
	if m.SentDate != nil {
		fmt.Printf("Date:    %s\n", m.SentDate.Format(time.RFC1123Z))
	}
	fmt.Println()
	fmt.Println(m.TextContent())
	for _, a := range m.Attachments {
		fmt.Printf("[attachment: %s (%s, %d bytes)]\n", a.Name, a.ContentType, a.Size)
	}
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02 15:04")
}
