package main

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/demail/demail/pkgs/message"
)

var (
	sendTo       []string
	sendSubject  string
	sendText     string
	sendHTML     string
	sendTemplate string
	sendParams   []string
	sendAttach   []string
)

func init() {
	sendCmd.Flags().StringSliceVar(&sendTo, "to", nil, "Recipient address (repeatable)")
	sendCmd.Flags().StringVar(&sendSubject, "subject", "", "Message subject")
	sendCmd.Flags().StringVar(&sendText, "text", "", "Plain text body")
	sendCmd.Flags().StringVar(&sendHTML, "html", "", "HTML body")
	sendCmd.Flags().StringVar(&sendTemplate, "template", "", "Path to a body template")
	sendCmd.Flags().StringSliceVar(&sendParams, "param", nil, "Template parameter as key=value (repeatable)")
	sendCmd.Flags().StringSliceVar(&sendAttach, "attach", nil, "Path to a file to attach (repeatable)")
	sendCmd.MarkFlagRequired("to")
}

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send a message",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		acc, err := loadAccount()
		if err != nil {
			return err
		}

		recipients := make([]message.Participant, 0, len(sendTo))
		for _, to := range sendTo {
			p, err := message.NewParticipant(to)
			if err != nil {
				return err
			}
			recipients = append(recipients, p)
		}

		out, err := buildOutgoing(recipients)
		if err != nil {
			return err
		}

		for _, path := range sendAttach {
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read attachment %s: %w", path, err)
			}
			contentType := mime.TypeByExtension(filepath.Ext(path))
			if contentType == "" {
				contentType = "application/octet-stream"
			}
			out.AddAttachment(message.NewAttachment(filepath.Base(path), contentType, data))
		}

		return newSender(acc).Send(out)
	},
}

func buildOutgoing(recipients []message.Participant) (*message.OutgoingMessage, error) {
	switch {
	case sendTemplate != "":
		contentType := message.ContentTypeText
		if sendHTML != "" || strings.HasSuffix(sendTemplate, ".html") {
			contentType = message.ContentTypeHTML
		}
		return message.NewTemplatedMessage(sendSubject, sendTemplate, parseParams(sendParams), contentType, recipients...)
	case sendHTML != "":
		return message.NewHTMLMessage(sendSubject, sendHTML, recipients...), nil
	default:
		return message.NewTextMessage(sendSubject, sendText, recipients...), nil
	}
}

func parseParams(params []string) map[string]any {
	result := make(map[string]any, len(params))
	for _, p := range params {
		key, value, _ := strings.Cut(p, "=")
		result[key] = value
	}
	return result
}
