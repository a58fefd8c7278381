package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/demail/demail/pkgs/config"
	"github.com/demail/demail/pkgs/receiver"
	"github.com/demail/demail/pkgs/sender"
	"github.com/demail/demail/pkgs/transport/imaptransport"
)

var (
	configPath string
	accountID  string
	folderName string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:           "demail",
	Short:         "Read, delete and send mailbox messages",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogger()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to the config file (defaults to $"+config.EnvConfigPath+")")
	rootCmd.PersistentFlags().StringVar(&accountID, "account", "",
		"Account name or email to use")
	rootCmd.PersistentFlags().StringVar(&folderName, "folder", "",
		"Folder to operate on (defaults to INBOX)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Verbose output")

	rootCmd.AddCommand(checkCmd, readCmd, countCmd, deleteCmd, deleteAllCmd, sendCmd, exportCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "demail:", err)
		os.Exit(1)
	}
}

func setupLogger() {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}

// loadAccount resolves the account from the config file and flags.
func loadAccount() (*config.AccountConfig, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	return cfg.GetAccount(accountID)
}

// connectStore connects to the account's IMAP server. The caller closes
// the returned store.
func connectStore(acc *config.AccountConfig) (*imaptransport.Store, error) {
	return imaptransport.Connect(imaptransport.Config{
		Host:     acc.IMAP.Host,
		Port:     acc.IMAP.Port,
		Email:    acc.Email,
		Password: acc.IMAP.Password,
		SSL:      acc.IMAP.SSL,
		StartTLS: acc.IMAP.StartTLS,
		Debug:    verbose,
	})
}

// openReceiver connects and wraps the store in a receiver client.
func openReceiver() (*receiver.Client, *imaptransport.Store, error) {
	acc, err := loadAccount()
	if err != nil {
		return nil, nil, err
	}
	store, err := connectStore(acc)
	if err != nil {
		return nil, nil, err
	}
	return receiver.New(store, slog.Default()), store, nil
}

// newSender builds an SMTP client for the account.
func newSender(acc *config.AccountConfig) *sender.Client {
	return sender.New(sender.Config{
		Host:     acc.SMTP.Host,
		Port:     acc.SMTP.Port,
		Email:    acc.Email,
		Password: acc.SMTP.Password,
		FromName: acc.FromName,
		SSL:      acc.SMTP.SSL,
		StartTLS: acc.SMTP.StartTLS,
	})
}
