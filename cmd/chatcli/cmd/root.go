package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/johndosdos/anonchat/internal/client"
)

var (
	serverURL string
	username  string
)

var rootCmd = &cobra.Command{
	Use:   "chatcli",
	Short: "Terminal client for anonchat",
	Long: `chatcli talks to an anonchat server over its HTTP API.

Available commands:
  watch    Poll the server and print new messages
  send     Post a single message

The server defaults to $CHAT_SERVER, or http://localhost:8080.`,
	SilenceUsage: true,
}

// Execute executes the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	defaultServer := os.Getenv("CHAT_SERVER")
	if defaultServer == "" {
		defaultServer = "http://localhost:8080"
	}

	rootCmd.PersistentFlags().StringVarP(&serverURL, "server", "s", defaultServer, "base URL of the chat server")
	rootCmd.PersistentFlags().StringVarP(&username, "user", "u", "", "display name (random Anon name if empty)")
}

func newClient() *client.Client {
	return client.New(serverURL)
}

func displayName() string {
	if username == "" {
		username = client.RandomName()
	}
	return username
}
