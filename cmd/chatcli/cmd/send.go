package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var sendCmd = &cobra.Command{
	Use:   "send <text...>",
	Short: "Post a message",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text := strings.Join(args, " ")
		if strings.TrimSpace(text) == "" {
			return fmt.Errorf("message text is empty")
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
		defer cancel()

		msg, err := newClient().Send(ctx, text, displayName())
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "sent as %s (%s)\n", msg.User, msg.ID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sendCmd)
}
