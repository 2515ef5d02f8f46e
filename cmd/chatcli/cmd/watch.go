package cmd

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/johndosdos/anonchat/internal/client"
	"github.com/johndosdos/anonchat/internal/model"
)

var pollInterval time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print new messages as they arrive",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		me := displayName()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "watching %s as %s (ctrl-c to stop)\n", serverURL, me)

		var tail client.Tail
		p := &client.Poller{
			Interval: pollInterval,
			Fetch:    newClient().List,
			OnMessages: func(msgs []model.Message) {
				for _, msg := range tail.Next(msgs) {
					printMessage(out, msg, me)
				}
			},
		}
		return p.Run(ctx)
	},
}

func printMessage(w io.Writer, msg model.Message, me string) {
	who := msg.User
	if who == me {
		who += " (you)"
	}
	at := time.UnixMilli(msg.Timestamp).Format(time.TimeOnly)
	fmt.Fprintf(w, "[%s] %s: %s\n", at, who, msg.Text)
}

func init() {
	watchCmd.Flags().DurationVarP(&pollInterval, "interval", "i", client.DefaultPollInterval, "poll interval")
	rootCmd.AddCommand(watchCmd)
}
