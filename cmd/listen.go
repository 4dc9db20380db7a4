package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/xingkongliang/text-to-speech-app/domain"
	"github.com/xingkongliang/text-to-speech-app/internal/websocket"
)

func newListenCommand() *cobra.Command {
	var (
		serverURL string
		token     string
	)

	cmd := &cobra.Command{
		Use:   "listen",
		Short: "Print synthesis events from a running server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			return websocket.Subscribe(ctx, serverURL, token,
				func(h websocket.HelloMessage) {
					fmt.Fprintf(out, "connected as %s\n", h.ClientID)
				},
				func(e domain.SynthesisEvent) {
					fmt.Fprintln(out, formatEvent(e))
				})
		},
	}

	cmd.Flags().StringVar(&serverURL, "url", "ws://localhost:8080/ws", "Event stream URL")
	cmd.Flags().StringVar(&token, "token", os.Getenv("SHELL_TOKEN"), "Shell token when the server requires one")

	return cmd
}

func formatEvent(e domain.SynthesisEvent) string {
	ts := e.Timestamp.Format(time.TimeOnly)
	switch e.Type {
	case domain.EventSynthesisCompleted:
		return fmt.Sprintf("%s %s job=%s path=%s bytes=%d", ts, e.Type, e.JobID, e.Path, e.Bytes)
	case domain.EventSynthesisFailed:
		return fmt.Sprintf("%s %s job=%s error=%q", ts, e.Type, e.JobID, e.Error)
	default:
		return fmt.Sprintf("%s %s job=%s voice=%s file=%s", ts, e.Type, e.JobID, e.Voice, e.FileName)
	}
}
