// Profilehub - Personal Link Hub with Live Presence Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/profilehub

// Command statuswatch follows a profilehub presence stream from the
// terminal and prints each status change.
//
//	statuswatch --url http://localhost:3000/api/discord/status/stream
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomtom215/profilehub/internal/presence"
	"github.com/tomtom215/profilehub/internal/sse"
)

var (
	streamURL   string
	maxAttempts int
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:           "statuswatch",
	Short:         "Print live presence updates from a profilehub server",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		backoff := presence.DefaultBrowserBackoff()
		backoff.MaxAttempts = maxAttempts
		return watch(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr(), backoff)
	},
}

func init() {
	rootCmd.Flags().StringVar(&streamURL, "url", "http://localhost:3000/api/discord/status/stream", "presence stream URL")
	rootCmd.Flags().IntVar(&maxAttempts, "max-attempts", 5, "reconnect attempts before giving up")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "report connection changes")
}

func watch(ctx context.Context, out, errOut io.Writer, backoff presence.Backoff) error {
	client := sse.NewClient(streamURL, backoff, sse.WithConnHook(func(ev sse.ConnEvent) {
		if !verbose {
			return
		}
		switch {
		case ev.Connected:
			fmt.Fprintln(errOut, "connected")
		case ev.Delay > 0:
			fmt.Fprintf(errOut, "disconnected (%v), retry %d in %v\n", ev.Err, ev.Attempt, ev.Delay)
		}
	}))

	err := client.Watch(ctx, func(s *presence.Snapshot) {
		fmt.Fprintln(out, formatSnapshot(time.Now(), s))
	})
	if ctx.Err() != nil {
		return nil
	}
	return err
}

func formatSnapshot(now time.Time, s *presence.Snapshot) string {
	name := s.User.Username
	if s.User.GlobalName != nil && *s.User.GlobalName != "" {
		name = *s.User.GlobalName
	}
	line := fmt.Sprintf("[%s] %s is %s", now.Format("15:04:05"), name, s.Status)
	if text, ok := s.CustomStatus(); ok && text != "" {
		line += ": " + text
	}
	return line
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "statuswatch:", err)
		os.Exit(1)
	}
}
