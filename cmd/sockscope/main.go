package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "sockscope",
	Short: "WebSocket connection diagnostics",
	Long: `sockscope attaches a diagnostics overlay to a WebSocket endpoint:
a bounded trailing log of lifecycle and message events, plus an
interactive probe for sending test messages.

Example:
  sockscope serve &               # local echo target on :8080
  sockscope tap ws://localhost:8080/ws`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
