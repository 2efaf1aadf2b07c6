package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/spf13/cobra"

	"sockscope/server"
)

var (
	servePort     int
	serveShellCmd string
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntVarP(&servePort, "port", "p", 8080, "Port to serve on")
	serveCmd.Flags().StringVar(&serveShellCmd, "shell-cmd", "", "Command for /ws/shell (default: $SHELL)")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a local WebSocket target to tap against",
	Long: `Starts a local demo server with an echo hub and a PTY shell bridge.

Example:
  sockscope serve                 # listen on :8080
  sockscope serve -p 3000
  sockscope tap ws://localhost:8080/ws`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	hub := server.NewHub()
	go hub.Run()

	shell := server.NewShellHandler(serveShellCmd)
	mux := server.Router(hub, shell)

	addr := fmt.Sprintf(":%d", servePort)
	log.Printf("sockscope demo server")
	log.Printf("  WS  /ws        - echo hub")
	log.Printf("  WS  /ws/shell  - PTY bridge (%s)", shell.Command())
	log.Printf("  GET /healthz   - health check")
	log.Printf("Listening on http://localhost%s", addr)

	if err := http.ListenAndServe(addr, mux); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
