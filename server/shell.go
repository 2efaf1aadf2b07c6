package server

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"os"
	"os/exec"

	"github.com/creack/pty"
	"github.com/gorilla/websocket"
)

// ShellHandler bridges a command running under a PTY over a WebSocket, so
// the tap tool has an interactive target producing real traffic. Binary
// frames carry terminal output, text frames carry input, and a JSON resize
// message adjusts the PTY size.
type ShellHandler struct {
	upgrader websocket.Upgrader
	command  string
}

// NewShellHandler creates a handler running command for each connection.
// An empty command falls back to $SHELL, then /bin/sh.
func NewShellHandler(command string) *ShellHandler {
	return &ShellHandler{
		upgrader: websocket.Upgrader{
			CheckOrigin:     func(r *http.Request) bool { return true },
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		command: resolveCommand(command),
	}
}

// ResizeMessage represents a terminal resize request.
type ResizeMessage struct {
	Type string `json:"type"`
	Cols uint16 `json:"cols"`
	Rows uint16 `json:"rows"`
}

// Command returns the command launched per connection.
func (h *ShellHandler) Command() string {
	return h.command
}

// HandleWebSocket runs one command under a PTY for the connection's
// lifetime.
func (h *ShellHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[pty] upgrade error: %v", err)
		return
	}
	defer conn.Close()

	cmd := exec.Command(h.command)
	ptmx, err := pty.Start(cmd)
	if err != nil {
		_ = conn.WriteMessage(websocket.TextMessage, []byte("failed to start "+h.command+": "+err.Error()))
		return
	}
	defer func() {
		_ = cmd.Process.Kill()
		ptmx.Close()
	}()

	_ = pty.Setsize(ptmx, &pty.Winsize{Rows: 24, Cols: 80})

	// PTY → WebSocket
	go func() {
		buf := make([]byte, 4096)
		for {
			n, err := ptmx.Read(buf)
			if err != nil {
				if err != io.EOF {
					log.Printf("[pty] read error: %v", err)
				}
				conn.Close()
				return
			}
			if err := conn.WriteMessage(websocket.BinaryMessage, buf[:n]); err != nil {
				return
			}
		}
	}()

	// WebSocket → PTY
	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[pty] read error: %v", err)
			}
			return
		}

		if messageType == websocket.TextMessage {
			var msg ResizeMessage
			if json.Unmarshal(data, &msg) == nil && msg.Type == "resize" {
				if err := pty.Setsize(ptmx, &pty.Winsize{Rows: msg.Rows, Cols: msg.Cols}); err != nil {
					log.Printf("[pty] resize error: %v", err)
				}
				continue
			}
		}

		if _, err := ptmx.Write(data); err != nil {
			log.Printf("[pty] write error: %v", err)
			return
		}
	}
}

// resolveCommand picks the per-connection command.
func resolveCommand(command string) string {
	if command != "" {
		return command
	}
	if sh := os.Getenv("SHELL"); sh != "" {
		return sh
	}
	return "/bin/sh"
}
