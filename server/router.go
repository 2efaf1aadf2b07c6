package server

import (
	"encoding/json"
	"net/http"
)

// Router wires the demo endpoints onto a mux:
//
//	WS  /ws        echo hub
//	WS  /ws/shell  PTY shell bridge
//	GET /healthz   health check
func Router(hub *Hub, shell *ShellHandler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", hub.HandleWebSocket)
	mux.HandleFunc("/ws/shell", shell.HandleWebSocket)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"service": "sockscope",
			"status":  "ok",
		})
	})
	return mux
}
