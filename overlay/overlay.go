// Package overlay implements the connection diagnostics overlay: it bridges
// the lifecycle and message events of one WebSocket connection into a
// bounded trailing log rendered on a View, and exposes a manual probe for
// sending test messages through the managed connection.
package overlay

import (
	"errors"
	"log"
	"sync"

	"sockscope/logring"
	"sockscope/transport"
)

// errNotAttached is reported when a probe fires before Attach.
var errNotAttached = errors.New("overlay: no connection attached")

// View is the visual surface the overlay renders into. Implementations keep
// an ordered list of lines; the overlay enforces the visible capacity by
// evicting from the front.
type View interface {
	AppendLine(line string)
	RemoveOldest()
	LineCount() int
	ScrollToEnd()
}

// Config tunes the overlay. Zero values keep the classic behavior: five
// visible entries, payloads logged verbatim at any length.
type Config struct {
	// Capacity is the maximum number of visible log entries.
	Capacity int
	// MaxPayload truncates logged message payloads to this many bytes.
	// <= 0 disables truncation.
	MaxPayload int
}

// Overlay owns exactly one connection for its lifetime and mirrors that
// connection's events into the view. All mutations are serialized by a
// mutex: transport events arrive on the reader goroutine while probes come
// from the UI.
type Overlay struct {
	mu     sync.Mutex
	view   View
	ring   *logring.Ring
	ch     transport.Channel
	cfg    Config
	closed bool
}

// New creates an overlay rendering into view. Attach binds the connection.
func New(view View, cfg Config) *Overlay {
	if cfg.Capacity <= 0 {
		cfg.Capacity = logring.DefaultCapacity
	}
	return &Overlay{
		view: view,
		ring: logring.New(cfg.Capacity),
		cfg:  cfg,
	}
}

// Attach binds the single connection this overlay manages.
func (o *Overlay) Attach(ch transport.Channel) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.ch = ch
}

// Events returns the transport callbacks that feed the log. The returned
// struct may be copied and individual callbacks wrapped before dialing.
func (o *Overlay) Events() transport.Events {
	return transport.Events{
		OnOpen:    func() { o.append("WebSocket Connected") },
		OnClose:   func() { o.append("WebSocket Disconnected") },
		OnError:   o.handleError,
		OnMessage: o.handleMessage,
	}
}

// Send is the manual probe: it transmits message on the managed connection
// and logs the attempt. The "Sent:" line is written optimistically, before
// the transmission; a synchronous transport failure surfaces as an error
// entry, the same as an asynchronous one.
func (o *Overlay) Send(message string) {
	o.append("Sent: " + message)

	o.mu.Lock()
	ch := o.ch
	o.mu.Unlock()

	if ch == nil {
		o.handleError(errNotAttached)
		return
	}
	if err := ch.Send(message); err != nil {
		o.handleError(err)
	}
}

// Close releases the overlay's connection. Idempotent; the transport's
// close event still produces the final "WebSocket Disconnected" entry.
func (o *Overlay) Close() error {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return nil
	}
	o.closed = true
	ch := o.ch
	o.mu.Unlock()

	if ch == nil {
		return nil
	}
	return ch.Close()
}

// Lines returns a snapshot of the visible log, oldest first.
func (o *Overlay) Lines() []string {
	return o.ring.Snapshot()
}

func (o *Overlay) handleMessage(data string) {
	if o.cfg.MaxPayload > 0 && len(data) > o.cfg.MaxPayload {
		data = data[:o.cfg.MaxPayload] + "..."
	}
	o.append("Received: " + data)
}

func (o *Overlay) handleError(err error) {
	log.Printf("[overlay] transport error: %v", err)
	o.append("WebSocket Error")
}

// append adds one entry to the view and trims it back to capacity. It
// never fails; capacity overflow is handled by eviction, not reported.
func (o *Overlay) append(text string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.ring.Append(text)
	o.view.AppendLine(text)
	o.view.ScrollToEnd()
	for o.view.LineCount() > o.cfg.Capacity {
		o.view.RemoveOldest()
	}
}
