package transport

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// writeWait bounds the close handshake so teardown cannot hang.
const writeWait = time.Second

// Conn is a WebSocket client connection. It implements Channel.
type Conn struct {
	mu     sync.Mutex
	conn   *websocket.Conn // nil until the dial completes
	closed bool

	ev        Events
	closeOnce sync.Once
}

// Dial starts connecting to url and returns immediately. The handshake runs
// on a background goroutine; establishment, inbound messages, and failures
// are all delivered through ev. A connection that never opens produces
// OnError followed by OnClose.
func Dial(url string, ev Events) *Conn {
	c := &Conn{ev: ev}
	go c.run(url)
	return c
}

func (c *Conn) run(url string) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		log.Printf("[ws] dial %s: %v", url, err)
		c.ev.error(err)
		c.fireClose()
		return
	}

	c.mu.Lock()
	if c.closed {
		// Close raced the handshake; drop the connection quietly.
		c.mu.Unlock()
		conn.Close()
		c.fireClose()
		return
	}
	c.conn = conn
	c.mu.Unlock()

	c.ev.open()
	c.readPump(conn)
}

// readPump reads messages until the connection dies, then signals close.
func (c *Conn) readPump(conn *websocket.Conn) {
	defer func() {
		conn.Close()
		c.fireClose()
	}()
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			// A locally initiated Close surfaces here as a read error;
			// that is an expected shutdown, not a transport fault.
			if !c.isClosed() && websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("[ws] read error: %v", err)
				c.ev.error(err)
			}
			return
		}
		c.ev.message(string(data))
	}
}

// Send transmits a text message. It fails if the connection has not opened
// yet or has been closed; gorilla permits one concurrent writer, so writes
// are serialized here.
func (c *Conn) Send(msg string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return fmt.Errorf("send on closed connection")
	}
	if c.conn == nil {
		return fmt.Errorf("connection not established")
	}
	return c.conn.WriteMessage(websocket.TextMessage, []byte(msg))
}

// Close shuts the connection down. The OnClose event still fires exactly
// once, from the reader goroutine.
func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	if c.conn == nil {
		// Still dialing; run() observes closed and cleans up.
		return nil
	}
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
	return c.conn.Close()
}

func (c *Conn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *Conn) fireClose() {
	c.closeOnce.Do(c.ev.closed)
}
