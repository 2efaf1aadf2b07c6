// Package transport abstracts the bidirectional connection the overlay
// observes. The overlay is polymorphic over any Channel whose events are
// delivered through an Events set, which keeps the core testable against
// mock transports.
package transport

// Events is the set of notification hooks a transport delivers. Nil
// callbacks are skipped. All callbacks for one connection are invoked from
// a single goroutine, in delivery order.
type Events struct {
	OnOpen    func()
	OnClose   func()
	OnError   func(err error)
	OnMessage func(data string)
}

// Channel is the send side of a bidirectional connection.
type Channel interface {
	// Send transmits a single text message. It returns an error if the
	// connection is not in a sendable state.
	Send(msg string) error

	// Close tears the connection down. Safe to call more than once.
	Close() error
}

func (e Events) open() {
	if e.OnOpen != nil {
		e.OnOpen()
	}
}

func (e Events) closed() {
	if e.OnClose != nil {
		e.OnClose()
	}
}

func (e Events) error(err error) {
	if e.OnError != nil {
		e.OnError(err)
	}
}

func (e Events) message(data string) {
	if e.OnMessage != nil {
		e.OnMessage(data)
	}
}
