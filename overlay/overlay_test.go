package overlay

import (
	"errors"
	"fmt"
	"reflect"
	"testing"
)

// fakeView records appended lines the way a panel widget would.
type fakeView struct {
	lines   []string
	scrolls int
}

func (v *fakeView) AppendLine(line string) { v.lines = append(v.lines, line) }
func (v *fakeView) RemoveOldest()          { v.lines = v.lines[1:] }
func (v *fakeView) LineCount() int         { return len(v.lines) }
func (v *fakeView) ScrollToEnd()           { v.scrolls++ }

// fakeChannel records sent messages and can be made to fail.
type fakeChannel struct {
	sent    []string
	sendErr error
	closed  int
}

func (c *fakeChannel) Send(msg string) error {
	if c.sendErr != nil {
		return c.sendErr
	}
	c.sent = append(c.sent, msg)
	return nil
}

func (c *fakeChannel) Close() error {
	c.closed++
	return nil
}

func newTestOverlay(cfg Config) (*Overlay, *fakeView, *fakeChannel) {
	view := &fakeView{}
	ch := &fakeChannel{}
	o := New(view, cfg)
	o.Attach(ch)
	return o, view, ch
}

func TestBoundedLogInvariant(t *testing.T) {
	for n := 0; n <= 12; n++ {
		o, view, _ := newTestOverlay(Config{})
		ev := o.Events()
		for i := 0; i < n; i++ {
			ev.OnMessage(fmt.Sprintf("%d", i))
		}

		want := n
		if want > 5 {
			want = 5
		}
		if len(view.lines) != want {
			t.Fatalf("after %d appends: expected %d visible entries, got %d", n, want, len(view.lines))
		}
		for i, line := range view.lines {
			expected := fmt.Sprintf("Received: %d", n-want+i)
			if line != expected {
				t.Errorf("after %d appends, line %d: expected %q, got %q", n, i, expected, line)
			}
		}
	}
}

func TestEventOrderPreserved(t *testing.T) {
	o, view, _ := newTestOverlay(Config{Capacity: 10})
	ev := o.Events()

	ev.OnOpen()
	ev.OnMessage("first")
	ev.OnError(errors.New("boom"))
	ev.OnMessage("second")
	ev.OnClose()

	want := []string{
		"WebSocket Connected",
		"Received: first",
		"WebSocket Error",
		"Received: second",
		"WebSocket Disconnected",
	}
	if !reflect.DeepEqual(view.lines, want) {
		t.Fatalf("expected %v, got %v", want, view.lines)
	}
}

func TestFullLogEvictsExactlyOne(t *testing.T) {
	o, view, _ := newTestOverlay(Config{})
	ev := o.Events()
	for i := 1; i <= 5; i++ {
		ev.OnMessage(fmt.Sprintf("%d", i))
	}
	if len(view.lines) != 5 {
		t.Fatalf("setup: expected full log, got %d entries", len(view.lines))
	}

	ev.OnMessage("6")
	if len(view.lines) != 5 {
		t.Fatalf("expected length to stay 5, got %d", len(view.lines))
	}
	if view.lines[0] != "Received: 2" {
		t.Errorf("expected oldest entry evicted, first line is %q", view.lines[0])
	}
	if view.lines[4] != "Received: 6" {
		t.Errorf("expected newest entry last, got %q", view.lines[4])
	}
}

func TestOpenScenario(t *testing.T) {
	o, view, _ := newTestOverlay(Config{})
	o.Events().OnOpen()

	if len(view.lines) != 1 || view.lines[0] != "WebSocket Connected" {
		t.Fatalf("expected single %q entry, got %v", "WebSocket Connected", view.lines)
	}
}

func TestMessageRoundTrip(t *testing.T) {
	o, view, _ := newTestOverlay(Config{})
	ev := o.Events()
	for _, payload := range []string{"A", "B", "C"} {
		ev.OnMessage(payload)
	}

	want := []string{"Received: A", "Received: B", "Received: C"}
	if !reflect.DeepEqual(view.lines, want) {
		t.Fatalf("expected %v, got %v", want, view.lines)
	}
}

func TestProbeSend(t *testing.T) {
	o, view, ch := newTestOverlay(Config{})
	o.Send("ping")

	if len(view.lines) != 1 || view.lines[0] != "Sent: ping" {
		t.Fatalf("expected %q logged, got %v", "Sent: ping", view.lines)
	}
	if len(ch.sent) != 1 || ch.sent[0] != "ping" {
		t.Fatalf("expected probe transmitted, got %v", ch.sent)
	}
}

func TestProbeSendLoggedEvenOnFailure(t *testing.T) {
	o, view, ch := newTestOverlay(Config{})
	ch.sendErr = errors.New("broken pipe")
	o.Send("ping")

	if len(view.lines) == 0 || view.lines[0] != "Sent: ping" {
		t.Fatalf("expected optimistic %q entry, got %v", "Sent: ping", view.lines)
	}
	// The synchronous failure surfaces through the error path.
	if view.lines[len(view.lines)-1] != "WebSocket Error" {
		t.Fatalf("expected trailing error entry, got %v", view.lines)
	}
}

func TestProbeSendWithoutChannel(t *testing.T) {
	view := &fakeView{}
	o := New(view, Config{})
	o.Send("ping")

	want := []string{"Sent: ping", "WebSocket Error"}
	if !reflect.DeepEqual(view.lines, want) {
		t.Fatalf("expected %v, got %v", want, view.lines)
	}
}

func TestSixEventOverflow(t *testing.T) {
	o, view, _ := newTestOverlay(Config{})
	ev := o.Events()

	ev.OnOpen()
	for _, payload := range []string{"1", "2", "3", "4"} {
		ev.OnMessage(payload)
	}
	ev.OnClose()

	want := []string{
		"Received: 1",
		"Received: 2",
		"Received: 3",
		"Received: 4",
		"WebSocket Disconnected",
	}
	if !reflect.DeepEqual(view.lines, want) {
		t.Fatalf("expected %v, got %v", want, view.lines)
	}
}

func TestConfigurableCapacity(t *testing.T) {
	o, view, _ := newTestOverlay(Config{Capacity: 2})
	ev := o.Events()
	ev.OnMessage("1")
	ev.OnMessage("2")
	ev.OnMessage("3")

	want := []string{"Received: 2", "Received: 3"}
	if !reflect.DeepEqual(view.lines, want) {
		t.Fatalf("expected %v, got %v", want, view.lines)
	}
}

func TestMaxPayloadTruncation(t *testing.T) {
	o, view, _ := newTestOverlay(Config{MaxPayload: 4})
	ev := o.Events()
	ev.OnMessage("short")
	ev.OnMessage("ok")

	want := []string{"Received: shor...", "Received: ok"}
	if !reflect.DeepEqual(view.lines, want) {
		t.Fatalf("expected %v, got %v", want, view.lines)
	}
}

func TestLinesSnapshotMatchesView(t *testing.T) {
	o, view, _ := newTestOverlay(Config{})
	ev := o.Events()
	ev.OnOpen()
	ev.OnMessage("hello")

	if !reflect.DeepEqual(o.Lines(), view.lines) {
		t.Fatalf("ring snapshot %v diverged from view %v", o.Lines(), view.lines)
	}
}

func TestCloseIdempotentAndClosesChannel(t *testing.T) {
	o, _, ch := newTestOverlay(Config{})
	if err := o.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := o.Close(); err != nil {
		t.Fatalf("second Close failed: %v", err)
	}
	if ch.closed != 1 {
		t.Fatalf("expected channel closed once, got %d", ch.closed)
	}
}

func TestScrollFollowsAppend(t *testing.T) {
	o, view, _ := newTestOverlay(Config{})
	ev := o.Events()
	ev.OnOpen()
	ev.OnMessage("x")

	if view.scrolls != 2 {
		t.Fatalf("expected one scroll per append, got %d", view.scrolls)
	}
}
