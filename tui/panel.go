// Package tui renders the diagnostics overlay in the terminal using tview.
// The panel is anchored at the bottom-right of the screen, mirroring the
// floating placement of the original in-page overlay.
package tui

import (
	"strings"
	"sync"

	"github.com/rivo/tview"
)

// Panel is a bordered, scrolling text view implementing overlay.View.
// Mutations may arrive from any goroutine; repaints are marshalled onto the
// tview event loop via QueueUpdateDraw.
type Panel struct {
	mu    sync.Mutex
	lines []string

	app  *tview.Application
	view *tview.TextView
}

// NewPanel creates a panel titled after the tap target.
func NewPanel(app *tview.Application, title string) *Panel {
	view := tview.NewTextView().
		SetWrap(false).
		SetScrollable(true)
	view.SetBorder(true).SetTitle(" " + title + " ")

	return &Panel{
		app:  app,
		view: view,
	}
}

// AppendLine adds a log line and schedules a repaint.
func (p *Panel) AppendLine(line string) {
	p.mu.Lock()
	p.lines = append(p.lines, line)
	p.mu.Unlock()
	p.redraw()
}

// RemoveOldest drops the first visible line.
func (p *Panel) RemoveOldest() {
	p.mu.Lock()
	if len(p.lines) > 0 {
		p.lines = p.lines[1:]
	}
	p.mu.Unlock()
	p.redraw()
}

// LineCount returns the number of visible lines.
func (p *Panel) LineCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.lines)
}

// ScrollToEnd keeps the newest entry in view.
func (p *Panel) ScrollToEnd() {
	go p.app.QueueUpdateDraw(func() {
		p.view.ScrollToEnd()
	})
}

// Primitive returns the underlying tview widget for layout.
func (p *Panel) Primitive() tview.Primitive {
	return p.view
}

// redraw re-renders from the current line set. The closure reads state when
// it runs, so stale queued redraws converge on the latest content.
func (p *Panel) redraw() {
	go p.app.QueueUpdateDraw(func() {
		p.mu.Lock()
		text := strings.Join(p.lines, "\n")
		p.mu.Unlock()
		p.view.SetText(text)
	})
}
