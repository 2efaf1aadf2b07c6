package tui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

const (
	panelWidth   = 64
	panelMinRows = 3
)

// App hosts the overlay panel and the probe input field for one tap
// session.
type App struct {
	app   *tview.Application
	panel *Panel
	input *tview.InputField

	send func(msg string)
}

// NewApp builds the TUI for tapping target. capacity sizes the panel so the
// full visible log fits without scrolling.
func NewApp(target string, capacity int) *App {
	a := &App{
		app: tview.NewApplication(),
	}
	a.panel = NewPanel(a.app, target)

	a.input = tview.NewInputField().
		SetLabel("probe> ").
		SetPlaceholder("message, Enter to send")
	a.input.SetDoneFunc(func(key tcell.Key) {
		if key != tcell.KeyEnter {
			return
		}
		msg := a.input.GetText()
		a.input.SetText("")
		if msg == "" || a.send == nil {
			return
		}
		go a.send(msg)
	})

	height := capacity + 2 // borders
	if height < panelMinRows {
		height = panelMinRows
	}

	// Bottom-right anchor: spacers absorb the remaining space.
	column := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(nil, 0, 1, false).
		AddItem(a.panel.Primitive(), height, 0, false).
		AddItem(a.input, 1, 0, true)
	root := tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(column, panelWidth, 0, true)

	a.app.SetRoot(root, true)
	a.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEscape {
			a.app.Stop()
			return nil
		}
		return event
	})

	return a
}

// Panel returns the log surface for the overlay to render into.
func (a *App) Panel() *Panel {
	return a.panel
}

// SetSender installs the probe callback invoked on Enter.
func (a *App) SetSender(fn func(msg string)) {
	a.send = fn
}

// Run blocks until the user quits (Esc or Ctrl+C).
func (a *App) Run() error {
	return a.app.Run()
}

// Stop ends the session from another goroutine.
func (a *App) Stop() {
	a.app.Stop()
}
