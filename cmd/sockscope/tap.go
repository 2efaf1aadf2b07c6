package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"sockscope/logring"
	"sockscope/overlay"
	"sockscope/transport"
	"sockscope/tui"
)

var (
	tapCap        int
	tapMaxPayload int
	tapProbe      string
	tapPlain      bool
)

func init() {
	rootCmd.AddCommand(tapCmd)

	tapCmd.Flags().IntVar(&tapCap, "cap", 0, "Visible log entries (default 5)")
	tapCmd.Flags().IntVar(&tapMaxPayload, "max-payload", 0, "Truncate logged payloads to this many bytes (0 = unlimited)")
	tapCmd.Flags().StringVar(&tapProbe, "probe", "", "Send this message once the connection opens")
	tapCmd.Flags().BoolVar(&tapPlain, "plain", false, "Stream log lines to stdout instead of the panel")
}

var tapCmd = &cobra.Command{
	Use:   "tap <url>",
	Short: "Attach a diagnostics overlay to a WebSocket endpoint",
	Long: `Connects to the given WebSocket URL and shows connection lifecycle
and message events in a bounded trailing log. Type into the probe field
and press Enter to send a test message.

Example:
  sockscope tap ws://localhost:8080/ws
  sockscope tap wss://example.com/feed --cap 10 --probe ping
  sockscope tap ws://localhost:8080/ws --plain | tee session.log`,
	Args: cobra.ExactArgs(1),
	RunE: runTap,
}

func runTap(cmd *cobra.Command, args []string) error {
	target := args[0]
	cfg := overlay.Config{Capacity: tapCap, MaxPayload: tapMaxPayload}

	if tapPlain {
		return runTapPlain(target, cfg)
	}

	ui := tui.NewApp(target, cfgCapacity(cfg))
	ov := overlay.New(ui.Panel(), cfg)

	ev := ov.Events()
	if tapProbe != "" {
		ev = probeOnOpen(ev, ov, tapProbe)
	}

	ov.Attach(transport.Dial(target, ev))
	ui.SetSender(ov.Send)
	defer ov.Close()

	if err := ui.Run(); err != nil {
		return fmt.Errorf("terminal UI failed: %w", err)
	}
	return nil
}

// runTapPlain streams every log line to stdout until the connection closes
// or the process is interrupted.
func runTapPlain(target string, cfg overlay.Config) error {
	view := &streamView{out: os.Stdout}
	ov := overlay.New(view, cfg)

	done := make(chan struct{})
	ev := ov.Events()
	onClose := ev.OnClose
	ev.OnClose = func() {
		onClose()
		close(done)
	}
	if tapProbe != "" {
		ev = probeOnOpen(ev, ov, tapProbe)
	}

	ov.Attach(transport.Dial(target, ev))
	defer ov.Close()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	select {
	case <-done:
	case <-sig:
	}
	return nil
}

// probeOnOpen wraps the open callback to fire one probe after connect.
func probeOnOpen(ev transport.Events, ov *overlay.Overlay, msg string) transport.Events {
	onOpen := ev.OnOpen
	ev.OnOpen = func() {
		onOpen()
		ov.Send(msg)
	}
	return ev
}

func cfgCapacity(cfg overlay.Config) int {
	if cfg.Capacity > 0 {
		return cfg.Capacity
	}
	return logring.DefaultCapacity
}

// streamView prints lines as they happen. It reports a zero line count so
// the overlay never evicts: scrollback is the terminal's problem.
type streamView struct {
	out io.Writer
}

func (v *streamView) AppendLine(line string) { fmt.Fprintln(v.out, line) }
func (v *streamView) RemoveOldest()          {}
func (v *streamView) LineCount() int         { return 0 }
func (v *streamView) ScrollToEnd()           {}
