package dashboard

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/toshiba-abbus/acprocessor/internal/acmodel"
	"github.com/toshiba-abbus/acprocessor/internal/session"
)

// minWidth and minHeight are the smallest terminal size the two-pane layout
// renders usefully at.
const (
	minWidth  = 90
	minHeight = 12
)

// Dashboard runs the bubbletea program on its own goroutine and exposes the
// methods the processor needs to keep it updated. It does not implement
// session.Events itself; the Events adapter below does, logging state changes
// and refreshing the status pane on OnReady, OnStatus and OnUpdate.
type Dashboard struct {
	program *tea.Program
}

// Start checks the controlling terminal is large enough and launches the
// dashboard program on its own goroutine; call Quit on the returned
// Dashboard to stop it.
func Start() (*Dashboard, error) {
	w, h, err := term.GetSize(int(os.Stdout.Fd()))
	if err == nil && (w < minWidth || h < minHeight) {
		return nil, fmt.Errorf("dashboard: terminal too small (%dx%d, need at least %dx%d)", w, h, minWidth, minHeight)
	}

	p := tea.NewProgram(newModel(), tea.WithAltScreen())
	d := &Dashboard{program: p}
	go func() { _, _ = p.Run() }()
	return d, nil
}

// Quit stops the bubbletea program and restores the terminal.
func (d *Dashboard) Quit() {
	d.program.Quit()
}

// LogFrame records a raw frame in the packet pane.
func (d *Dashboard) LogFrame(direction string, data []byte) {
	d.program.Send(frameMsg{direction: direction, data: data})
}

// SetStatus replaces the status pane's model snapshot.
func (d *Dashboard) SetStatus(m acmodel.Model) {
	d.program.Send(statusMsg{model: m})
}

// Sink adapts Dashboard to session.Sink, logging every outbound frame to the
// packet pane before handing it to the real sink.
type Sink struct {
	Dashboard *Dashboard
	Next      session.Sink // the real Sink (e.g. *mqttbus.Client); may be nil in --listen-only
}

var _ session.Sink = Sink{}

func (s Sink) Send(frame []byte) error {
	s.Dashboard.LogFrame("tx", frame)
	if s.Next == nil {
		return nil
	}
	return s.Next.Send(frame)
}

// Events adapts Dashboard to session.Events so it can sit alongside (or
// behind) the processor's MQTT client as a second observer of the session.
type Events struct {
	Dashboard *Dashboard
	Session   *session.Session
	Next      session.Events // the real Events (e.g. *mqttbus.Client); may be nil
}

var _ session.Events = Events{}

func (e Events) OnStart() {
	if e.Next != nil {
		e.Next.OnStart()
	}
}

func (e Events) OnReady() {
	e.Dashboard.SetStatus(e.Session.Model())
	if e.Next != nil {
		e.Next.OnReady()
	}
}

func (e Events) OnStateChange(name string) {
	e.Dashboard.program.Send(stateMsg{name: name})
	if e.Next != nil {
		e.Next.OnStateChange(name)
	}
}

func (e Events) OnStatus(kind string) {
	e.Dashboard.SetStatus(e.Session.Model())
	if e.Next != nil {
		e.Next.OnStatus(kind)
	}
}

func (e Events) OnUpdate() {
	e.Dashboard.SetStatus(e.Session.Model())
	if e.Next != nil {
		e.Next.OnUpdate()
	}
}
