package ui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pleimann/ir2hid/internal/display"
	"github.com/pleimann/ir2hid/internal/event"
)

const exitRetryInterval = 10 * time.Millisecond

type stateChangedMsg struct{}

// Monitor is the terminal status screen. It redraws whenever the display
// state changes and forwards key presses to the event queue; quitting is
// left to the caller once the session has ended.
type Monitor struct {
	state   *display.State
	changed <-chan struct{}
	push    func(event.Event) bool

	screen  *display.Screen
	width   int
	height  int
	snap    display.Snapshot
	preview bool
}

// NewMonitor creates a status screen for state. push is used to deliver
// key presses and must not block.
func NewMonitor(state *display.State, push func(event.Event) bool, width, height int) Monitor {
	return Monitor{
		state:   state,
		changed: state.Subscribe(),
		push:    push,
		screen:  display.NewScreen(width, height),
		width:   width,
		height:  height,
		snap:    state.Snapshot(),
	}
}

func (m Monitor) Init() tea.Cmd {
	return waitForChange(m.changed)
}

func waitForChange(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-ch
		return stateChangedMsg{}
	}
}

// pushUntilAccepted keeps offering ev to the queue so the exit key is never
// lost to a full queue
func pushUntilAccepted(push func(event.Event) bool, ev event.Event) tea.Cmd {
	return func() tea.Msg {
		for !push(ev) {
			time.Sleep(exitRetryInterval)
		}
		return nil
	}
}

func (m Monitor) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stateChangedMsg:
		m.snap = m.state.Snapshot()
		return m, waitForChange(m.changed)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc", "backspace", "q":
			return m, pushUntilAccepted(m.push, event.Exit())
		case "p":
			m.preview = !m.preview
		case "enter":
			m.push(event.Input(event.KeyOK, event.PressShort))
		case "up":
			m.push(event.Input(event.KeyUp, event.PressShort))
		case "down":
			m.push(event.Input(event.KeyDown, event.PressShort))
		case "left":
			m.push(event.Input(event.KeyLeft, event.PressShort))
		case "right":
			m.push(event.Input(event.KeyRight, event.PressShort))
		}
	}
	return m, nil
}

func (m Monitor) View() string {
	var b strings.Builder

	if m.preview {
		m.screen.Draw(m.snap)
		b.WriteString(HalfBlocks(m.screen.Pixels(), m.width, m.height))
	} else {
		b.WriteString(statusBoxStyle.Width(display.LineCapacity + 4).Render(statusText(m.snap)))
	}

	b.WriteString("\n")
	b.WriteString(Muted("esc quit • p toggle display preview"))
	b.WriteString("\n")
	return b.String()
}

func statusText(snap display.Snapshot) string {
	header := Bold(display.HeaderText)
	if snap.Connected {
		header += " " + connectedStyle.Render(display.HostTag)
	} else {
		header += " " + disconnectedStyle.Render("[No host]")
	}

	if !snap.HasSignal {
		return header + "\n\n" + Muted(display.WaitingText) + "\n"
	}
	return strings.Join([]string{header, snap.Protocol, snap.Address, snap.Command}, "\n")
}

// HalfBlocks renders a packed 1-bit frame buffer with one character per
// two pixel rows.
func HalfBlocks(pixels []byte, width, height int) string {
	stride := (width + 7) / 8
	on := func(x, y int) bool {
		if y >= height {
			return false
		}
		return pixels[y*stride+x/8]&(0x80>>(x%8)) != 0
	}

	var b strings.Builder
	for y := 0; y < height; y += 2 {
		for x := 0; x < width; x++ {
			top, bottom := on(x, y), on(x, y+1)
			switch {
			case top && bottom:
				b.WriteRune('█')
			case top:
				b.WriteRune('▀')
			case bottom:
				b.WriteRune('▄')
			default:
				b.WriteRune(' ')
			}
		}
		if y+2 < height {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
