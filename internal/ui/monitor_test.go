package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pleimann/ir2hid/internal/display"
	"github.com/pleimann/ir2hid/internal/event"
)

func newTestMonitor() (Monitor, *display.State, *event.Queue) {
	state := display.NewState()
	q := event.NewQueue(event.DefaultCapacity)
	return NewMonitor(state, q.TryPush, 128, 64), state, q
}

func TestMonitorExitKeys(t *testing.T) {
	for _, key := range []tea.KeyMsg{
		{Type: tea.KeyEsc},
		{Type: tea.KeyBackspace},
		{Type: tea.KeyCtrlC},
		{Type: tea.KeyRunes, Runes: []rune("q")},
	} {
		t.Run(key.String(), func(t *testing.T) {
			m, _, q := newTestMonitor()

			_, cmd := m.Update(key)
			require.NotNil(t, cmd)
			cmd()

			require.Equal(t, 1, q.Len())
			ev := q.Next()
			assert.Equal(t, event.KindKey, ev.Kind)
			assert.True(t, ev.Key.IsExit())
		})
	}
}

func TestMonitorForwardsNavigationKeys(t *testing.T) {
	m, _, q := newTestMonitor()

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m.Update(tea.KeyMsg{Type: tea.KeyUp})

	require.Equal(t, 2, q.Len())
	assert.Equal(t, event.Input(event.KeyOK, event.PressShort), q.Next())
	assert.Equal(t, event.Input(event.KeyUp, event.PressShort), q.Next())
}

func TestMonitorRedrawsOnChange(t *testing.T) {
	m, state, _ := newTestMonitor()
	assert.Contains(t, m.View(), "IR > HID")
	assert.Contains(t, m.View(), "Waiting for signal...")

	state.SetLines("Proto: NEC", "Addr: 0x0004", "Cmd:0x000A HID:0x01")
	state.Notify()

	msg := m.Init()()
	require.IsType(t, stateChangedMsg{}, msg)

	model, cmd := m.Update(msg)
	assert.NotNil(t, cmd)

	view := model.View()
	assert.Contains(t, view, "Proto: NEC")
	assert.Contains(t, view, "Cmd:0x000A HID:0x01")
	assert.NotContains(t, view, "Waiting for signal...")
}

func TestMonitorPreviewToggle(t *testing.T) {
	m, _, q := newTestMonitor()

	model, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("p")})
	view := model.View()

	assert.Zero(t, q.Len())
	assert.Contains(t, view, "█")
	assert.NotContains(t, view, "Waiting for signal...")
}

func TestHalfBlocks(t *testing.T) {
	// 8x4: row 0 left half, row 1 right half, row 2 all, row 3 none
	pixels := []byte{0xF0, 0x0F, 0xFF, 0x00}

	got := HalfBlocks(pixels, 8, 4)
	lines := strings.Split(got, "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "▀▀▀▀▄▄▄▄", lines[0])
	assert.Equal(t, "▀▀▀▀▀▀▀▀", lines[1])
}

func TestHalfBlocksOddHeight(t *testing.T) {
	got := HalfBlocks([]byte{0x80, 0x80, 0x80}, 8, 3)
	assert.Equal(t, "█       \n▀       ", got)
}
