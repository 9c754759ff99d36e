//go:build linux

package hid

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/neilotoole/slogt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGadget(t *testing.T, state string) (*Gadget, string, string) {
	t.Helper()
	dir := t.TempDir()
	dev := filepath.Join(dir, "hidg0")
	statePath := filepath.Join(dir, "state")
	require.NoError(t, os.WriteFile(dev, nil, 0644))
	require.NoError(t, os.WriteFile(statePath, []byte(state+"\n"), 0644))

	g, err := NewGadget(dev, statePath)
	require.NoError(t, err)
	t.Cleanup(func() { g.Close() })
	return g, dev, statePath
}

func TestGadgetTapWritesBootReports(t *testing.T) {
	g, dev, _ := newTestGadget(t, "configured")
	require.True(t, g.Connected())

	d := NewDispatcher(g, slogt.New(t))
	require.True(t, d.Dispatch(0x28))

	data, err := os.ReadFile(dev)
	require.NoError(t, err)
	assert.Equal(t, []byte{
		0, 0, 0x28, 0, 0, 0, 0, 0,
		0, 0, 0, 0, 0, 0, 0, 0,
	}, data)
}

func TestGadgetConnectedFollowsPolledUDCState(t *testing.T) {
	g, _, statePath := newTestGadget(t, "not attached")
	assert.False(t, g.Connected())

	require.NoError(t, os.WriteFile(statePath, []byte("configured\n"), 0644))
	// Connected reports the last sample and does no I/O of its own
	assert.False(t, g.Connected())
	g.Poll()
	assert.True(t, g.Connected())

	require.NoError(t, os.Remove(statePath))
	assert.True(t, g.Connected())
	g.Poll()
	assert.False(t, g.Connected())
}

func TestGadgetWatch(t *testing.T) {
	g, _, statePath := newTestGadget(t, "suspended")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		g.Watch(ctx, time.Millisecond)
		close(done)
	}()

	require.NoError(t, os.WriteFile(statePath, []byte("configured\n"), 0644))
	require.Eventually(t, g.Connected, time.Second, time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}

func TestGadgetClosed(t *testing.T) {
	g, _, _ := newTestGadget(t, "configured")
	require.NoError(t, g.Close())

	assert.False(t, g.Connected())
	assert.ErrorIs(t, g.Press(0x04), ErrDeviceClosed)

	// a closed gadget stays closed
	g.Poll()
	assert.False(t, g.Connected())
}

func TestNewGadgetMissingDevice(t *testing.T) {
	dir := t.TempDir()
	_, err := NewGadget(filepath.Join(dir, "hidg9"), filepath.Join(dir, "state"))
	assert.Error(t, err)
}
