package display

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/neilotoole/slogt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pleimann/ir2hid/internal/hid"
)

type recordingSender struct {
	mu     sync.Mutex
	frames []*hid.DisplayFrame
}

func (r *recordingSender) SendFrame(frame *hid.DisplayFrame) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames = append(r.frames, frame)
	return nil
}

func (r *recordingSender) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.frames)
}

func (r *recordingSender) since(n int) []*hid.DisplayFrame {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*hid.DisplayFrame(nil), r.frames[n:]...)
}

func TestMirrorDrawsOnStartAndChange(t *testing.T) {
	state := NewState()
	sender := &recordingSender{}
	m := NewMirror(state, sender, 128, 64, 5*time.Millisecond, slogt.New(t))

	m.Start(context.Background())

	full := NewFrameEncoder(128, 64).Bands()
	require.Eventually(t, func() bool { return sender.count() == full }, time.Second, time.Millisecond)

	// no change, no redraw
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, full, sender.count())

	state.SetLines("Proto: NEC", "Addr: 0x0004", "Cmd:0x000A (no map)")
	state.Notify()
	require.Eventually(t, func() bool { return sender.count() > full }, time.Second, time.Millisecond)
	time.Sleep(30 * time.Millisecond)

	// the header band is unchanged and not resent
	changed := sender.since(full)
	assert.Less(t, len(changed), full)
	for _, f := range changed {
		assert.Greater(t, f.Y, uint16(ruleY))
	}

	before := sender.count()
	m.Stop()

	frames := sender.since(before)
	require.Len(t, frames, 1)
	assert.Equal(t, hid.DisplayCmdClear, frames[0].Command)
}

type flakySender struct {
	recordingSender
	fail atomic.Bool
}

func (f *flakySender) SendFrame(frame *hid.DisplayFrame) error {
	if f.fail.Load() {
		return errors.New("device gone")
	}
	return f.recordingSender.SendFrame(frame)
}

func TestMirrorResendsEverythingAfterFailure(t *testing.T) {
	state := NewState()
	sender := &flakySender{}
	sender.fail.Store(true)
	m := NewMirror(state, sender, 128, 64, 5*time.Millisecond, slogt.New(t))

	m.Start(context.Background())
	defer m.Stop()

	time.Sleep(30 * time.Millisecond)
	require.Zero(t, sender.count())

	// the failed redraw is retried without another state change
	sender.fail.Store(false)
	full := NewFrameEncoder(128, 64).Bands()
	require.Eventually(t, func() bool { return sender.count() == full }, time.Second, time.Millisecond)
}

func TestMirrorStopWithoutStart(t *testing.T) {
	sender := &recordingSender{}
	m := NewMirror(NewState(), sender, 128, 64, time.Millisecond, slogt.New(t))
	m.Stop()
	assert.Zero(t, sender.count())
}
