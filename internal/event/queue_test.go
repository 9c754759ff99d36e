package event

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pleimann/ir2hid/internal/irproto"
)

func signal(cmd uint32) Event {
	return IRSignal(Signal{Signature: irproto.Signature{Protocol: irproto.NEC, Address: 1, Command: cmd}})
}

func TestQueueFIFO(t *testing.T) {
	q := NewQueue(4)
	require.True(t, q.TryPush(signal(1)))
	require.True(t, q.TryPush(Tick()))
	require.True(t, q.TryPush(signal(2)))

	assert.Equal(t, signal(1), q.Next())
	assert.Equal(t, Tick(), q.Next())
	assert.Equal(t, signal(2), q.Next())
	assert.Equal(t, 0, q.Len())
}

func TestQueueFullDropsWithoutBlocking(t *testing.T) {
	q := NewQueue(0)
	require.Equal(t, DefaultCapacity, q.Cap())

	for i := 0; i < DefaultCapacity; i++ {
		require.True(t, q.TryPush(signal(uint32(i))))
	}

	done := make(chan bool)
	go func() {
		// The ninth push from each producer kind must return immediately.
		ok1 := q.TryPush(signal(99))
		ok2 := q.TryPush(Exit())
		done <- ok1 || ok2
	}()

	select {
	case ok := <-done:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("TryPush blocked on a full queue")
	}

	assert.Equal(t, uint64(2), q.Dropped())
	assert.Equal(t, DefaultCapacity, q.Len())

	// The queued events are intact and in order.
	for i := 0; i < DefaultCapacity; i++ {
		assert.Equal(t, signal(uint32(i)), q.Next())
	}
}

func TestQueueNextBlocksUntilPush(t *testing.T) {
	q := NewQueue(1)
	got := make(chan Event)
	go func() { got <- q.Next() }()

	select {
	case <-got:
		t.Fatal("Next returned on an empty queue")
	case <-time.After(20 * time.Millisecond):
	}

	require.True(t, q.TryPush(Exit()))
	select {
	case e := <-got:
		assert.Equal(t, KindKey, e.Kind)
		assert.True(t, e.Key.IsExit())
	case <-time.After(time.Second):
		t.Fatal("Next did not return after push")
	}
}

func TestQueueConcurrentProducers(t *testing.T) {
	q := NewQueue(64)
	var wg sync.WaitGroup
	for p := 0; p < 4; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 16; i++ {
				q.TryPush(Tick())
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 64, q.Len())
	assert.Equal(t, uint64(0), q.Dropped())
}

func TestKeyInputIsExit(t *testing.T) {
	tests := []struct {
		in   KeyInput
		want bool
	}{
		{KeyInput{KeyBack, PressShort}, true},
		{KeyInput{KeyBack, PressLong}, false},
		{KeyInput{KeyBack, PressRepeat}, false},
		{KeyInput{KeyOK, PressShort}, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.in.IsExit(), "%v", tt.in)
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "tick", KindTick.String())
	assert.Equal(t, "ir_signal", KindIRSignal.String())
	assert.Equal(t, "table_changed", KindTableChanged.String())
	assert.Equal(t, "unknown(42)", Kind(42).String())
}

func TestKeyByName(t *testing.T) {
	for k := KeyOther; k <= KeyRight; k++ {
		got, ok := KeyByName(k.String())
		assert.True(t, ok)
		assert.Equal(t, k, got)
	}

	_, ok := KeyByName("Back")
	assert.False(t, ok)
}

func TestPushKeyRetriesExitUntilAccepted(t *testing.T) {
	q := NewQueue(1)
	require.True(t, q.TryPush(Tick()))

	done := make(chan bool, 1)
	go func() {
		done <- q.PushKey(context.Background(), Exit().Key, time.Millisecond)
	}()

	time.Sleep(20 * time.Millisecond)
	select {
	case <-done:
		t.Fatal("exit key returned while the queue was still full")
	default:
	}

	assert.Equal(t, Tick(), q.Next())
	select {
	case ok := <-done:
		assert.True(t, ok)
	case <-time.After(time.Second):
		t.Fatal("exit key never pushed")
	}
	assert.Equal(t, Exit(), q.Next())
}

func TestPushKeyDropsOtherKeysWhenFull(t *testing.T) {
	q := NewQueue(1)
	require.True(t, q.TryPush(Tick()))

	assert.False(t, q.PushKey(context.Background(), KeyInput{Key: KeyBack, Type: PressLong}, time.Millisecond))
	assert.False(t, q.PushKey(context.Background(), KeyInput{Key: KeyOK, Type: PressShort}, time.Millisecond))
	assert.Equal(t, uint64(2), q.Dropped())
}

func TestPushKeyGivesUpOnCancel(t *testing.T) {
	q := NewQueue(1)
	require.True(t, q.TryPush(Tick()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.False(t, q.PushKey(ctx, Exit().Key, time.Millisecond))
	assert.Equal(t, 1, q.Len())
}
