// Package event defines the events exchanged between producers and the
// single consumer loop, and the bounded queue that carries them.
package event

import (
	"fmt"

	"github.com/pleimann/ir2hid/internal/irproto"
)

// Kind tags the payload carried by an Event
type Kind int

const (
	KindTick Kind = iota
	KindKey
	KindIRSignal
	KindTableChanged
)

func (k Kind) String() string {
	switch k {
	case KindTick:
		return "tick"
	case KindKey:
		return "key"
	case KindIRSignal:
		return "ir_signal"
	case KindTableChanged:
		return "table_changed"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// Key identifies a user input key
type Key int

const (
	KeyOther Key = iota
	KeyBack
	KeyOK
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
)

func (k Key) String() string {
	switch k {
	case KeyBack:
		return "back"
	case KeyOK:
		return "ok"
	case KeyUp:
		return "up"
	case KeyDown:
		return "down"
	case KeyLeft:
		return "left"
	case KeyRight:
		return "right"
	default:
		return "other"
	}
}

// KeyByName resolves a key name as returned by Key.String
func KeyByName(name string) (Key, bool) {
	for k := KeyOther; k <= KeyRight; k++ {
		if k.String() == name {
			return k, true
		}
	}
	return KeyOther, false
}

// PressType distinguishes how a key was pressed
type PressType int

const (
	PressShort PressType = iota
	PressLong
	PressRepeat
)

// KeyInput is a user key press
type KeyInput struct {
	Key  Key
	Type PressType
}

// IsExit reports whether the input is the designated exit gesture
func (k KeyInput) IsExit() bool {
	return k.Key == KeyBack && k.Type == PressShort
}

// Signal is a decoded infrared frame. Repeat marks a protocol-level repeat
// frame (button held) rather than a new press.
type Signal struct {
	irproto.Signature
	Repeat bool
}

// Event is a tagged union. Only the payload field matching Kind is
// meaningful. Events are passed and stored by value.
type Event struct {
	Kind   Kind
	Key    KeyInput
	Signal Signal
}

// Tick creates a tick event
func Tick() Event {
	return Event{Kind: KindTick}
}

// Input creates a key input event
func Input(key Key, typ PressType) Event {
	return Event{Kind: KindKey, Key: KeyInput{Key: key, Type: typ}}
}

// Exit creates the key input event that stops the consumer loop
func Exit() Event {
	return Input(KeyBack, PressShort)
}

// IRSignal creates a decoded signal event
func IRSignal(s Signal) Event {
	return Event{Kind: KindIRSignal, Signal: s}
}

// TableChanged creates an event announcing that the mapping file changed
func TableChanged() Event {
	return Event{Kind: KindTableChanged}
}
