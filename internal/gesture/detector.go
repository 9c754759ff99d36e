// Package gesture turns raw bridge board button reports into key inputs
// with a press type, the way a handheld remote's navigation keys behave.
package gesture

import (
	"sync"
	"time"

	"github.com/pleimann/ir2hid/internal/event"
	"github.com/pleimann/ir2hid/internal/hid"
)

// buttonState tracks the state of a single button for press classification
type buttonState struct {
	isPressed bool
	isLong    bool
	presses   int
	timer     *time.Timer
}

// Detector classifies button presses. A button released before the long
// press threshold yields PressShort on release. Holding it past the
// threshold yields PressLong once, then PressRepeat every repeat interval
// until release.
type Detector struct {
	keys               map[int]event.Key
	longPressThreshold time.Duration
	repeatInterval     time.Duration
	onInput            func(event.KeyInput)

	mu     sync.Mutex
	states map[int]*buttonState
}

// NewDetector creates a detector for the buttons in keys. onInput is called
// from timer goroutines as well as from ProcessEvent and must not block.
func NewDetector(keys map[int]event.Key, longPressThreshold, repeatInterval time.Duration, onInput func(event.KeyInput)) *Detector {
	return &Detector{
		keys:               keys,
		longPressThreshold: longPressThreshold,
		repeatInterval:     repeatInterval,
		onInput:            onInput,
		states:             make(map[int]*buttonState),
	}
}

// ProcessEvent applies a button report. Press reports list the buttons
// held down; release reports list the buttons still held after the release.
func (d *Detector) ProcessEvent(e hid.Event) {
	d.mu.Lock()
	defer d.mu.Unlock()

	held := make(map[int]bool)
	for _, btn := range e.PressedButtons() {
		held[btn] = true
	}

	switch e.Type {
	case hid.Press:
		for btn := range held {
			d.handlePress(btn)
		}
	case hid.Release:
		for btn, state := range d.states {
			if state.isPressed && !held[btn] {
				d.handleRelease(btn)
			}
		}
	}
}

func (d *Detector) handlePress(button int) {
	key, ok := d.keys[button]
	if !ok {
		return
	}

	state, ok := d.states[button]
	if !ok {
		state = &buttonState{}
		d.states[button] = state
	}
	if state.isPressed {
		return
	}

	state.isPressed = true
	state.isLong = false
	state.presses++
	press := state.presses

	state.timer = time.AfterFunc(d.longPressThreshold, func() {
		d.mu.Lock()
		defer d.mu.Unlock()

		// Only emit if this press is still held
		if !state.isPressed || state.presses != press {
			return
		}
		typ := event.PressRepeat
		if !state.isLong {
			state.isLong = true
			typ = event.PressLong
		}
		d.onInput(event.KeyInput{Key: key, Type: typ})
		state.timer.Reset(d.repeatInterval)
	})
}

func (d *Detector) handleRelease(button int) {
	state := d.states[button]
	state.isPressed = false
	state.timer.Stop()

	// A long press was already reported
	if state.isLong {
		return
	}
	d.onInput(event.KeyInput{Key: d.keys[button], Type: event.PressShort})
}

// Stop stops all pending timers
func (d *Detector) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, state := range d.states {
		state.isPressed = false
		if state.timer != nil {
			state.timer.Stop()
		}
	}
}
