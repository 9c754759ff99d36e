// Package debounce collapses bursts of identical IR frames into one press.
package debounce

import (
	"time"

	"github.com/pleimann/ir2hid/internal/irproto"
)

// DefaultCooldown is the window in which an identical signature is treated
// as jitter from the same physical press
const DefaultCooldown = 5 * time.Millisecond

// Filter remembers the last accepted signature. The zero value is ready to
// use with DefaultCooldown. A Filter is not safe for concurrent use.
type Filter struct {
	cooldown time.Duration

	set  bool
	last irproto.Signature
	at   time.Time
}

// New creates a filter with the given cooldown. A non-positive cooldown
// selects DefaultCooldown.
func New(cooldown time.Duration) *Filter {
	return &Filter{cooldown: cooldown}
}

// Cooldown returns the effective cooldown window
func (f *Filter) Cooldown() time.Duration {
	if f.cooldown <= 0 {
		return DefaultCooldown
	}
	return f.cooldown
}

// Accept decides whether a decoded frame is a new logical press.
// Protocol repeat frames are always rejected. A frame whose signature equals
// the last accepted one is rejected while now is inside the cooldown window.
// Accepted frames become the new reference.
func (f *Filter) Accept(sig irproto.Signature, repeat bool, now time.Time) bool {
	if repeat {
		return false
	}
	if f.set && sig == f.last && now.Sub(f.at) < f.Cooldown() {
		return false
	}

	f.set = true
	f.last = sig
	f.at = now
	return true
}

// Reset returns the filter to its initial unset state
func (f *Filter) Reset() {
	f.set = false
	f.last = irproto.Signature{}
	f.at = time.Time{}
}
