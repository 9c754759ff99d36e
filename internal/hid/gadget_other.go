//go:build !linux

package hid

import (
	"context"
	"errors"
	"time"
)

// Gadget is only available on Linux
type Gadget struct{}

// NewGadget always fails outside Linux
func NewGadget(path, statePath string) (*Gadget, error) {
	return nil, errors.New("USB gadget keyboards are only supported on Linux")
}

func (g *Gadget) Connected() bool { return false }

func (g *Gadget) Press(code uint8) error { return ErrDeviceClosed }

func (g *Gadget) Release(code uint8) error { return ErrDeviceClosed }

func (g *Gadget) Poll() {}

func (g *Gadget) Watch(ctx context.Context, interval time.Duration) { <-ctx.Done() }

func (g *Gadget) Close() error { return nil }
