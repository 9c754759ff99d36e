//go:build !linux

package irsource

import (
	"context"
	"log/slog"
)

// DefaultLIRCDevice is the first kernel infrared receiver
const DefaultLIRCDevice = "/dev/lirc0"

// LIRC is only available on Linux
type LIRC struct{}

// NewLIRC returns a source that always fails with ErrUnsupported
func NewLIRC(path string, logger *slog.Logger) *LIRC {
	return &LIRC{}
}

// Run returns ErrUnsupported
func (l *LIRC) Run(ctx context.Context, handle Handler) error {
	return ErrUnsupported
}
