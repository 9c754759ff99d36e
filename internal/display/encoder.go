package display

import (
	"bytes"

	"github.com/pleimann/ir2hid/internal/hid"
)

// MaxPayloadSize is the pixel data that fits in one 64 byte display report
// after the 10 byte header
const MaxPayloadSize = 54

// FrameEncoder splits packed frame buffers into display reports. Each report
// covers a band of whole rows.
type FrameEncoder struct {
	width  int
	height int
	stride int
	rows   int
}

// NewFrameEncoder creates an encoder for a width x height display
func NewFrameEncoder(width, height int) *FrameEncoder {
	stride := (width + 7) / 8
	return &FrameEncoder{
		width:  width,
		height: height,
		stride: stride,
		rows:   max(1, MaxPayloadSize/stride),
	}
}

// Bands returns the number of reports a full frame takes
func (e *FrameEncoder) Bands() int {
	return (e.height + e.rows - 1) / e.rows
}

// Chunk encodes the whole frame buffer
func (e *FrameEncoder) Chunk(data []byte) []*hid.DisplayFrame {
	return e.Diff(nil, data)
}

// Diff encodes only the bands of data that differ from prev. A prev of the
// wrong size, including nil, yields every band.
func (e *FrameEncoder) Diff(prev, data []byte) []*hid.DisplayFrame {
	full := len(prev) != len(data)

	var frames []*hid.DisplayFrame
	for y := 0; y < e.height; y += e.rows {
		h := min(e.rows, e.height-y)
		start, end := y*e.stride, min((y+h)*e.stride, len(data))
		if start >= end {
			break
		}
		if !full && bytes.Equal(prev[start:end], data[start:end]) {
			continue
		}
		frames = append(frames, hid.NewPartialFrame(0, uint16(y), uint16(e.width), uint16(h), data[start:end]))
	}
	return frames
}

// Clear returns the command that blanks the display
func (e *FrameEncoder) Clear() *hid.DisplayFrame {
	return hid.NewClearCommand()
}
