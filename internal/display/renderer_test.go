package display

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lit(data []byte) int {
	n := 0
	for _, b := range data {
		for ; b != 0; b &= b - 1 {
			n++
		}
	}
	return n
}

func TestRendererFrameBufferLayout(t *testing.T) {
	r := NewRenderer(12, 3)
	assert.Equal(t, 12, r.Width())
	assert.Equal(t, 3, r.Height())

	// 12 pixels round up to 2 bytes per row
	data := r.GetFrameBuffer()
	require.Len(t, data, 6)
	assert.Zero(t, lit(data))
}

func TestRendererHLineIsMSBFirst(t *testing.T) {
	r := NewRenderer(16, 3)
	r.HLine(1, 9, 1)

	data := r.GetFrameBuffer()
	assert.Equal(t, []byte{0x00, 0x00, 0x7F, 0xC0, 0x00, 0x00}, data)
}

func TestRendererClear(t *testing.T) {
	r := NewRenderer(32, 16)
	r.HLine(0, 31, 0)
	r.DrawText(0, 12, "NEC")
	require.NotZero(t, lit(r.GetFrameBuffer()))

	r.Clear()
	assert.Zero(t, lit(r.GetFrameBuffer()))
}

func TestRendererDrawTextStaysNearBaseline(t *testing.T) {
	r := NewRenderer(64, 32)
	r.DrawText(0, 20, "Addr")

	data := r.GetFrameBuffer()
	require.NotZero(t, lit(data))

	// basicfont has an ascent of 11; nothing lands above baseline-11
	assert.Zero(t, lit(data[:8*8]), "pixels drawn above the glyph box")
}

func TestRendererSmallFace(t *testing.T) {
	r := NewRenderer(128, 16)

	// basicfont glyphs are 7 pixels wide
	assert.Equal(t, 8*7, r.TextWidth("IR > HID"))
	assert.Zero(t, r.TextWidth(""))

	assert.Positive(t, r.SmallTextWidth("Cmd:0x000A HID:0x01"))
	assert.Less(t, r.SmallTextWidth("Cmd:0x000A HID:0x01"), r.TextWidth("Cmd:0x000A HID:0x01"))

	r.DrawSmallText(0, 12, "0x0004")
	assert.NotZero(t, lit(r.GetFrameBuffer()))
}

func TestRendererClipsOffscreenText(t *testing.T) {
	r := NewRenderer(16, 8)
	assert.NotPanics(t, func() {
		r.DrawText(10, 7, "overflowing text")
		r.DrawSmallText(-20, 30, "below")
		r.HLine(0, 15, 7)
	})
	assert.Len(t, r.GetFrameBuffer(), 16)
}
