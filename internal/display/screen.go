// Package display holds the status shown to the user and draws it for
// small monochrome screens.
package display

import "github.com/pleimann/ir2hid/internal/hid"

// Status screen text, shared with the terminal view
const (
	HeaderText  = "IR > HID"
	HostTag     = "[Connected]"
	WaitingText = "Waiting for signal..."
)

// Text baselines on the status screen
const (
	headerBaseline = 10
	ruleY          = 12
	line1Baseline  = 25
	line2Baseline  = 37
	line3Baseline  = 49
	waitBaseline   = 35
)

// Screen lays out a Snapshot on a monochrome frame buffer
type Screen struct {
	r   *Renderer
	enc *FrameEncoder
}

// NewScreen creates a status screen of the given size in pixels
func NewScreen(width, height int) *Screen {
	return &Screen{r: NewRenderer(width, height), enc: NewFrameEncoder(width, height)}
}

// Draw renders snap into the frame buffer. The header uses the bitmap face;
// everything else uses the smaller one so a full status line fits.
func (s *Screen) Draw(snap Snapshot) {
	r := s.r
	r.Clear()

	r.DrawText(2, headerBaseline, HeaderText)
	if snap.Connected {
		r.DrawSmallText(r.Width()-2-r.SmallTextWidth(HostTag), headerBaseline, HostTag)
	}
	r.HLine(0, r.Width()-1, ruleY)

	if !snap.HasSignal {
		r.DrawSmallText(max(0, (r.Width()-r.SmallTextWidth(WaitingText))/2), waitBaseline, WaitingText)
		return
	}
	r.DrawSmallText(2, line1Baseline, snap.Protocol)
	r.DrawSmallText(2, line2Baseline, snap.Address)
	r.DrawSmallText(2, line3Baseline, snap.Command)
}

// Frames encodes the whole frame buffer as display reports
func (s *Screen) Frames() []*hid.DisplayFrame {
	return s.enc.Chunk(s.r.GetFrameBuffer())
}

// Pixels returns the packed frame buffer
func (s *Screen) Pixels() []byte {
	return s.r.GetFrameBuffer()
}
