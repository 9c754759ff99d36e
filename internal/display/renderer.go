package display

import (
	"image"
	"image/color"
	"image/draw"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// smallFontSize is the pixel height of the secondary face
const smallFontSize = 8

// smallFace parses the embedded Go Mono face once. It falls back to the
// bitmap face.
var smallFace = sync.OnceValue(func() font.Face {
	f, err := opentype.Parse(gomono.TTF)
	if err != nil {
		return basicfont.Face7x13
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    smallFontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return basicfont.Face7x13
	}
	return face
})

// Renderer renders text and graphics to a 1-bit frame buffer
type Renderer struct {
	width  int
	height int
	img    *image.Gray
	face   font.Face
	small  font.Face
}

// NewRenderer creates a new display renderer
func NewRenderer(width, height int) *Renderer {
	return &Renderer{
		width:  width,
		height: height,
		img:    image.NewGray(image.Rect(0, 0, width, height)),
		face:   basicfont.Face7x13,
		small:  smallFace(),
	}
}

// Clear clears the frame buffer
func (r *Renderer) Clear() {
	draw.Draw(r.img, r.img.Bounds(), image.Black, image.Point{}, draw.Src)
}

// DrawText draws text with its baseline at y
func (r *Renderer) DrawText(x, y int, text string) {
	r.draw(r.face, x, y, text)
}

// DrawSmallText draws text in the secondary face
func (r *Renderer) DrawSmallText(x, y int, text string) {
	r.draw(r.small, x, y, text)
}

func (r *Renderer) draw(face font.Face, x, y int, text string) {
	d := &font.Drawer{
		Dst:  r.img,
		Src:  image.White,
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(text)
}

// TextWidth returns the rendered width of text in pixels
func (r *Renderer) TextWidth(text string) int {
	return font.MeasureString(r.face, text).Ceil()
}

// SmallTextWidth is TextWidth for the secondary face
func (r *Renderer) SmallTextWidth(text string) int {
	return font.MeasureString(r.small, text).Ceil()
}

// HLine draws a horizontal line from x0 to x1 inclusive
func (r *Renderer) HLine(x0, x1, y int) {
	for x := x0; x <= x1; x++ {
		r.img.SetGray(x, y, color.Gray{Y: 255})
	}
}

// GetFrameBuffer returns the frame buffer as 1-bit packed data
// Format: row-major, 8 pixels per byte, MSB first
func (r *Renderer) GetFrameBuffer() []byte {
	bytesPerRow := (r.width + 7) / 8
	data := make([]byte, bytesPerRow*r.height)

	for y := 0; y < r.height; y++ {
		for x := 0; x < r.width; x++ {
			pixel := r.img.GrayAt(x, y)
			if pixel.Y > 127 { // Threshold to 1-bit
				byteIdx := y*bytesPerRow + x/8
				bitIdx := 7 - (x % 8) // MSB first
				data[byteIdx] |= 1 << bitIdx
			}
		}
	}

	return data
}

// Width returns the renderer width
func (r *Renderer) Width() int {
	return r.width
}

// Height returns the renderer height
func (r *Renderer) Height() int {
	return r.height
}
