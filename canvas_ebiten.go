package schedviewer

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// EbitenCanvas draws onto an ebiten image, normally the window's screen.
type EbitenCanvas struct {
	dst  *ebiten.Image
	face font.Face
}

// NewEbitenCanvas wraps dst.
func NewEbitenCanvas(dst *ebiten.Image) *EbitenCanvas {
	return &EbitenCanvas{dst: dst, face: basicfont.Face7x13}
}

// Size implements Canvas.
func (c *EbitenCanvas) Size() (int, int) {
	b := c.dst.Bounds()
	return b.Dx(), b.Dy()
}

// Clear implements Canvas.
func (c *EbitenCanvas) Clear(col color.Color) {
	c.dst.Fill(col)
}

// FillRect implements Canvas.
func (c *EbitenCanvas) FillRect(x, y, w, h float64, col color.Color) {
	vector.DrawFilledRect(c.dst, float32(x), float32(y), float32(w), float32(h), col, false)
}

// Line implements Canvas.
func (c *EbitenCanvas) Line(x0, y0, x1, y1, width float64, col color.Color) {
	vector.StrokeLine(c.dst, float32(x0), float32(y0), float32(x1), float32(y1), float32(width), col, true)
}

// FillCircle implements Canvas.
func (c *EbitenCanvas) FillCircle(x, y, r float64, col color.Color) {
	vector.DrawFilledCircle(c.dst, float32(x), float32(y), float32(r), col, true)
}

// StrokeCircle implements Canvas.
func (c *EbitenCanvas) StrokeCircle(x, y, r, width float64, col color.Color) {
	vector.StrokeCircle(c.dst, float32(x), float32(y), float32(r), float32(width), col, true)
}

// Text implements Canvas.
func (c *EbitenCanvas) Text(x, y float64, s string, style TextStyle) {
	col := style.Color
	if col == nil {
		col = ColorWhite
	}
	if style.Align == AlignCenter {
		x -= float64(font.MeasureString(c.face, s).Ceil()) / 2
	}
	text.Draw(c.dst, s, c.face, int(x), int(y), col)
	if style.Bold {
		text.Draw(c.dst, s, c.face, int(x)+1, int(y), col)
	}
}

var _ Canvas = (*EbitenCanvas)(nil)
