package schedviewer

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

const circleSegments = 48

// RasterCanvas draws into an in-memory RGBA image. It backs the PNG and
// Smart TV outputs and works without a display.
type RasterCanvas struct {
	img  *image.RGBA
	z    *vector.Rasterizer
	face font.Face
}

// NewRasterCanvas creates a w×h canvas.
func NewRasterCanvas(w, h int) *RasterCanvas {
	return &RasterCanvas{
		img:  image.NewRGBA(image.Rect(0, 0, w, h)),
		z:    vector.NewRasterizer(w, h),
		face: basicfont.Face7x13,
	}
}

// Image returns the backing image.
func (c *RasterCanvas) Image() *image.RGBA {
	return c.img
}

// EncodePNG writes the current image as PNG.
func (c *RasterCanvas) EncodePNG(w io.Writer) error {
	return png.Encode(w, c.img)
}

// Size implements Canvas.
func (c *RasterCanvas) Size() (int, int) {
	b := c.img.Bounds()
	return b.Dx(), b.Dy()
}

// Clear implements Canvas.
func (c *RasterCanvas) Clear(col color.Color) {
	draw.Draw(c.img, c.img.Bounds(), image.NewUniform(col), image.Point{}, draw.Src)
}

// FillRect implements Canvas.
func (c *RasterCanvas) FillRect(x, y, w, h float64, col color.Color) {
	r := image.Rect(int(math.Round(x)), int(math.Round(y)), int(math.Round(x+w)), int(math.Round(y+h)))
	draw.Draw(c.img, r.Intersect(c.img.Bounds()), image.NewUniform(col), image.Point{}, draw.Over)
}

// Line implements Canvas.
func (c *RasterCanvas) Line(x0, y0, x1, y1, width float64, col color.Color) {
	dx, dy := x1-x0, y1-y0
	length := math.Hypot(dx, dy)
	if length == 0 {
		return
	}
	// Perpendicular offset of half the stroke width.
	nx, ny := -dy/length*width/2, dx/length*width/2

	c.begin()
	c.z.MoveTo(float32(x0+nx), float32(y0+ny))
	c.z.LineTo(float32(x1+nx), float32(y1+ny))
	c.z.LineTo(float32(x1-nx), float32(y1-ny))
	c.z.LineTo(float32(x0-nx), float32(y0-ny))
	c.z.ClosePath()
	c.fill(col)
}

// FillCircle implements Canvas.
func (c *RasterCanvas) FillCircle(x, y, r float64, col color.Color) {
	c.begin()
	c.circlePath(x, y, r, false)
	c.fill(col)
}

// StrokeCircle implements Canvas. The ring is an outer circle with an
// inner circle wound the other way.
func (c *RasterCanvas) StrokeCircle(x, y, r, width float64, col color.Color) {
	c.begin()
	c.circlePath(x, y, r+width/2, false)
	c.circlePath(x, y, math.Max(0, r-width/2), true)
	c.fill(col)
}

// Text implements Canvas. basicfont has a single size; bold is faked with
// a one pixel offset.
func (c *RasterCanvas) Text(x, y float64, s string, style TextStyle) {
	col := style.Color
	if col == nil {
		col = ColorWhite
	}
	if style.Align == AlignCenter {
		x -= float64(font.MeasureString(c.face, s).Ceil()) / 2
	}

	d := &font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(col),
		Face: c.face,
		Dot:  fixed.P(int(math.Round(x)), int(math.Round(y))),
	}
	d.DrawString(s)
	if style.Bold {
		d.Dot = fixed.P(int(math.Round(x))+1, int(math.Round(y)))
		d.DrawString(s)
	}
}

func (c *RasterCanvas) begin() {
	w, h := c.Size()
	c.z.Reset(w, h)
	c.z.DrawOp = draw.Over
}

func (c *RasterCanvas) fill(col color.Color) {
	c.z.Draw(c.img, c.img.Bounds(), image.NewUniform(col), image.Point{})
}

func (c *RasterCanvas) circlePath(x, y, r float64, reverse bool) {
	for i := 0; i <= circleSegments; i++ {
		step := i
		if reverse {
			step = circleSegments - i
		}
		a := 2 * math.Pi * float64(step) / circleSegments
		px, py := float32(x+r*math.Cos(a)), float32(y+r*math.Sin(a))
		if i == 0 {
			c.z.MoveTo(px, py)
		} else {
			c.z.LineTo(px, py)
		}
	}
	c.z.ClosePath()
}

var _ Canvas = (*RasterCanvas)(nil)
