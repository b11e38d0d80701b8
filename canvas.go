package schedviewer

import "image/color"

// Align is the horizontal anchor of drawn text.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
)

// TextStyle describes how a string is drawn. Size is a hint in pixels;
// backends with fixed bitmap fonts may ignore it.
type TextStyle struct {
	Color color.Color
	Size  float64
	Align Align
	Bold  bool
}

// Canvas is a 2D raster surface the scene is drawn onto.
type Canvas interface {
	Size() (w, h int)
	Clear(c color.Color)
	FillRect(x, y, w, h float64, c color.Color)
	Line(x0, y0, x1, y1, width float64, c color.Color)
	FillCircle(x, y, r float64, c color.Color)
	StrokeCircle(x, y, r, width float64, c color.Color)
	Text(x, y float64, s string, style TextStyle)
}

// Scene palette.
var (
	ColorBackground = color.RGBA{0x11, 0x18, 0x27, 0xff}
	ColorGreen      = color.RGBA{0x10, 0xb9, 0x81, 0xff}
	ColorGray       = color.RGBA{0x6b, 0x72, 0x80, 0xff}
	ColorPurple     = color.RGBA{0x8b, 0x5c, 0xf6, 0xff}
	ColorBossRed    = color.RGBA{0xff, 0x44, 0x44, 0xff}
	ColorRed        = color.RGBA{0xef, 0x44, 0x44, 0xff}
	ColorAmber      = color.RGBA{0xfc, 0xd3, 0x4d, 0xff}
	ColorGold       = color.RGBA{0xff, 0xd7, 0x00, 0xff}
	ColorCyan       = color.RGBA{0x00, 0xff, 0xff, 0xff}
	ColorWhite      = color.RGBA{0xff, 0xff, 0xff, 0xff}
	ColorBlack      = color.RGBA{0x00, 0x00, 0x00, 0xff}
	ColorShade      = color.NRGBA{0x00, 0x00, 0x00, 0xb3}
)

var (
	powerupColors = []color.Color{
		color.RGBA{0xff, 0x6b, 0x6b, 0xff},
		color.RGBA{0x4e, 0xcd, 0xc4, 0xff},
		color.RGBA{0x45, 0xb7, 0xd1, 0xff},
		color.RGBA{0x96, 0xce, 0xb4, 0xff},
		color.RGBA{0x8a, 0x2b, 0xe2, 0xff},
	}
	keyColors = []color.Color{
		color.RGBA{0xff, 0xd7, 0x00, 0xff},
		color.RGBA{0xff, 0x69, 0xb4, 0xff},
		color.RGBA{0x00, 0xff, 0x7f, 0xff},
	}
	lockColors = []color.Color{
		color.RGBA{0x8b, 0x45, 0x13, 0xff},
		color.RGBA{0xdc, 0x14, 0x3c, 0xff},
		color.RGBA{0x4b, 0x00, 0x82, 0xff},
	}
)
