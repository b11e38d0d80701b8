package schedviewer

import "image/color"

// Op kinds recorded by RecordingCanvas.
const (
	OpClear        = "clear"
	OpFillRect     = "fill_rect"
	OpLine         = "line"
	OpFillCircle   = "fill_circle"
	OpStrokeCircle = "stroke_circle"
	OpText         = "text"
)

// Op is one recorded draw call.
type Op struct {
	Kind   string
	X, Y   float64
	X1, Y1 float64
	W, H   float64
	R      float64
	Width  float64
	Text   string
	Color  color.Color
	Style  TextStyle
}

// RecordingCanvas is a headless Canvas that records draw calls in order.
type RecordingCanvas struct {
	W, H int
	Ops  []Op
}

// NewRecordingCanvas creates a recording canvas of the given size.
func NewRecordingCanvas(w, h int) *RecordingCanvas {
	return &RecordingCanvas{W: w, H: h}
}

// Reset drops all recorded ops.
func (c *RecordingCanvas) Reset() {
	c.Ops = c.Ops[:0]
}

// Size implements Canvas.
func (c *RecordingCanvas) Size() (int, int) { return c.W, c.H }

// Clear implements Canvas.
func (c *RecordingCanvas) Clear(col color.Color) {
	c.Ops = append(c.Ops, Op{Kind: OpClear, Color: col})
}

// FillRect implements Canvas.
func (c *RecordingCanvas) FillRect(x, y, w, h float64, col color.Color) {
	c.Ops = append(c.Ops, Op{Kind: OpFillRect, X: x, Y: y, W: w, H: h, Color: col})
}

// Line implements Canvas.
func (c *RecordingCanvas) Line(x0, y0, x1, y1, width float64, col color.Color) {
	c.Ops = append(c.Ops, Op{Kind: OpLine, X: x0, Y: y0, X1: x1, Y1: y1, Width: width, Color: col})
}

// FillCircle implements Canvas.
func (c *RecordingCanvas) FillCircle(x, y, r float64, col color.Color) {
	c.Ops = append(c.Ops, Op{Kind: OpFillCircle, X: x, Y: y, R: r, Color: col})
}

// StrokeCircle implements Canvas.
func (c *RecordingCanvas) StrokeCircle(x, y, r, width float64, col color.Color) {
	c.Ops = append(c.Ops, Op{Kind: OpStrokeCircle, X: x, Y: y, R: r, Width: width, Color: col})
}

// Text implements Canvas.
func (c *RecordingCanvas) Text(x, y float64, s string, style TextStyle) {
	c.Ops = append(c.Ops, Op{Kind: OpText, X: x, Y: y, Text: s, Color: style.Color, Style: style})
}

// Texts returns every drawn string in order.
func (c *RecordingCanvas) Texts() []string {
	var out []string
	for _, op := range c.Ops {
		if op.Kind == OpText {
			out = append(out, op.Text)
		}
	}
	return out
}

// FindText returns the first text op drawing s.
func (c *RecordingCanvas) FindText(s string) (Op, bool) {
	for _, op := range c.Ops {
		if op.Kind == OpText && op.Text == s {
			return op, true
		}
	}
	return Op{}, false
}

// IndexOfText returns the position of the first text op drawing s, or -1.
func (c *RecordingCanvas) IndexOfText(s string) int {
	for i, op := range c.Ops {
		if op.Kind == OpText && op.Text == s {
			return i
		}
	}
	return -1
}

// Count returns how many ops of kind were recorded.
func (c *RecordingCanvas) Count(kind string) int {
	n := 0
	for _, op := range c.Ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

var _ Canvas = (*RecordingCanvas)(nil)
