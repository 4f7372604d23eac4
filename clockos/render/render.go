// Package render rasterizes ui frames with tinyfont onto any
// drivers.Displayer.
package render

import (
	"image/color"

	"bedclock/clockos/ui"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

var (
	Black = color.RGBA{A: 255}
	White = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// baseline is the glyph origin offset inside an 8x16 text cell.
const baseline = 12

var font tinyfont.Fonter = &proggy.TinySZ8pt7b

// clearer is implemented by displayers that can blank themselves faster
// than pixel by pixel.
type clearer interface {
	Clear()
}

// Draw clears d to white, draws every operation of f in black and calls
// d.Display.
func Draw(f *ui.Frame, d drivers.Displayer) error {
	blank(d)
	ops := f.Ops()
	for i := range ops {
		op := &ops[i]
		switch op.Kind {
		case ui.OpFillRect:
			fillRect(d, op.X, op.Y, op.W, op.H, Black)
		case ui.OpText:
			DrawText(d, op.X, op.Y, op.Text(), Black)
		}
	}
	return d.Display()
}

func blank(d drivers.Displayer) {
	if c, ok := d.(clearer); ok {
		c.Clear()
		return
	}
	w, h := d.Size()
	fillRect(d, 0, 0, w, h, White)
}

func fillRect(d drivers.Displayer, x0, y0, w, h int16, c color.RGBA) {
	if w <= 0 || h <= 0 {
		return
	}
	dw, dh := d.Size()
	x1, y1 := x0+w, y0+h
	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}
	if x1 > dw {
		x1 = dw
	}
	if y1 > dh {
		y1 = dh
	}
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			d.SetPixel(x, y, c)
		}
	}
}

// DrawText draws s with its first 8x16 cell at x, y. Glyphs are placed one
// per cell so columns line up regardless of the glyph advance.
func DrawText(d drivers.Displayer, x, y int16, s string, c color.RGBA) {
	for _, r := range s {
		if r == '°' {
			drawDegree(d, x, y, c)
		} else {
			tinyfont.DrawChar(d, font, x, y+baseline, r, c)
		}
		x += ui.FontWidth
	}
}

// drawDegree draws a 4x4 ring near the cap height of the cell; the font is
// 7-bit and has no degree glyph.
func drawDegree(d drivers.Displayer, x, y int16, c color.RGBA) {
	x, y = x+2, y+3
	fillRect(d, x, y, 4, 1, c)
	fillRect(d, x, y+3, 4, 1, c)
	fillRect(d, x, y+1, 1, 2, c)
	fillRect(d, x+3, y+1, 1, 2, c)
}
