package render

import (
	"image/color"

	"bedclock/hal"
)

// FramebufferDisplayer draws on a monochrome hal.Framebuffer. Dark colors
// set pixels.
type FramebufferDisplayer struct {
	fb hal.Framebuffer
}

// NewDisplayer adapts fb to drivers.Displayer. Display is a no-op; the
// caller presents the framebuffer with the refresh kind it needs.
func NewDisplayer(fb hal.Framebuffer) *FramebufferDisplayer {
	return &FramebufferDisplayer{fb: fb}
}

func (d *FramebufferDisplayer) Size() (x, y int16) {
	if d.fb == nil {
		return 0, 0
	}
	return int16(d.fb.Width()), int16(d.fb.Height())
}

func (d *FramebufferDisplayer) SetPixel(x, y int16, c color.RGBA) {
	if d.fb == nil || d.fb.Format() != hal.PixelFormatMono {
		return
	}
	buf := d.fb.Buffer()
	ix, iy := int(x), int(y)
	if ix < 0 || ix >= d.fb.Width() || iy < 0 || iy >= d.fb.Height() {
		return
	}
	off := iy*d.fb.StrideBytes() + ix/8
	if off >= len(buf) {
		return
	}
	mask := byte(0x80) >> uint(ix%8)
	if dark(c) {
		buf[off] |= mask
	} else {
		buf[off] &^= mask
	}
}

func (d *FramebufferDisplayer) Display() error { return nil }

func (d *FramebufferDisplayer) Clear() {
	if d.fb != nil {
		d.fb.Clear()
	}
}

func dark(c color.RGBA) bool {
	// Rec. 601 luma, integer form.
	return (299*uint32(c.R)+587*uint32(c.G)+114*uint32(c.B))/1000 < 128
}
