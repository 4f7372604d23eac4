//go:build !raspi && cgo

package hal

import (
	"bedclock/internal/buildinfo"

	"github.com/hajimehoshi/ebiten/v2"
)

const windowScale = 3

// RunWindow starts a desktop window that displays the panel and maps the
// keyboard to the buttons. It blocks until the window closes.
func RunWindow(opts Options, newApp func(HAL) func() error) error {
	h, err := newHost(opts)
	if err != nil {
		return err
	}
	defer h.close()
	h.setBuzzer(newWindowBuzzer(h.logger))
	step := newApp(h)

	g := &hostGame{h: h, step: step}
	ebiten.SetWindowTitle("bedclock " + buildinfo.Short())
	ebiten.SetWindowSize(h.fb.width*windowScale, h.fb.height*windowScale)
	ebiten.SetTPS(60)
	return ebiten.RunGame(g)
}

type hostGame struct {
	h       *hostHAL
	pix     []byte
	scratch []byte
	fbImg   *ebiten.Image
	step    func() error
}

func (g *hostGame) Update() error {
	pollKeyboard(g.h.buttons)
	g.h.t.advance()
	if g.step != nil {
		if err := g.step(); err != nil {
			return err
		}
	}
	return nil
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	fb := g.h.fb
	if g.fbImg == nil {
		g.pix = make([]byte, fb.width*fb.height*4)
		g.scratch = make([]byte, len(fb.buf))
		g.fbImg = ebiten.NewImage(fb.width, fb.height)
	}
	fb.snapshot(g.scratch)
	monoToRGBA(g.pix, g.scratch, fb.stride, fb.width, fb.height)
	g.fbImg.WritePixels(g.pix)
	screen.DrawImage(g.fbImg, nil)
}

func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.h.fb.width, g.h.fb.height
}
