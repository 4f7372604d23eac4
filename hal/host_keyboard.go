//go:build !raspi && cgo

package hal

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// keyButtons maps keys to the front buttons. Several keys share a button so
// both the arrow cluster and the numeric keypad work.
var keyButtons = [...]struct {
	key ebiten.Key
	btn Button
}{
	{ebiten.KeyEscape, ButtonCancel},
	{ebiten.KeyBackspace, ButtonCancel},
	{ebiten.KeyArrowLeft, ButtonMinus},
	{ebiten.KeyArrowDown, ButtonMinus},
	{ebiten.KeyMinus, ButtonMinus},
	{ebiten.KeyNumpadSubtract, ButtonMinus},
	{ebiten.KeyArrowRight, ButtonPlus},
	{ebiten.KeyArrowUp, ButtonPlus},
	{ebiten.KeyEqual, ButtonPlus},
	{ebiten.KeyNumpadAdd, ButtonPlus},
	{ebiten.KeyEnter, ButtonOk},
	{ebiten.KeySpace, ButtonOk},
	{ebiten.KeyNumpadEnter, ButtonOk},
}

func pollKeyboard(b *buttonBank) {
	for _, kb := range keyButtons {
		if inpututil.IsKeyJustPressed(kb.key) {
			b.emit(ButtonEvent{Button: kb.btn, Press: true})
		}
		if inpututil.IsKeyJustReleased(kb.key) {
			b.emit(ButtonEvent{Button: kb.btn, Press: false})
		}
	}
}
