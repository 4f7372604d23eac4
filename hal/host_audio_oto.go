//go:build !raspi && cgo

package hal

import (
	"fmt"
	"sync"

	"github.com/ebitengine/oto/v3"
)

// otoBuzzer drives the sound card directly for runners without Ebiten.
// The context is created on the first tone so machines without audio
// devices only fail when an alarm rings.
type otoBuzzer struct {
	mu     sync.Mutex
	log    Logger
	tone   *toneReader
	ctx    *oto.Context
	player *oto.Player
	failed bool
}

func newOtoBuzzer(log Logger) *otoBuzzer {
	return &otoBuzzer{log: log, tone: newToneReader(toneSampleRate)}
}

func (b *otoBuzzer) start() error {
	if b.player != nil || b.failed {
		return nil
	}
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   toneSampleRate,
		ChannelCount: 2,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		b.failed = true
		return fmt.Errorf("buzzer: %w", err)
	}
	<-ready
	b.ctx = ctx
	b.player = ctx.NewPlayer(b.tone)
	b.player.Play()
	b.log.WriteLineString("debug: buzzer: audio started")
	return nil
}

func (b *otoBuzzer) Tone(hz uint32) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tone.set(hz)
	if hz == 0 {
		return nil
	}
	return b.start()
}

func (b *otoBuzzer) Off() error { return b.Tone(0) }

func newHeadlessBuzzer(log Logger) Buzzer { return newOtoBuzzer(log) }
func newWindowBuzzer(log Logger) Buzzer   { return newEbitenBuzzer(log) }
