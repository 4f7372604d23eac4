//go:build !raspi && cgo

package hal

import (
	"fmt"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2/audio"
)

// ebitenBuzzer plays the tone through Ebiten's audio package. It must be
// used by the window runner only: Ebiten owns the process-wide audio context.
type ebitenBuzzer struct {
	mu     sync.Mutex
	log    Logger
	tone   *toneReader
	player *audio.Player
	failed bool
}

func newEbitenBuzzer(log Logger) *ebitenBuzzer {
	return &ebitenBuzzer{log: log, tone: newToneReader(toneSampleRate)}
}

func (b *ebitenBuzzer) start() error {
	if b.player != nil || b.failed {
		return nil
	}
	ctx := audio.CurrentContext()
	if ctx == nil {
		ctx = audio.NewContext(toneSampleRate)
	}
	p, err := ctx.NewPlayer(b.tone)
	if err != nil {
		b.failed = true
		return fmt.Errorf("buzzer: %w", err)
	}
	p.SetBufferSize(50 * time.Millisecond)
	p.Play()
	b.player = p
	b.log.WriteLineString("debug: buzzer: audio started")
	return nil
}

func (b *ebitenBuzzer) Tone(hz uint32) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tone.set(hz)
	if hz == 0 {
		return nil
	}
	return b.start()
}

func (b *ebitenBuzzer) Off() error { return b.Tone(0) }
