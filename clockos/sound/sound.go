// Package sound sequences the alarm melody on a buzzer.
package sound

import (
	"time"

	"bedclock/hal"
)

// Note is a tone of Hz for Ms milliseconds. Zero Hz is a rest.
type Note struct {
	Hz uint32
	Ms uint32
}

// Melody loops until the ring time is over.
type Melody []Note

func (m Melody) period() uint64 {
	var p uint64
	for _, n := range m {
		p += uint64(n.Ms)
	}
	return p
}

// at returns the pitch sounding pos milliseconds into the melody.
func (m Melody) at(pos uint64) uint32 {
	for _, n := range m {
		if pos < uint64(n.Ms) {
			return n.Hz
		}
		pos -= uint64(n.Ms)
	}
	return 0
}

const (
	e5 = 659
	d5 = 587
	c5 = 523
	g4 = 392
)

// Chimes is the first two Westminster quarters with a pause after each.
var Chimes = Melody{
	{e5, 450}, {c5, 450}, {d5, 450}, {g4, 900}, {0, 450},
	{g4, 450}, {d5, 450}, {e5, 450}, {c5, 900}, {0, 1350},
}

// Player plays a melody on a buzzer, driven by millisecond ticks.
type Player struct {
	buzzer hal.Buzzer

	melody  Melody
	period  uint64
	start   uint64
	end     uint64
	playing bool
	hz      uint32
}

func NewPlayer(b hal.Buzzer) *Player {
	return &Player{buzzer: b}
}

// Play starts m at tick now and keeps it looping for d.
func (p *Player) Play(m Melody, now uint64, d time.Duration) error {
	period := m.period()
	if period == 0 || d <= 0 {
		return p.Stop()
	}
	p.melody = m
	p.period = period
	p.start = now
	p.end = now + uint64(d/time.Millisecond)
	p.playing = true
	p.hz = 0
	return p.Advance(now)
}

// Stop silences the buzzer.
func (p *Player) Stop() error {
	p.playing = false
	p.hz = 0
	if p.buzzer == nil {
		return nil
	}
	return p.buzzer.Off()
}

func (p *Player) Playing() bool { return p.playing }

// Advance updates the tone for tick now and stops once the ring time has
// passed.
func (p *Player) Advance(now uint64) error {
	if !p.playing {
		return nil
	}
	if now >= p.end {
		return p.Stop()
	}
	hz := p.melody.at((now - p.start) % p.period)
	if hz == p.hz {
		return nil
	}
	p.hz = hz
	if p.buzzer == nil {
		return nil
	}
	return p.buzzer.Tone(hz)
}
