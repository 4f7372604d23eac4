//go:build !raspi

package hal

import "time"

// hostTime turns elapsed wall time into millisecond ticks. Ticks are pushed
// only when a runner calls advance, so the stream follows the front-end's
// frame rate; a full channel drops ticks.
type hostTime struct {
	ch    chan uint64
	seq   uint64
	clock func() time.Time

	last time.Time
	acc  time.Duration
}

func newHostTime() *hostTime {
	return &hostTime{ch: make(chan uint64, 1024), clock: time.Now}
}

func (t *hostTime) Ticks() <-chan uint64 { return t.ch }

func (t *hostTime) advance() {
	now := t.clock()
	if t.last.IsZero() {
		t.last = now
		t.push(1)
		return
	}

	t.acc += now.Sub(t.last)
	t.last = now
	n := t.acc / time.Millisecond
	if n <= 0 {
		return
	}
	t.acc -= n * time.Millisecond
	t.push(uint64(n))
}

func (t *hostTime) push(n uint64) {
	for ; n > 0; n-- {
		t.seq++
		select {
		case t.ch <- t.seq:
		default:
		}
	}
}
