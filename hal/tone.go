package hal

import "sync"

const (
	toneSampleRate = 44100
	toneAmplitude  = 0x1800
)

// toneReader is an endless 16-bit little-endian stereo stream carrying a
// square wave at the current frequency, or silence.
type toneReader struct {
	mu         sync.Mutex
	sampleRate uint32
	hz         uint32
	phase      uint64
}

func newToneReader(sampleRate uint32) *toneReader {
	return &toneReader{sampleRate: sampleRate}
}

func (t *toneReader) set(hz uint32) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if hz != t.hz {
		t.hz = hz
		t.phase = 0
	}
}

func (t *toneReader) Read(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	n := len(p) - len(p)%4
	for i := 0; i < n; i += 4 {
		var s int16
		if t.hz != 0 && t.sampleRate != 0 {
			// Position within one period, scaled by 2*hz to stay integral.
			pos := (t.phase * uint64(t.hz) * 2 / uint64(t.sampleRate)) % 2
			if pos == 0 {
				s = toneAmplitude
			} else {
				s = -toneAmplitude
			}
			t.phase++
		}
		p[i+0] = byte(s)
		p[i+1] = byte(s >> 8)
		p[i+2] = byte(s)
		p[i+3] = byte(s >> 8)
	}
	return n, nil
}
