//go:build !raspi

package hal

import (
	"fmt"
	"math"
	"sync"
	"time"
)

type hostHAL struct {
	logger  *zapLogger
	fb      *monoFramebuffer
	buttons *buttonBank
	t       *hostTime
	rtc     *hostRTC
	backup  Backup
	env     *hostEnv
	buzzer  Buzzer
}

// newHost starts with a buzzer that only logs. The runners replace it with
// one for their audio backend.
func newHost(opts Options) (*hostHAL, error) {
	logger, err := newZapLogger(opts)
	if err != nil {
		return nil, err
	}
	return &hostHAL{
		logger:  logger,
		fb:      newMonoFramebuffer(PanelWidth, PanelHeight),
		buttons: newButtonBank(1),
		t:       newHostTime(),
		rtc:     newHostRTC(time.Now),
		backup:  openBackup(opts, logger),
		env:     newHostEnv(time.Now),
		buzzer:  &logBuzzer{log: logger},
	}, nil
}

func (h *hostHAL) Logger() Logger     { return h.logger }
func (h *hostHAL) Display() Display   { return hostDisplay{fb: h.fb} }
func (h *hostHAL) Buttons() Buttons   { return h.buttons }
func (h *hostHAL) Time() Time         { return h.t }
func (h *hostHAL) RTC() RTC           { return h.rtc }
func (h *hostHAL) Backup() Backup     { return h.backup }
func (h *hostHAL) Env() EnvSensor     { return h.env }
func (h *hostHAL) Buzzer() Buzzer     { return h.buzzer }
func (h *hostHAL) setBuzzer(b Buzzer) { h.buzzer = b }

func (h *hostHAL) close() {
	if err := closeBackup(h.backup); err != nil {
		h.logger.WriteLineString("warn: backup: close: " + err.Error())
	}
	_ = h.logger.Sync()
}

type hostDisplay struct {
	fb *monoFramebuffer
}

func (d hostDisplay) Framebuffer() Framebuffer { return d.fb }

// hostRTC is a clock that starts unset at 0 and advances with wall time.
type hostRTC struct {
	mu   sync.Mutex
	now  func() time.Time
	base uint32
	at   time.Time
}

func newHostRTC(now func() time.Time) *hostRTC {
	return &hostRTC{now: now, at: now()}
}

func (r *hostRTC) Now() (uint32, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	elapsed := r.now().Sub(r.at)
	if elapsed < 0 {
		elapsed = 0
	}
	return r.base + uint32(elapsed/time.Second), nil
}

func (r *hostRTC) Set(epoch uint32) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.base = epoch
	r.at = r.now()
	return nil
}

// hostEnv synthesizes a slowly drifting indoor climate.
type hostEnv struct {
	now   func() time.Time
	start time.Time
}

func newHostEnv(now func() time.Time) *hostEnv {
	return &hostEnv{now: now, start: now()}
}

func (e *hostEnv) Measure() (Measurement, error) {
	phase := e.now().Sub(e.start).Hours() * 2 * math.Pi / 24
	return Measurement{
		Temperature: int32(21500 + 1500*math.Sin(phase)),
		Pressure:    int32(101325000 + 450000*math.Cos(phase/3)),
		Humidity:    int32(4500 + 800*math.Sin(phase/2)),
	}, nil
}

// logBuzzer stands in for audio output by logging tone changes.
type logBuzzer struct {
	log Logger
	hz  uint32
}

func (b *logBuzzer) Tone(hz uint32) error {
	if hz != b.hz {
		b.hz = hz
		b.log.WriteLineString(fmt.Sprintf("debug: buzzer: tone %d Hz", hz))
	}
	return nil
}

func (b *logBuzzer) Off() error { return b.Tone(0) }
