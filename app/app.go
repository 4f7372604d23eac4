package app

import (
	"fmt"
	"time"

	"bedclock/clockos/alarm"
	"bedclock/clockos/calendar"
	"bedclock/clockos/render"
	"bedclock/clockos/sound"
	"bedclock/clockos/ui"
	"bedclock/hal"
)

// unsetClock is the RTC reading below which the clock is considered never
// set.
const unsetClock = 100

// catchUpSeconds bounds how many seconds missed between two steps are still
// checked for alarms.
const catchUpSeconds = 120

// Config holds the dispatcher policy.
type Config struct {
	// Start seeds the RTC when it reports an unset clock.
	Start uint32
	// Inactivity is how long the menus stay open without a button press.
	Inactivity time.Duration
	// Ring is how long an alarm keeps playing unless cancelled.
	Ring time.Duration
	// Alarms are the slots used when the backup registers hold none.
	Alarms alarm.Manager
	Melody sound.Melody
}

// DefaultConfig returns the stock policy: seed at 2018-09-01 23:59:40, ten
// minutes of inactivity, ten minutes of ringing.
func DefaultConfig() Config {
	return Config{
		Start:      1535846380,
		Inactivity: 10 * time.Minute,
		Ring:       10 * time.Minute,
		Alarms:     alarm.NewManager(),
		Melody:     sound.Chimes,
	}
}

type system struct {
	h   hal.HAL
	log hal.Logger
	cfg Config

	model  ui.Model
	alarms alarm.Manager
	mb     mailbox
	frame  ui.Frame
	player *sound.Player

	now        uint64
	second     uint32
	haveSecond bool
	lastInput  uint64

	dirty  bool
	full   bool
	halted bool
}

// New boots the clock with DefaultConfig and returns its step function.
func New(h hal.HAL) func() error {
	return NewWithConfig(h, DefaultConfig())
}

// NewWithConfig boots the clock and returns its step function. The HAL
// runner calls it repeatedly from a single goroutine.
func NewWithConfig(h hal.HAL, cfg Config) func() error {
	s := newSystem(h, cfg)
	return s.Step
}

func newSystem(h hal.HAL, cfg Config) *system {
	s := &system{
		h:      h,
		log:    h.Logger(),
		cfg:    cfg,
		model:  ui.NewModel(),
		alarms: cfg.Alarms,
		player: sound.NewPlayer(h.Buzzer()),
		dirty:  true,
		full:   true,
	}
	s.restoreAlarms()
	s.seedClock()
	s.post(ui.AlarmManagerReplaced(s.alarms))
	s.logf("boot: inactivity=%s ring=%s", cfg.Inactivity, cfg.Ring)
	return s
}

// Step runs one dispatcher iteration. After a panic the panic screen stays
// up and Step does nothing.
func (s *system) Step() (err error) {
	if s.halted {
		return nil
	}
	defer func() {
		if v := recover(); v != nil {
			s.panicScreen(v)
		}
	}()

	s.drainTicks()
	s.drainButtons()
	s.pollClock()
	s.checkInactivity()
	s.dispatch()
	return s.present()
}

func (s *system) logf(format string, args ...any) {
	if s.log == nil {
		return
	}
	s.log.WriteLineString(fmt.Sprintf(format, args...))
}

func (s *system) post(msg ui.Msg) {
	if !s.mb.push(msg) {
		s.logf("warn: mailbox: full, dropped kind=%s", msg.Kind)
	}
}

func (s *system) drainTicks() {
	t := s.h.Time()
	if t == nil {
		return
	}
	ch := t.Ticks()
	for {
		select {
		case seq, ok := <-ch:
			if !ok {
				return
			}
			s.now = seq
			if err := s.player.Advance(seq); err != nil {
				s.logf("error: buzzer: %v", err)
			}
		default:
			return
		}
	}
}

var buttonMsgs = [hal.ButtonCount]func() ui.Msg{
	hal.ButtonCancel: ui.ButtonCancel,
	hal.ButtonMinus:  ui.ButtonMinus,
	hal.ButtonPlus:   ui.ButtonPlus,
	hal.ButtonOk:     ui.ButtonOk,
}

func (s *system) drainButtons() {
	b := s.h.Buttons()
	if b == nil {
		return
	}
	ch := b.Events()
	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				return
			}
			if !ev.Press || ev.Button >= hal.ButtonCount {
				continue
			}
			s.lastInput = s.now
			if ev.Button == hal.ButtonCancel && s.player.Playing() {
				if err := s.player.Stop(); err != nil {
					s.logf("error: buzzer: %v", err)
				}
				s.logf("alarm: cancelled")
			}
			s.post(buttonMsgs[ev.Button]())
		default:
			return
		}
	}
}

// pollClock reacts to a new RTC second: alarms, clock tick and a sensor
// sample.
func (s *system) pollClock() {
	rtc := s.h.RTC()
	if rtc == nil {
		return
	}
	epoch, err := rtc.Now()
	if err != nil {
		s.logf("error: rtc: read: %v", err)
		return
	}
	if s.haveSecond && epoch == s.second {
		return
	}
	from := epoch
	if s.haveSecond && epoch > s.second && epoch-s.second > 1 {
		gap := epoch - s.second - 1
		s.logf("warn: rtc: %d seconds skipped before %d", gap, epoch)
		if gap <= catchUpSeconds {
			from = s.second + 1
		}
	}
	s.second, s.haveSecond = epoch, true
	now := calendar.FromEpoch(epoch)

	var fired uint8
	for e := from; ; e++ {
		fired |= s.alarms.MustRingSlots(calendar.FromEpoch(e))
		if e == epoch {
			break
		}
	}
	if fired != 0 {
		s.logf("alarm: ring slots=%05b at=%s", fired, now)
		if err := s.player.Play(s.cfg.Melody, s.now, s.cfg.Ring); err != nil {
			s.logf("error: buzzer: %v", err)
		}
		for i := 0; i < alarm.Slots; i++ {
			if fired&(1<<i) != 0 && s.alarms.Alarms[i].Mode.Has(alarm.OneTime) {
				s.storeAlarm(i, s.alarms.Alarms[i])
			}
		}
		s.post(ui.AlarmManagerReplaced(s.alarms))
	}
	s.post(ui.DateTimeTick(now))
	s.sampleEnvironment()
}

func (s *system) sampleEnvironment() {
	env := s.h.Env()
	if env == nil {
		return
	}
	m, err := env.Measure()
	if err != nil {
		s.logf("warn: env: measure: %v", err)
		s.post(ui.EnvironmentSampleFailed())
		return
	}
	s.post(ui.EnvironmentSample(environment(m)))
}

// environment scales a sensor reading to the units the screen shows.
func environment(m hal.Measurement) ui.Environment {
	var e ui.Environment
	if m.Pressure > 0 {
		e.Pressure = uint32(m.Pressure / 1000)
	}
	t := m.Temperature / 10
	switch {
	case t > 32767:
		t = 32767
	case t < -32768:
		t = -32768
	}
	e.Temperature = int16(t)
	h := m.Humidity / 100
	switch {
	case h > 100:
		h = 100
	case h < 0:
		h = 0
	}
	e.Humidity = uint8(h)
	return e
}

func (s *system) checkInactivity() {
	if s.cfg.Inactivity <= 0 || s.model.Screen().Kind == ui.ScreenClock {
		return
	}
	if s.now-s.lastInput >= uint64(s.cfg.Inactivity/time.Millisecond) {
		s.lastInput = s.now
		s.post(ui.GoToClock())
	}
}

func (s *system) dispatch() {
	for {
		msg, ok := s.mb.pop()
		if !ok {
			return
		}
		cmds := s.model.Update(msg)
		s.dirty = true
		for _, cmd := range cmds.All() {
			s.exec(cmd)
		}
	}
}

func (s *system) exec(cmd ui.Cmd) {
	switch cmd.Kind {
	case ui.CmdUpdateRealTimeClock:
		epoch, ok := calendar.ToEpoch(cmd.DateTime)
		if !ok {
			s.logf("warn: rtc: date out of range: %s", cmd.DateTime)
			return
		}
		if rtc := s.h.RTC(); rtc != nil {
			if err := rtc.Set(epoch); err != nil {
				s.logf("error: rtc: set: %v", err)
				return
			}
		}
		s.second, s.haveSecond = epoch, true
		now := calendar.FromEpoch(epoch)
		s.logf("rtc: set to %s", now)
		s.post(ui.DateTimeTick(now))
	case ui.CmdPersistAlarm:
		if cmd.Slot < 0 || cmd.Slot >= alarm.Slots {
			s.logf("warn: alarm: bad slot=%d", cmd.Slot)
			return
		}
		s.alarms.Alarms[cmd.Slot] = cmd.Alarm
		s.storeAlarm(cmd.Slot, cmd.Alarm)
		s.post(ui.AlarmManagerReplaced(s.alarms))
	case ui.CmdRequestFullRedraw:
		s.full = true
	}
}

func (s *system) present() error {
	if !s.dirty {
		return nil
	}
	d := s.h.Display()
	if d == nil {
		s.dirty = false
		return nil
	}
	fb := d.Framebuffer()
	if fb == nil {
		s.dirty = false
		return nil
	}
	s.model.View(&s.frame)
	if err := render.Draw(&s.frame, render.NewDisplayer(fb)); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	full := s.full
	s.dirty, s.full = false, false
	if err := fb.Present(full); err != nil {
		return fmt.Errorf("present: %w", err)
	}
	return nil
}
