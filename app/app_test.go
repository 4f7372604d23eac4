package app

import (
	"errors"
	"strings"
	"testing"
	"time"

	"bedclock/clockos/alarm"
	"bedclock/clockos/calendar"
	"bedclock/clockos/ui"
	"bedclock/hal"
)

type fakeLog struct{ lines []string }

func (l *fakeLog) WriteLineString(s string) { l.lines = append(l.lines, s) }
func (l *fakeLog) WriteLineBytes(b []byte)  { l.lines = append(l.lines, string(b)) }

func (l *fakeLog) contains(sub string) bool {
	for _, line := range l.lines {
		if strings.Contains(line, sub) {
			return true
		}
	}
	return false
}

type fakeFB struct {
	buf      []byte
	presents int
	fulls    int
}

func newFakeFB() *fakeFB {
	return &fakeFB{buf: make([]byte, hal.PanelWidth/8*hal.PanelHeight)}
}

func (f *fakeFB) Width() int                   { return hal.PanelWidth }
func (f *fakeFB) Height() int                  { return hal.PanelHeight }
func (f *fakeFB) Format() hal.PixelFormat      { return hal.PixelFormatMono }
func (f *fakeFB) StrideBytes() int             { return hal.PanelWidth / 8 }
func (f *fakeFB) Buffer() []byte               { return f.buf }
func (f *fakeFB) Framebuffer() hal.Framebuffer { return f }

func (f *fakeFB) Clear() {
	for i := range f.buf {
		f.buf[i] = 0
	}
}

func (f *fakeFB) Present(full bool) error {
	f.presents++
	if full {
		f.fulls++
	}
	return nil
}

func (f *fakeFB) inked() bool {
	for _, b := range f.buf {
		if b != 0 {
			return true
		}
	}
	return false
}

type fakeRTC struct {
	epoch uint32
	sets  int
	err   error
}

func (r *fakeRTC) Now() (uint32, error) { return r.epoch, r.err }

func (r *fakeRTC) Set(epoch uint32) error {
	r.epoch = epoch
	r.sets++
	return nil
}

type fakeBackup struct {
	regs   [10]uint16
	writes int
}

func (b *fakeBackup) Registers() int                     { return len(b.regs) }
func (b *fakeBackup) ReadRegister(i int) (uint16, error) { return b.regs[i], nil }

func (b *fakeBackup) WriteRegister(i int, v uint16) error {
	b.regs[i] = v
	b.writes++
	return nil
}

func (b *fakeBackup) word(slot int) uint32 {
	return alarm.JoinWord(b.regs[2*slot], b.regs[2*slot+1])
}

func (b *fakeBackup) store(slot int, a alarm.Alarm) {
	b.regs[2*slot], b.regs[2*slot+1] = alarm.SplitWord(alarm.Encode(a))
}

type fakeEnv struct {
	m     hal.Measurement
	err   error
	panic bool
}

func (e *fakeEnv) Measure() (hal.Measurement, error) {
	if e.panic {
		panic("sensor on fire")
	}
	return e.m, e.err
}

type fakeBuzzer struct {
	tones []uint32
	offs  int
}

func (b *fakeBuzzer) Tone(hz uint32) error {
	b.tones = append(b.tones, hz)
	return nil
}

func (b *fakeBuzzer) Off() error {
	b.offs++
	return nil
}

type fakeButtons chan hal.ButtonEvent

func (c fakeButtons) Events() <-chan hal.ButtonEvent { return c }

type fakeTime chan uint64

func (c fakeTime) Ticks() <-chan uint64 { return c }

type fakeHAL struct {
	log     *fakeLog
	fb      *fakeFB
	buttons fakeButtons
	ticks   fakeTime
	rtc     *fakeRTC
	backup  *fakeBackup
	env     *fakeEnv
	buzzer  *fakeBuzzer

	seq uint64
}

func newFakeHAL(epoch uint32) *fakeHAL {
	return &fakeHAL{
		log:     &fakeLog{},
		fb:      newFakeFB(),
		buttons: make(fakeButtons, 64),
		ticks:   make(fakeTime, 4096),
		rtc:     &fakeRTC{epoch: epoch},
		backup:  &fakeBackup{},
		env:     &fakeEnv{m: hal.Measurement{Temperature: 21500, Pressure: 101325000, Humidity: 4500}},
		buzzer:  &fakeBuzzer{},
	}
}

func (h *fakeHAL) Logger() hal.Logger   { return h.log }
func (h *fakeHAL) Display() hal.Display { return h.fb }
func (h *fakeHAL) Buttons() hal.Buttons { return h.buttons }
func (h *fakeHAL) Time() hal.Time       { return h.ticks }
func (h *fakeHAL) RTC() hal.RTC         { return h.rtc }
func (h *fakeHAL) Backup() hal.Backup   { return h.backup }
func (h *fakeHAL) Env() hal.EnvSensor   { return h.env }
func (h *fakeHAL) Buzzer() hal.Buzzer   { return h.buzzer }

// advance queues ms millisecond ticks.
func (h *fakeHAL) advance(ms int) {
	for i := 0; i < ms; i++ {
		h.seq++
		h.ticks <- h.seq
	}
}

func (h *fakeHAL) click(b hal.Button) {
	h.buttons <- hal.ButtonEvent{Button: b, Press: true}
	h.buttons <- hal.ButtonEvent{Button: b, Press: false}
}

func step(t *testing.T, s *system) {
	t.Helper()
	if err := s.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
}

func epochOf(t *testing.T, dt calendar.DateTime) uint32 {
	t.Helper()
	e, ok := calendar.ToEpoch(dt)
	if !ok {
		t.Fatalf("ToEpoch(%s) failed", dt)
	}
	return e
}

// wednesday is 2018-10-17 at hh:mm:ss.
func wednesday(t *testing.T, hh, mm, ss uint8) uint32 {
	return epochOf(t, calendar.DateTime{Year: 2018, Month: 10, Day: 17, Hour: hh, Minute: mm, Second: ss})
}

func TestBootSeedsClockAndStoresDefaults(t *testing.T) {
	h := newFakeHAL(3)
	s := newSystem(h, DefaultConfig())

	if h.rtc.epoch != 1535846380 || h.rtc.sets != 1 {
		t.Fatalf("rtc = %d after %d sets", h.rtc.epoch, h.rtc.sets)
	}
	for i := 0; i < alarm.Slots; i++ {
		a, ok := alarm.Decode(h.backup.word(i))
		if !ok || a != alarm.Default() {
			t.Fatalf("slot %d = %s (%v)", i, a, ok)
		}
	}

	step(t, s)
	if h.fb.presents != 1 || h.fb.fulls != 1 {
		t.Fatalf("presents=%d fulls=%d, want one full refresh", h.fb.presents, h.fb.fulls)
	}
	if !h.fb.inked() {
		t.Fatal("first frame is blank")
	}
	if got := s.model.Now(); got.Year != 2018 || got.Month != 9 || got.Day != 1 || got.Second != 40 {
		t.Fatalf("model time %s", got)
	}
}

func TestBootKeepsSetClock(t *testing.T) {
	h := newFakeHAL(wednesday(t, 8, 0, 0))
	newSystem(h, DefaultConfig())
	if h.rtc.sets != 0 {
		t.Fatal("a set clock was reseeded")
	}
}

func TestBootRestoresAlarms(t *testing.T) {
	h := newFakeHAL(wednesday(t, 8, 0, 0))
	stored, err := alarm.New(true, 7, 30, alarm.Weekdays)
	if err != nil {
		t.Fatal(err)
	}
	h.backup.store(2, stored)
	h.backup.regs[0] = 1

	s := newSystem(h, DefaultConfig())
	step(t, s)

	got := s.model.Alarms()
	if got.Alarms[2] != stored {
		t.Fatalf("slot 2 = %s, want %s", got.Alarms[2], stored)
	}
	if got.Alarms[0] != alarm.Default() {
		t.Fatalf("slot 0 = %s, want default", got.Alarms[0])
	}
	if a, ok := alarm.Decode(h.backup.word(0)); !ok || a != alarm.Default() {
		t.Fatal("invalid slot was not rewritten with the default")
	}
	if a, _ := alarm.Decode(h.backup.word(2)); a != stored {
		t.Fatal("valid slot was overwritten")
	}
}

func TestAlarmRingsAtMinuteAndCancelSilences(t *testing.T) {
	h := newFakeHAL(wednesday(t, 6, 59, 59))
	cfg := DefaultConfig()
	a, _ := alarm.New(true, 7, 0, alarm.Weekdays)
	cfg.Alarms.Alarms[3] = a
	s := newSystem(h, cfg)

	h.advance(10)
	step(t, s)
	if len(h.buzzer.tones) != 0 {
		t.Fatalf("rang early: %v", h.buzzer.tones)
	}

	h.rtc.epoch++
	h.advance(1000)
	step(t, s)
	if !s.player.Playing() || len(h.buzzer.tones) == 0 {
		t.Fatal("alarm did not ring at 07:00:00")
	}
	if !h.log.contains("alarm: ring slots=01000") {
		t.Fatalf("ring not logged: %q", h.log.lines)
	}

	h.advance(500)
	step(t, s)
	if !s.player.Playing() {
		t.Fatal("stopped before the ring time")
	}

	fulls := h.fb.fulls
	h.click(hal.ButtonCancel)
	step(t, s)
	if s.player.Playing() || h.buzzer.offs == 0 {
		t.Fatal("cancel did not silence the alarm")
	}
	if h.fb.fulls != fulls+1 {
		t.Fatal("cancel on the clock screen did not request a full redraw")
	}
	if a, _ := alarm.Decode(h.backup.word(3)); !a.Enabled {
		t.Fatal("repeating alarm lost its enabled flag")
	}
}

func TestAlarmStopsAfterRingTime(t *testing.T) {
	h := newFakeHAL(wednesday(t, 7, 0, 0))
	cfg := DefaultConfig()
	cfg.Ring = 2 * time.Second
	cfg.Alarms.Alarms[0], _ = alarm.New(true, 7, 0, alarm.EveryDay)
	s := newSystem(h, cfg)

	step(t, s)
	if !s.player.Playing() {
		t.Fatal("not ringing")
	}
	h.advance(2500)
	step(t, s)
	if s.player.Playing() {
		t.Fatal("still ringing after the ring time")
	}
}

func TestAlarmRingsAfterStalledStep(t *testing.T) {
	h := newFakeHAL(wednesday(t, 6, 59, 50))
	cfg := DefaultConfig()
	cfg.Alarms.Alarms[0], _ = alarm.New(true, 7, 0, alarm.Weekdays)
	s := newSystem(h, cfg)
	step(t, s)

	h.rtc.epoch += 20
	h.advance(1000)
	step(t, s)
	if !s.player.Playing() {
		t.Fatal("alarm at 07:00:00 missed while the step stalled")
	}
	if !h.log.contains("warn: rtc: 19 seconds skipped") {
		t.Fatalf("gap not logged: %q", h.log.lines)
	}
}

func TestLongGapIsNotReplayed(t *testing.T) {
	h := newFakeHAL(wednesday(t, 6, 0, 0))
	cfg := DefaultConfig()
	cfg.Alarms.Alarms[0], _ = alarm.New(true, 6, 30, alarm.Weekdays)
	s := newSystem(h, cfg)
	step(t, s)

	h.rtc.epoch = wednesday(t, 7, 0, 5)
	h.advance(1000)
	step(t, s)
	if s.player.Playing() {
		t.Fatal("alarm replayed after a long suspend")
	}
	if !h.log.contains("warn: rtc: 3604 seconds skipped") {
		t.Fatalf("gap not logged: %q", h.log.lines)
	}
}

func TestOneTimeDisarmIsPersisted(t *testing.T) {
	h := newFakeHAL(wednesday(t, 7, 0, 0))
	cfg := DefaultConfig()
	cfg.Alarms.Alarms[1], _ = alarm.New(true, 7, 0, alarm.OneTime)
	s := newSystem(h, cfg)

	step(t, s)
	if !s.player.Playing() {
		t.Fatal("one time alarm did not ring")
	}
	a, ok := alarm.Decode(h.backup.word(1))
	if !ok || a.Enabled {
		t.Fatalf("stored slot 1 = %s, want disarmed", a)
	}
	if s.model.Alarms().Alarms[1].Enabled {
		t.Fatal("model still shows the alarm armed")
	}
}

func TestPersistAlarmWritesBackup(t *testing.T) {
	h := newFakeHAL(wednesday(t, 8, 0, 0))
	s := newSystem(h, DefaultConfig())
	step(t, s)

	// Menu, Manage alarms, slot 0, toggle enable, Save and quit.
	for _, b := range []hal.Button{
		hal.ButtonOk, hal.ButtonMinus, hal.ButtonOk, hal.ButtonOk,
		hal.ButtonOk, hal.ButtonMinus, hal.ButtonOk,
	} {
		h.click(b)
	}
	step(t, s)

	if s.model.Screen().Kind != ui.ScreenClock {
		t.Fatalf("screen %s, want Clock", s.model.Screen().Kind)
	}
	a, ok := alarm.Decode(h.backup.word(0))
	if !ok || !a.Enabled || a.Hour() != 12 || a.Minute() != 0 {
		t.Fatalf("stored slot 0 = %s", a)
	}
	if !s.alarms.Alarms[0].Enabled || !s.model.Alarms().Alarms[0].Enabled {
		t.Fatal("manager copies not updated")
	}
}

func TestSetClockUpdatesRTC(t *testing.T) {
	h := newFakeHAL(wednesday(t, 8, 0, 0))
	s := newSystem(h, DefaultConfig())
	step(t, s)

	feb31 := calendar.DateTime{Year: 2019, Month: 2, Day: 31, Hour: 6, Minute: 15}
	s.exec(ui.Cmd{Kind: ui.CmdUpdateRealTimeClock, DateTime: feb31})
	step(t, s)

	if h.rtc.sets != 1 || h.rtc.epoch != epochOf(t, feb31) {
		t.Fatalf("rtc = %d after %d sets", h.rtc.epoch, h.rtc.sets)
	}
	got := s.model.Now()
	if got.Month != 3 || got.Day != 3 || got.Hour != 6 || got.Minute != 15 {
		t.Fatalf("model time %s, want 2019-03-03 06:15", got)
	}
}

func TestSetClockThroughButtons(t *testing.T) {
	h := newFakeHAL(wednesday(t, 8, 0, 0))
	s := newSystem(h, DefaultConfig())
	step(t, s)

	// Menu, Set clock, then Ok through every field.
	h.click(hal.ButtonOk)
	h.click(hal.ButtonPlus)
	h.click(hal.ButtonOk)
	for i := 0; i < 5; i++ {
		h.click(hal.ButtonOk)
	}
	step(t, s)

	if h.rtc.sets != 1 {
		t.Fatalf("rtc sets = %d", h.rtc.sets)
	}
	if h.rtc.epoch != wednesday(t, 8, 0, 0) {
		t.Fatalf("rtc = %s", calendar.FromEpoch(h.rtc.epoch))
	}
}

func TestInactivityReturnsToClock(t *testing.T) {
	h := newFakeHAL(wednesday(t, 8, 0, 0))
	cfg := DefaultConfig()
	cfg.Inactivity = 100 * time.Millisecond
	s := newSystem(h, cfg)

	h.advance(1)
	h.click(hal.ButtonOk)
	step(t, s)
	if s.model.Screen().Kind != ui.ScreenMenu {
		t.Fatalf("screen %s, want Menu", s.model.Screen().Kind)
	}

	h.advance(50)
	step(t, s)
	if s.model.Screen().Kind != ui.ScreenMenu {
		t.Fatal("left the menu too early")
	}

	fulls := h.fb.fulls
	h.advance(60)
	step(t, s)
	if s.model.Screen().Kind != ui.ScreenClock {
		t.Fatalf("screen %s, want Clock", s.model.Screen().Kind)
	}
	if h.fb.fulls != fulls+1 {
		t.Fatal("returning to the clock did not request a full redraw")
	}
}

func TestEnvironmentScaling(t *testing.T) {
	tests := []struct {
		in   hal.Measurement
		want ui.Environment
	}{
		{hal.Measurement{Temperature: 21500, Pressure: 101325000, Humidity: 4512}, ui.Environment{Pressure: 101325, Temperature: 2150, Humidity: 45}},
		{hal.Measurement{Temperature: -5009, Pressure: -1, Humidity: -3}, ui.Environment{Temperature: -500}},
		{hal.Measurement{Temperature: 400000, Humidity: 12000}, ui.Environment{Temperature: 32767, Humidity: 100}},
		{hal.Measurement{Temperature: -400000}, ui.Environment{Temperature: -32768}},
	}
	for _, tt := range tests {
		if got := environment(tt.in); got != tt.want {
			t.Errorf("environment(%+v) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestEnvironmentFailureIsCountedAndLogged(t *testing.T) {
	h := newFakeHAL(wednesday(t, 8, 0, 0))
	h.env.err = errors.New("i2c nack")
	s := newSystem(h, DefaultConfig())
	step(t, s)

	if s.model.EnvironmentFailures() != 1 {
		t.Fatalf("failures = %d", s.model.EnvironmentFailures())
	}
	if !h.log.contains("env: measure: i2c nack") {
		t.Fatalf("failure not logged: %q", h.log.lines)
	}

	h.env.err = nil
	h.rtc.epoch++
	step(t, s)
	if s.model.EnvironmentFailures() != 0 || s.model.Environment().Pressure != 101325 {
		t.Fatalf("recovery not applied: %+v", s.model.Environment())
	}
}

func TestTickOncePerSecond(t *testing.T) {
	h := newFakeHAL(wednesday(t, 8, 0, 0))
	s := newSystem(h, DefaultConfig())
	step(t, s)
	presents := h.fb.presents

	step(t, s)
	step(t, s)
	if h.fb.presents != presents {
		t.Fatal("redrew without a new second")
	}
	h.rtc.epoch++
	step(t, s)
	if h.fb.presents != presents+1 {
		t.Fatal("new second not drawn")
	}
	if s.model.Now().Second != 1 {
		t.Fatalf("model time %s", s.model.Now())
	}
}

func TestMailboxOverflowIsLogged(t *testing.T) {
	h := newFakeHAL(wednesday(t, 8, 0, 0))
	s := newSystem(h, DefaultConfig())
	for i := 0; i < 20; i++ {
		h.click(hal.ButtonPlus)
	}
	step(t, s)
	if !h.log.contains("mailbox: full") {
		t.Fatal("overflow not logged")
	}
}

func TestPanicHaltsOnPanicScreen(t *testing.T) {
	h := newFakeHAL(wednesday(t, 8, 0, 0))
	h.env.panic = true
	s := newSystem(h, DefaultConfig())

	step(t, s)
	if !s.halted {
		t.Fatal("not halted")
	}
	if !h.log.contains("bedclock panic: sensor on fire") {
		t.Fatalf("panic not logged: %q", h.log.lines)
	}
	if h.fb.fulls != 1 || !h.fb.inked() {
		t.Fatal("panic screen not presented")
	}
	if h.buzzer.offs == 0 {
		t.Fatal("buzzer not silenced")
	}

	presents := h.fb.presents
	h.rtc.epoch++
	step(t, s)
	if h.fb.presents != presents {
		t.Fatal("halted system kept drawing")
	}
}

func TestTakeRunes(t *testing.T) {
	tests := []struct {
		s          string
		n          int16
		head, tail string
	}{
		{"hello", 10, "hello", ""},
		{"hello", 2, "he", "llo"},
		{"°C°C", 3, "°C°", "C"},
		{"abc", 0, "", "abc"},
	}
	for _, tt := range tests {
		head, tail := takeRunes(tt.s, tt.n)
		if head != tt.head || tail != tt.tail {
			t.Errorf("takeRunes(%q, %d) = %q, %q", tt.s, tt.n, head, tail)
		}
	}
}
