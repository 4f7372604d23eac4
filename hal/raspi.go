//go:build raspi

package hal

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/stianeikeland/go-rpio/v4"
	"tinygo.org/x/drivers/bme280"
	"tinygo.org/x/drivers/pcf8523"
)

// Board wiring (BCM numbering).
const (
	pinCancel = 5
	pinMinus  = 6
	pinPlus   = 13
	pinOk     = 19
	pinBuzzer = 18

	i2cBusNumber = 1
	fbDevice     = "/dev/fb0"
)

type piHAL struct {
	logger  *zapLogger
	fb      *monoFramebuffer
	buttons *buttonBank
	pins    [ButtonCount]rpio.Pin
	t       *piTime
	bus     *i2cBus
	rtc     *piRTC
	backup  Backup
	env     *piEnv
	buzzer  *piBuzzer
	fbdev   *fbDev
}

func newPi(opts Options) (*piHAL, error) {
	logger, err := newZapLogger(opts)
	if err != nil {
		return nil, err
	}
	if err := rpio.Open(); err != nil {
		return nil, fmt.Errorf("gpio: %w", err)
	}

	h := &piHAL{
		logger:  logger,
		fb:      newMonoFramebuffer(PanelWidth, PanelHeight),
		buttons: newButtonBank(debounceSamples),
		pins:    [ButtonCount]rpio.Pin{pinCancel, pinMinus, pinPlus, pinOk},
		t:       &piTime{ch: make(chan uint64, 1024)},
		bus:     newI2CBus(i2cBusNumber),
		backup:  openBackup(opts, logger),
		buzzer:  newPiBuzzer(rpio.Pin(pinBuzzer)),
	}
	for _, p := range h.pins {
		p.Input()
		p.PullUp()
	}

	rtc := pcf8523.New(h.bus)
	h.rtc = &piRTC{dev: &rtc, bus: h.bus}

	env := bme280.New(h.bus)
	env.Configure()
	if !env.Connected() {
		logger.WriteLineString("warn: env: bme280 not detected")
	}
	h.env = &piEnv{dev: &env}

	if d, err := openFbDev(fbDevice); err != nil {
		logger.WriteLineString("warn: display: " + err.Error())
	} else {
		h.fbdev = d
		h.fb.push = d.write
	}
	return h, nil
}

func (h *piHAL) Logger() Logger   { return h.logger }
func (h *piHAL) Display() Display { return piDisplay{fb: h.fb} }
func (h *piHAL) Buttons() Buttons { return h.buttons }
func (h *piHAL) Time() Time       { return h.t }
func (h *piHAL) RTC() RTC         { return h.rtc }
func (h *piHAL) Backup() Backup   { return h.backup }
func (h *piHAL) Env() EnvSensor   { return h.env }
func (h *piHAL) Buzzer() Buzzer   { return h.buzzer }

func (h *piHAL) close() {
	_ = h.buzzer.Off()
	_ = h.bus.Close()
	if h.fbdev != nil {
		_ = h.fbdev.Close()
	}
	_ = rpio.Close()
	if err := closeBackup(h.backup); err != nil {
		h.logger.WriteLineString("warn: backup: close: " + err.Error())
	}
	_ = h.logger.Sync()
}

// sampleButtons reads the active-low button pins once.
func (h *piHAL) sampleButtons() {
	for i, p := range h.pins {
		h.buttons.sample(Button(i), p.Read() == rpio.Low)
	}
}

type piDisplay struct {
	fb *monoFramebuffer
}

func (d piDisplay) Framebuffer() Framebuffer { return d.fb }

type piTime struct {
	ch  chan uint64
	seq uint64
}

func (t *piTime) Ticks() <-chan uint64 { return t.ch }

func (t *piTime) tick() {
	t.seq++
	select {
	case t.ch <- t.seq:
	default:
	}
}

// RunConfig controls the Raspberry Pi runner.
type RunConfig struct {
	// StepEvery is the number of millisecond ticks between app steps.
	StepEvery int
}

// Run samples the buttons every millisecond and steps the app until ctx is
// done.
func Run(ctx context.Context, opts Options, newApp func(HAL) func() error, cfg RunConfig) error {
	if cfg.StepEvery <= 0 {
		cfg.StepEvery = 10
	}
	h, err := newPi(opts)
	if err != nil {
		return err
	}
	defer h.close()
	step := newApp(h)

	t := time.NewTicker(time.Millisecond)
	defer t.Stop()
	for n := 1; ; n++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			h.sampleButtons()
			h.t.tick()
			if step != nil && n%cfg.StepEvery == 0 {
				if err := step(); err != nil {
					return err
				}
			}
		}
	}
}

// pcf8523 seconds register; bit 7 flags an oscillator stop.
const pcf8523Seconds = 0x03

type piRTC struct {
	dev *pcf8523.Device
	bus *i2cBus
}

// Now reports 0 after the oscillator stopped, so a clock that lost power
// reads as unset.
func (r *piRTC) Now() (uint32, error) {
	var sec [1]byte
	if err := r.bus.Tx(uint16(r.dev.Address), []byte{pcf8523Seconds}, sec[:]); err != nil {
		return 0, fmt.Errorf("rtc: %w", err)
	}
	if sec[0]&0x80 != 0 {
		return 0, nil
	}
	t, err := r.dev.ReadTime()
	if err != nil {
		return 0, fmt.Errorf("rtc: %w", err)
	}
	u := t.Unix()
	if u < 0 || u > int64(^uint32(0)) {
		return 0, nil
	}
	return uint32(u), nil
}

func (r *piRTC) Set(epoch uint32) error {
	if err := r.dev.SetTime(time.Unix(int64(epoch), 0).UTC()); err != nil {
		return fmt.Errorf("rtc: %w", err)
	}
	return nil
}

type piEnv struct {
	dev *bme280.Device
}

func (e *piEnv) Measure() (Measurement, error) {
	var m Measurement
	var err error
	if m.Temperature, err = e.dev.ReadTemperature(); err != nil {
		return Measurement{}, fmt.Errorf("env temperature: %w", err)
	}
	if m.Pressure, err = e.dev.ReadPressure(); err != nil {
		return Measurement{}, fmt.Errorf("env pressure: %w", err)
	}
	if m.Humidity, err = e.dev.ReadHumidity(); err != nil {
		return Measurement{}, fmt.Errorf("env humidity: %w", err)
	}
	return m, nil
}

// piBuzzer drives a passive piezo with a 50% duty PWM square wave.
type piBuzzer struct {
	pin rpio.Pin
	hz  uint32
}

func newPiBuzzer(pin rpio.Pin) *piBuzzer {
	pin.Mode(rpio.Pwm)
	pin.DutyCycle(0, 2)
	return &piBuzzer{pin: pin}
}

func (b *piBuzzer) Tone(hz uint32) error {
	if hz == b.hz {
		return nil
	}
	b.hz = hz
	if hz == 0 {
		b.pin.DutyCycle(0, 2)
		return nil
	}
	b.pin.Freq(int(hz) * 2)
	b.pin.DutyCycle(1, 2)
	return nil
}

func (b *piBuzzer) Off() error { return b.Tone(0) }

// fbDev mirrors presented frames onto a 16bpp Linux framebuffer device.
type fbDev struct {
	f      *os.File
	stride int
	row    []byte
}

func openFbDev(path string) (*fbDev, error) {
	name := strings.TrimPrefix(path, "/dev/")
	bpp, err := readSysfsInt("/sys/class/graphics/" + name + "/bits_per_pixel")
	if err != nil {
		return nil, err
	}
	if bpp != 16 {
		return nil, fmt.Errorf("%s: %d bits per pixel, want 16", path, bpp)
	}
	stride, err := readSysfsInt("/sys/class/graphics/" + name + "/stride")
	if err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &fbDev{f: f, stride: stride, row: make([]byte, PanelWidth*2)}, nil
}

func readSysfsInt(path string) (int, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", path, err)
	}
	v, err := strconv.Atoi(strings.TrimSpace(string(b)))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", path, err)
	}
	return v, nil
}

func (d *fbDev) write(buf []byte, full bool) error {
	stride := (PanelWidth + 7) / 8
	for y := 0; y < PanelHeight; y++ {
		monoToRGB565(d.row, len(d.row), buf[y*stride:(y+1)*stride], stride, PanelWidth, 1)
		if _, err := d.f.WriteAt(d.row, int64(y*d.stride)); err != nil {
			return fmt.Errorf("framebuffer: %w", err)
		}
	}
	return nil
}

func (d *fbDev) Close() error { return d.f.Close() }
