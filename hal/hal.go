package hal

import "errors"

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

var ErrNotImplemented = errors.New("not implemented")

// Panel geometry of the e-paper display.
const (
	PanelWidth  = 296
	PanelHeight = 128
)

// PixelFormat defines the framebuffer pixel encoding.
type PixelFormat uint8

const (
	// PixelFormatMono is 1bpp, most significant bit first. A set bit is
	// black.
	PixelFormatMono PixelFormat = iota + 1
)

// Framebuffer is a simple pixel buffer plus a "present" hook.
type Framebuffer interface {
	Width() int
	Height() int
	Format() PixelFormat
	StrideBytes() int
	Buffer() []byte
	// Clear turns every pixel white.
	Clear()
	// Present pushes the buffer to the panel. A full refresh is slower but
	// clears ghosting on panels that have it.
	Present(full bool) error
}

// Display provides access to the framebuffer (if available).
type Display interface {
	Framebuffer() Framebuffer
}

// Button identifies one of the four front buttons.
type Button uint8

const (
	ButtonCancel Button = iota
	ButtonMinus
	ButtonPlus
	ButtonOk

	ButtonCount
)

func (b Button) String() string {
	switch b {
	case ButtonCancel:
		return "cancel"
	case ButtonMinus:
		return "minus"
	case ButtonPlus:
		return "plus"
	case ButtonOk:
		return "ok"
	default:
		return "button(?)"
	}
}

// ButtonEvent is a debounced button transition.
type ButtonEvent struct {
	Button Button
	Press  bool
}

// Buttons provides button events.
type Buttons interface {
	Events() <-chan ButtonEvent
}

// Time provides a base tick stream with one tick per millisecond.
type Time interface {
	Ticks() <-chan uint64
}

// RTC is the battery-backed real-time clock, counting seconds since
// 1970-01-01 00:00:00.
type RTC interface {
	Now() (uint32, error)
	Set(epoch uint32) error
}

// Backup is a small bank of 16-bit registers that survive power loss.
type Backup interface {
	Registers() int
	ReadRegister(i int) (uint16, error)
	WriteRegister(i int, v uint16) error
}

// Measurement is one environment sensor reading.
type Measurement struct {
	// Temperature in thousandths of a degree Celsius.
	Temperature int32
	// Pressure in thousandths of a pascal.
	Pressure int32
	// Humidity in hundredths of a percent; zero when the sensor has none.
	Humidity int32
}

// EnvSensor reads temperature, pressure and humidity.
type EnvSensor interface {
	Measure() (Measurement, error)
}

// Buzzer plays a single square-wave tone.
type Buzzer interface {
	// Tone starts a tone at hz, replacing the current one. Zero is silence.
	Tone(hz uint32) error
	Off() error
}

// HAL provides the only contact point between the clock and the outside
// world.
type HAL interface {
	Logger() Logger
	Display() Display
	Buttons() Buttons
	Time() Time
	RTC() RTC
	Backup() Backup
	Env() EnvSensor
	Buzzer() Buzzer
}
