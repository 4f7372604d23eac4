// Package alarm holds the alarm slots of the clock and answers the two
// scheduling questions the device needs: must an alarm ring now, and when is
// the next ring.
package alarm

import (
	"errors"
	"strconv"

	"bedclock/clockos/calendar"
)

var (
	ErrInvalidHour   = errors.New("alarm: hour out of range")
	ErrInvalidMinute = errors.New("alarm: minute out of range")
)

// Mode selects the weekdays an alarm repeats on, or OneTime.
type Mode uint8

const (
	Monday Mode = 1 << iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
	OneTime

	Weekdays = Monday | Tuesday | Wednesday | Thursday | Friday
	EveryDay = Weekdays | Saturday | Sunday

	DefaultMode = Weekdays
)

// ModeOf returns the flag of a weekday.
func ModeOf(d calendar.DayOfWeek) Mode {
	if d >= calendar.DaysPerWeek {
		return 0
	}
	return Mode(1) << d
}

// Has reports whether all flags of f are set.
func (m Mode) Has(f Mode) bool { return m&f == f }

// HasDay reports whether the weekday flag of d is set.
func (m Mode) HasDay(d calendar.DayOfWeek) bool {
	f := ModeOf(d)
	return f != 0 && m&f != 0
}

// Toggle flips the flags of f.
func (m *Mode) Toggle(f Mode) { *m ^= f }

// Empty reports whether no flag is set.
func (m Mode) Empty() bool { return m == 0 }

// Alarm is one alarm slot. Hour and minute are kept in range by the setters.
type Alarm struct {
	Enabled bool
	Mode    Mode

	hour   uint8
	minute uint8
}

// Default returns a disabled 12:00 alarm ringing on weekdays.
func Default() Alarm {
	return Alarm{hour: 12, Mode: DefaultMode}
}

// New returns an alarm at hour:minute with the given mode.
func New(enabled bool, hour, minute uint8, mode Mode) (Alarm, error) {
	a := Alarm{Enabled: enabled, Mode: mode}
	if err := a.SetHour(hour); err != nil {
		return Alarm{}, err
	}
	if err := a.SetMinute(minute); err != nil {
		return Alarm{}, err
	}
	return a, nil
}

func (a Alarm) Hour() uint8   { return a.hour }
func (a Alarm) Minute() uint8 { return a.minute }

// SetHour sets the hour. Values above 23 are rejected and leave a unchanged.
func (a *Alarm) SetHour(h uint8) error {
	if h >= 24 {
		return ErrInvalidHour
	}
	a.hour = h
	return nil
}

// SetMinute sets the minute. Values above 59 are rejected and leave a
// unchanged.
func (a *Alarm) SetMinute(m uint8) error {
	if m >= 60 {
		return ErrInvalidMinute
	}
	a.minute = m
	return nil
}

func (a Alarm) minuteOfDay() uint32 {
	return uint32(a.hour)*60 + uint32(a.minute)
}

// MustRing reports whether the alarm fires at now. Alarms fire only on the
// first second of their minute. A OneTime alarm disarms itself when it fires.
func (a *Alarm) MustRing(now calendar.DateTime) bool {
	if !a.Enabled {
		return false
	}
	if now.Second != 0 || now.Hour != a.hour || now.Minute != a.minute {
		return false
	}
	if a.Mode.Has(OneTime) {
		a.Enabled = false
		return true
	}
	return a.Mode.HasDay(now.DayOfWeek)
}

// Ring is a predicted ring: weekday and time of day, plus the slot that
// produced it.
type Ring struct {
	Day    calendar.DayOfWeek
	Hour   uint8
	Minute uint8
	Slot   int
}

// NextRing returns the first occurrence of the alarm strictly after now.
// Disabled alarms and repeating alarms without any weekday never ring.
func (a Alarm) NextRing(now calendar.DateTime) (Ring, bool) {
	if !a.Enabled || a.Mode.Empty() {
		return Ring{}, false
	}
	day := now.DayOfWeek
	if a.minuteOfDay() <= now.MinuteOfDay() {
		day = day.Next()
	}
	if !a.Mode.Has(OneTime) {
		if a.Mode&EveryDay == 0 {
			return Ring{}, false
		}
		for !a.Mode.HasDay(day) {
			day = day.Next()
		}
	}
	return Ring{Day: day, Hour: a.hour, Minute: a.minute, Slot: -1}, true
}

// distance returns the number of minutes from the start of now's day until
// r, pushing rings already passed today to next week.
func (r Ring) distance(now calendar.DateTime) uint32 {
	days := now.DayOfWeek.DaysUntil(r.Day)
	tod := uint32(r.Hour)*60 + uint32(r.Minute)
	if r.Day == now.DayOfWeek && tod <= now.MinuteOfDay() {
		days += calendar.DaysPerWeek
	}
	return days*24*60 + tod
}

func (a Alarm) String() string {
	var buf [40]byte
	return string(a.AppendText(buf[:0]))
}

// AppendText appends the display form of a, e.g. "On  07:25 Mo Tu".
func (a Alarm) AppendText(b []byte) []byte {
	if a.Enabled {
		b = append(b, "On  "...)
	} else {
		b = append(b, "Off "...)
	}
	b = appendTwoDigits(b, a.hour)
	b = append(b, ':')
	b = appendTwoDigits(b, a.minute)
	switch {
	case a.Mode.Has(OneTime):
		b = append(b, " one time"...)
	case a.Mode.Empty():
		b = append(b, " never"...)
	default:
		for d := calendar.Monday; d < calendar.DaysPerWeek; d++ {
			if a.Mode.HasDay(d) {
				b = append(b, ' ')
				b = append(b, d.Short()...)
			}
		}
	}
	return b
}

func appendTwoDigits(b []byte, v uint8) []byte {
	if v < 10 {
		b = append(b, '0')
	}
	return strconv.AppendUint(b, uint64(v), 10)
}
