// Package calendar converts between a 32-bit seconds-since-epoch counter and
// civil date/time values.
//
// The counter covers 1970-01-01 00:00:00 through 2106-02-07 06:28:15. All
// conversions are allocation-free.
package calendar

import (
	"fmt"
	"time"
)

const (
	secondsPerDay  = 86400
	secondsPerHour = 3600
	minutesPerDay  = 24 * 60

	// EpochYear is the first representable year.
	EpochYear = 1970
)

var (
	daysInMonth     = [12]uint32{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}
	daysInMonthLeap = [12]uint32{31, 29, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}
)

// IsLeap reports whether year is a Gregorian leap year.
func IsLeap(year uint16) bool {
	if year%4 != 0 {
		return false
	}
	if year%100 != 0 {
		return true
	}
	return year%400 == 0
}

func monthTable(leap bool) *[12]uint32 {
	if leap {
		return &daysInMonthLeap
	}
	return &daysInMonth
}

// DaysInMonth returns the length of month (1..12) in year, or 0 for an
// invalid month.
func DaysInMonth(year uint16, month uint8) uint8 {
	if month == 0 || month > 12 {
		return 0
	}
	return uint8(monthTable(IsLeap(year))[month-1])
}

// DateTime is a civil date and time of day.
//
// Day is not validated against the month length; the clock editor can build
// values such as February 31.
type DateTime struct {
	Year      uint16
	Month     uint8
	Day       uint8
	Hour      uint8
	Minute    uint8
	Second    uint8
	DayOfWeek DayOfWeek
}

// FromEpoch decomposes seconds since 1970-01-01 00:00:00. It is total over
// the uint32 range.
func FromEpoch(seconds uint32) DateTime {
	days := seconds / secondsPerDay
	tod := seconds % secondsPerDay
	dow := DayOfWeekFromDays(days)

	year := uint16(EpochYear)
	var leap bool
	for {
		leap = IsLeap(year)
		if leap && days >= 366 {
			days -= 366
		} else if !leap && days >= 365 {
			days -= 365
		} else {
			break
		}
		year++
	}

	month := uint8(1)
	for _, n := range monthTable(leap) {
		if days < n {
			break
		}
		days -= n
		month++
	}

	return DateTime{
		Year:      year,
		Month:     month,
		Day:       uint8(days + 1),
		Hour:      uint8(tod / secondsPerHour),
		Minute:    uint8(tod / 60 % 60),
		Second:    uint8(tod % 60),
		DayOfWeek: dow,
	}
}

// ToEpoch converts dt back to seconds since the epoch. It returns false when
// the year precedes 1970, the month or day is zero, the month exceeds 12, or
// the result does not fit in 32 bits. DayOfWeek is ignored.
func ToEpoch(dt DateTime) (uint32, bool) {
	if dt.Year < EpochYear || dt.Month == 0 || dt.Month > 12 || dt.Day == 0 {
		return 0, false
	}

	days := uint64(dt.Day) - 1
	for y := uint16(EpochYear); y < dt.Year; y++ {
		if IsLeap(y) {
			days += 366
		} else {
			days += 365
		}
		if days > maxDays {
			return 0, false
		}
	}
	for _, n := range monthTable(IsLeap(dt.Year))[:dt.Month-1] {
		days += uint64(n)
	}

	epoch := days*secondsPerDay +
		uint64(dt.Hour)*secondsPerHour +
		uint64(dt.Minute)*60 +
		uint64(dt.Second)
	if days > maxDays || epoch > maxEpoch {
		return 0, false
	}
	return uint32(epoch), true
}

const (
	maxEpoch = uint64(^uint32(0))
	maxDays  = maxEpoch / secondsPerDay
)

// FromTime returns the wall clock reading of t in its own location.
func FromTime(t time.Time) DateTime {
	return DateTime{
		Year:      uint16(t.Year()),
		Month:     uint8(t.Month()),
		Day:       uint8(t.Day()),
		Hour:      uint8(t.Hour()),
		Minute:    uint8(t.Minute()),
		Second:    uint8(t.Second()),
		DayOfWeek: DayOfWeek((int(t.Weekday()) + DaysPerWeek - 1) % DaysPerWeek),
	}
}

// MinuteOfDay returns hour*60+minute.
func (dt DateTime) MinuteOfDay() uint32 {
	return uint32(dt.Hour)*60 + uint32(dt.Minute)
}

// Midnight reports whether dt is exactly 00:00:00.
func (dt DateTime) Midnight() bool {
	return dt.Hour == 0 && dt.Minute == 0 && dt.Second == 0
}

func (dt DateTime) String() string {
	return fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%02d (%s)",
		dt.Year, dt.Month, dt.Day, dt.Hour, dt.Minute, dt.Second, dt.DayOfWeek)
}
