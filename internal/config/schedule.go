package config

import (
	"errors"
	"fmt"
	"time"

	"bedclock/clockos/alarm"

	"github.com/gorhill/cronexpr"
)

var ErrSchedule = errors.New("config: schedule is not a weekly alarm")

// probeStart is a Monday at midnight. probeWeeks weeks are enough for a
// monthly expression to show an uneven week.
var probeStart = time.Date(2018, time.October, 15, 0, 0, 0, 0, time.UTC)

const probeWeeks = 8

// ParseSchedule converts a cron expression into an alarm time and weekday
// mode. The expression must fire at one time of day, on whole minutes, on
// the same weekdays every week.
func ParseSchedule(expr string) (hour, minute uint8, mode alarm.Mode, err error) {
	e, err := cronexpr.Parse(expr)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("config: schedule %q: %w", expr, err)
	}

	var weeks [probeWeeks]alarm.Mode
	first := true
	end := probeStart.AddDate(0, 0, 7*probeWeeks)
	for t := e.Next(probeStart.Add(-time.Second)); !t.IsZero() && t.Before(end); t = e.Next(t) {
		if t.Second() != 0 {
			return 0, 0, 0, fmt.Errorf("%w: %q fires on seconds", ErrSchedule, expr)
		}
		h, m := uint8(t.Hour()), uint8(t.Minute())
		if first {
			hour, minute, first = h, m, false
		} else if h != hour || m != minute {
			return 0, 0, 0, fmt.Errorf("%w: %q fires at %02d:%02d and %02d:%02d", ErrSchedule, expr, hour, minute, h, m)
		}
		week := int(t.Sub(probeStart) / (7 * 24 * time.Hour))
		weeks[week] |= weekdayMode(t.Weekday())
	}
	if first {
		return 0, 0, 0, fmt.Errorf("%w: %q never fires", ErrSchedule, expr)
	}
	for _, w := range weeks[1:] {
		if w != weeks[0] {
			return 0, 0, 0, fmt.Errorf("%w: %q differs from week to week", ErrSchedule, expr)
		}
	}
	return hour, minute, weeks[0], nil
}

func weekdayMode(d time.Weekday) alarm.Mode {
	// time.Weekday counts from Sunday, alarm.Mode from Monday.
	if d == time.Sunday {
		return alarm.Sunday
	}
	return alarm.Monday << (d - time.Monday)
}
