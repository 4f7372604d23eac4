// Package icsexport publishes the alarm slots as an iCalendar feed, one
// VEVENT per enabled slot with a weekly RRULE for repeating alarms.
package icsexport

import (
	"errors"
	"fmt"
	"io"
	"time"

	"bedclock/clockos/alarm"
	"bedclock/clockos/calendar"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"
	"github.com/teambition/rrule-go"
)

const (
	prodID         = "-//bedclock//alarms//EN"
	floatingLayout = "20060102T150405"
)

var ErrNoAlarms = errors.New("icsexport: no enabled alarm")

// Options controls the export.
type Options struct {
	// Now is the DTSTAMP and the instant the first occurrences follow.
	Now time.Time
	// Location is the zone of the clock's wall time. Nil means UTC.
	Location *time.Location
	// Ring is the event length. Zero exports instantaneous events.
	Ring time.Duration
	// Device distinguishes the UIDs of several clocks.
	Device string
}

// Calendar builds the feed for m.
func Calendar(m *alarm.Manager, opts Options) (*ical.Calendar, error) {
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	now := opts.Now.In(loc)

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, prodID)

	for slot, a := range m.Alarms {
		start, ok := FirstRing(a, now)
		if !ok {
			continue
		}
		ev := ical.NewEvent()
		ev.Props.SetText(ical.PropUID, UID(opts.Device, slot, a))
		ev.Props.SetDateTime(ical.PropDateTimeStamp, opts.Now.UTC())
		setWallTime(ev.Props, ical.PropDateTimeStart, start)
		if opts.Ring > 0 {
			setWallTime(ev.Props, ical.PropDateTimeEnd, start.Add(opts.Ring))
		}
		ev.Props.SetText(ical.PropSummary, fmt.Sprintf("Alarm %d", slot+1))
		ev.Props.SetText(ical.PropDescription, a.String())
		if rule, ok := Rule(a, start); ok {
			ev.Props.SetRecurrenceRule(rule)
		}
		ev.Children = append(ev.Children, audioAlarm())
		cal.Children = append(cal.Children, ev.Component)
	}
	if len(cal.Children) == 0 {
		return nil, ErrNoAlarms
	}
	return cal, nil
}

// Write encodes the feed for m to w.
func Write(w io.Writer, m *alarm.Manager, opts Options) error {
	cal, err := Calendar(m, opts)
	if err != nil {
		return err
	}
	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("icsexport: %w", err)
	}
	return nil
}

// setWallTime writes t with its TZID, or as a floating local time when t's
// zone has no IANA name (time.Local without TZ set).
func setWallTime(props ical.Props, name string, t time.Time) {
	if t.Location().String() != "Local" {
		props.SetDateTime(name, t)
		return
	}
	p := ical.NewProp(name)
	p.Value = t.Format(floatingLayout)
	props.Set(p)
}

func audioAlarm() *ical.Component {
	c := ical.NewComponent(ical.CompAlarm)
	c.Props.SetText(ical.PropAction, "AUDIO")
	trigger := ical.NewProp(ical.PropTrigger)
	trigger.Value = "PT0S"
	c.Props.Set(trigger)
	return c
}

// UID is stable for a device, slot and alarm setting, so calendar clients
// replace an exported event instead of duplicating it.
func UID(device string, slot int, a alarm.Alarm) string {
	name := fmt.Sprintf("bedclock:%s/%d/%08x", device, slot, alarm.Encode(a))
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(name)).String()
}

// FirstRing returns the next ring of a strictly after now, in now's
// location.
func FirstRing(a alarm.Alarm, now time.Time) (time.Time, bool) {
	dt := calendar.FromTime(now)
	r, ok := a.NextRing(dt)
	if !ok {
		return time.Time{}, false
	}
	days := int(dt.DayOfWeek.DaysUntil(r.Day))
	tod := uint32(r.Hour)*60 + uint32(r.Minute)
	if days == 0 && tod <= dt.MinuteOfDay() {
		days = calendar.DaysPerWeek
	}
	y, mo, d := now.Date()
	return time.Date(y, mo, d+days, int(r.Hour), int(r.Minute), 0, 0, now.Location()), true
}

// Rule returns the weekly recurrence of a repeating alarm starting at
// start. OneTime alarms have none.
func Rule(a alarm.Alarm, start time.Time) (*rrule.ROption, bool) {
	if a.Mode.Has(alarm.OneTime) || a.Mode&alarm.EveryDay == 0 {
		return nil, false
	}
	rule := &rrule.ROption{
		Freq:    rrule.WEEKLY,
		Dtstart: start,
	}
	if a.Mode&alarm.EveryDay == alarm.EveryDay {
		rule.Freq = rrule.DAILY
		return rule, true
	}
	for d := calendar.Monday; d <= calendar.Sunday; d++ {
		if a.Mode.HasDay(d) {
			rule.Byweekday = append(rule.Byweekday, weekdays[d])
		}
	}
	return rule, true
}

var weekdays = [calendar.DaysPerWeek]rrule.Weekday{
	rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA, rrule.SU,
}
