package ui

import (
	"bedclock/clockos/alarm"
	"bedclock/clockos/calendar"
)

const (
	headerBottomY = Height - FontHeight

	menuTop        = 16
	menuLeft       = 4
	menuInterline  = 16
	menuPageLength = 5
	maxMenuItems   = 8
)

// View renders the current screen into f, replacing its contents.
func (m *Model) View(f *Frame) {
	f.Reset()
	m.viewHeader(f)

	s := &m.screen
	switch s.Kind {
	case ScreenClock:
		m.viewClock(f)
	case ScreenMenu:
		var title line
		var items [maxMenuItems]line
		title.str("Menu:")
		for i := MenuItem(0); i < menuItems; i++ {
			items[i].str(i.Label())
		}
		viewMenu(f, &title, items[:menuItems], int(s.Menu))
	case ScreenSetClock:
		dt := &s.SetClock.DateTime
		var title line
		var items [1]line
		title.str("Edit: ").
			uint(uint64(dt.Year), 4, '0').byte('-').
			uint(uint64(dt.Month), 2, '0').byte('-').
			uint(uint64(dt.Day), 2, '0').byte(' ').
			uint(uint64(dt.Hour), 2, '0').byte(':').
			uint(uint64(dt.Minute), 2, '0')
		items[0].str(s.SetClock.Prompt())
		viewMenu(f, &title, items[:], 0)
	case ScreenManageAlarms:
		var title line
		var items [alarm.Slots]line
		title.str("Select alarm:")
		for i := range m.alarms.Alarms {
			items[i].alarm(m.alarms.Alarms[i])
		}
		viewMenu(f, &title, items[:], s.Slot)
	case ScreenManageAlarm:
		s.ManageAlarm.view(f)
	}
}

func (e *ManageAlarm) view(f *Frame) {
	var title line
	var items [maxMenuItems]line
	title.str("Edit: ").alarm(e.Alarm)

	switch e.State {
	case EditMain:
		if e.Alarm.Enabled {
			items[0].str("Disable")
		} else {
			items[0].str("Enable")
		}
		items[1].str("Set Time")
		if e.Alarm.Mode.Has(alarm.OneTime) {
			items[2].str("Repeat")
		} else {
			items[2].str("One time")
		}
		items[3].str("Manage repeat")
		items[4].str("Save and quit")
		viewMenu(f, &title, items[:mainItems], int(e.Main))
	case EditHour:
		items[0].str("Set hour")
		viewMenu(f, &title, items[:1], 0)
	case EditMinute:
		items[0].str("Set minute")
		viewMenu(f, &title, items[:1], 0)
	case EditRepeat:
		for d := calendar.Monday; d < calendar.DaysPerWeek; d++ {
			if e.Alarm.Mode.HasDay(d) {
				items[d].str("Remove ")
			} else {
				items[d].str("Add ")
			}
			items[d].str(d.String())
		}
		items[RepeatBack].str("Back")
		viewMenu(f, &title, items[:repeatItems], int(e.Repeat))
	}
}

// viewHeader draws the date, next alarm and sensor readouts in the corners.
func (m *Model) viewHeader(f *Frame) {
	var l line
	now := &m.now
	l.uint(uint64(now.Year), 4, ' ').byte('-').
		uint(uint64(now.Month), 2, '0').byte('-').
		uint(uint64(now.Day), 2, '0').byte(' ').
		str(now.DayOfWeek.String())
	f.line(0, 0, &l)

	l.reset()
	if r, ok := m.alarms.NextRing(*now); ok {
		l.str("Alarm: ").str(r.Day.String()).byte(' ').
			uint(uint64(r.Hour), 0, 0).byte(':').
			uint(uint64(r.Minute), 2, '0')
	} else {
		l.str("No alarm")
	}
	f.line(0, headerBottomY, &l)

	l.reset()
	if m.envFailures != 0 {
		l.byte('(').uint(uint64(m.envFailures), 0, 0).str("s) ")
	}
	l.centi(int32(m.env.Pressure)).str("hPa")
	f.line(rightAligned(&l), headerBottomY, &l)

	l.reset()
	if m.env.Humidity != 0 {
		l.uint(uint64(m.env.Humidity), 2, ' ').str("%RH  ")
	}
	l.centi(int32(m.env.Temperature)).str("°C")
	f.line(rightAligned(&l), 0, &l)
}

func rightAligned(l *line) int16 {
	return int16(Width - 1 - FontWidth*l.chars())
}

// viewClock draws HH:MM in seven-segment digits with a colon blinking on
// the seconds, and the seconds in the top right corner of the body.
func (m *Model) viewClock(f *Frame) {
	seg := sevenSegments{f: f, x: 0, y: 18}
	if m.now.Hour >= 10 {
		seg.digit(m.now.Hour / 10)
	} else {
		seg.digitSpace()
	}
	seg.digit(m.now.Hour % 10)
	if m.now.Second%2 == 0 {
		seg.colon()
	} else {
		seg.colonSpace()
	}
	seg.digit(m.now.Minute / 10)
	seg.digit(m.now.Minute % 10)

	var l line
	l.byte(':').uint(uint64(m.now.Second), 2, '0')
	f.line(Width-3*FontWidth, 17, &l)
}

// viewMenu draws a titled list with a ">" cursor. Lists longer than a page
// show the page holding the selection and a "page/pages" indicator.
func viewMenu(f *Frame, title *line, items []line, selected int) {
	f.line(menuLeft, menuTop, title)

	if len(items) > menuPageLength {
		page := selected / menuPageLength
		selected %= menuPageLength
		end := page*menuPageLength + menuPageLength
		if end > len(items) {
			end = len(items)
		}
		pages := (len(items)-1)/menuPageLength + 1
		items = items[page*menuPageLength : end]

		var ind line
		ind.uint(uint64(page+1), 0, 0).byte('/').uint(uint64(pages), 0, 0)
		f.line(Width-1-menuLeft-3*FontWidth, menuTop+menuPageLength*menuInterline, &ind)
	}

	for i := range items {
		f.line(menuLeft+3*FontWidth, int16(menuTop+(1+i)*menuInterline), &items[i])
	}
	f.Text(menuLeft+FontWidth, int16(menuTop+(selected+1)*menuInterline), ">")
}

// sevenSegments lays out large digits left to right.
type sevenSegments struct {
	f    *Frame
	x, y int16
}

const (
	segWidth     = 52
	segHeight    = 90
	segThickness = 12
	segSpace     = 13
)

// Segment bits: 0 top, 1 upper left, 2 upper right, 3 middle, 4 lower left,
// 5 lower right, 6 bottom.
var digitSegments = [10]uint8{
	0b1110111,
	0b0100100,
	0b1011101,
	0b1101101,
	0b0101110,
	0b1101011,
	0b1111011,
	0b0100101,
	0b1111111,
	0b1101111,
}

func (s *sevenSegments) rect(x1, y1, x2, y2 int16) {
	s.f.FillRect(s.x+x1, s.y+y1, x2-x1+1, y2-y1+1)
}

func (s *sevenSegments) digit(d uint8) {
	var segs uint8
	if d < 10 {
		segs = digitSegments[d]
	}
	const (
		w, h, t = segWidth, segHeight, segThickness
		mid     = (h-3*t)/2 + t
	)
	if segs&(1<<0) != 0 {
		s.rect(0, 0, w-1, t-1)
	}
	if segs&(1<<1) != 0 {
		s.rect(0, 0, t-1, mid+t-1)
	}
	if segs&(1<<2) != 0 {
		s.rect(w-t, 0, w-1, mid+t-1)
	}
	if segs&(1<<3) != 0 {
		s.rect(t, mid, w-t-1, mid+t-1)
	}
	if segs&(1<<4) != 0 {
		s.rect(0, mid, t-1, h-1)
	}
	if segs&(1<<5) != 0 {
		s.rect(w-t, mid, w-1, h-1)
	}
	if segs&(1<<6) != 0 {
		s.rect(0, h-t, w-1, h-1)
	}
	s.digitSpace()
}

func (s *sevenSegments) digitSpace() { s.x += segWidth + segSpace }
func (s *sevenSegments) colonSpace() { s.x += segThickness + segSpace }

func (s *sevenSegments) colon() {
	const (
		t     = segThickness
		inner = (segHeight - 3*t) / 2
		upper = t + inner/2 - t/2
		lower = segHeight - t - inner/2 - t/2
	)
	s.rect(0, upper, t-1, upper+t-1)
	s.rect(0, lower, t-1, lower+t-1)
	s.colonSpace()
}
