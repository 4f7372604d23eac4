package ui

import (
	"bedclock/clockos/alarm"
	"bedclock/clockos/calendar"
)

// ScreenKind identifies the active screen.
type ScreenKind uint8

const (
	ScreenClock ScreenKind = iota
	ScreenMenu
	ScreenSetClock
	ScreenManageAlarms
	ScreenManageAlarm
)

func (k ScreenKind) String() string {
	switch k {
	case ScreenClock:
		return "Clock"
	case ScreenMenu:
		return "Menu"
	case ScreenSetClock:
		return "SetClock"
	case ScreenManageAlarms:
		return "ManageAlarms"
	case ScreenManageAlarm:
		return "ManageAlarm"
	default:
		return "Screen(?)"
	}
}

// Screen is the active screen and its state. Only the field matching Kind
// is meaningful.
type Screen struct {
	Kind        ScreenKind
	Menu        MenuItem
	SetClock    EditDateTime
	Slot        int
	ManageAlarm ManageAlarm
}

func ClockScreen() Screen                  { return Screen{Kind: ScreenClock} }
func MenuScreen(item MenuItem) Screen      { return Screen{Kind: ScreenMenu, Menu: item} }
func SetClockScreen(e EditDateTime) Screen { return Screen{Kind: ScreenSetClock, SetClock: e} }
func ManageAlarmsScreen(slot int) Screen   { return Screen{Kind: ScreenManageAlarms, Slot: slot} }

func ManageAlarmScreen(e ManageAlarm) Screen {
	return Screen{Kind: ScreenManageAlarm, ManageAlarm: e}
}

// MenuItem is an entry of the main menu.
type MenuItem uint8

const (
	MenuMainScreen MenuItem = iota
	MenuSetClock
	MenuManageAlarms

	menuItems = 3
)

var menuLabels = [menuItems]string{"Main screen", "Set clock", "Manage alarms"}

func (i MenuItem) Label() string  { return menuLabels[i%menuItems] }
func (i MenuItem) next() MenuItem { return (i + 1) % menuItems }
func (i MenuItem) prev() MenuItem { return (i + menuItems - 1) % menuItems }

// DateField is the field under the SetClock cursor.
type DateField uint8

const (
	FieldYear DateField = iota
	FieldMonth
	FieldDay
	FieldHour
	FieldMinute
)

const (
	minEditYear = calendar.EpochYear
	maxEditYear = 2105
)

var fieldPrompts = [...]string{"Set year", "Set month", "Set day", "Set hour", "Set minute"}

// EditDateTime is the SetClock editor. The day field cycles 1..31 whatever
// the month.
type EditDateTime struct {
	DateTime calendar.DateTime
	Field    DateField
}

// NewEditDateTime starts editing now with the seconds zeroed.
func NewEditDateTime(now calendar.DateTime) EditDateTime {
	now.Second = 0
	return EditDateTime{DateTime: now, Field: FieldYear}
}

func (e EditDateTime) Prompt() string {
	if int(e.Field) >= len(fieldPrompts) {
		return ""
	}
	return fieldPrompts[e.Field]
}

func (e *EditDateTime) next() {
	dt := &e.DateTime
	switch e.Field {
	case FieldYear:
		dt.Year++
		if dt.Year > maxEditYear {
			dt.Year = minEditYear
		}
	case FieldMonth:
		dt.Month = dt.Month%12 + 1
	case FieldDay:
		dt.Day = dt.Day%31 + 1
	case FieldHour:
		dt.Hour = (dt.Hour + 1) % 24
	case FieldMinute:
		dt.Minute = (dt.Minute + 1) % 60
	}
}

func (e *EditDateTime) prev() {
	dt := &e.DateTime
	switch e.Field {
	case FieldYear:
		if dt.Year <= minEditYear {
			dt.Year = maxEditYear
		} else {
			dt.Year--
		}
	case FieldMonth:
		dt.Month = (dt.Month+12-2)%12 + 1
	case FieldDay:
		dt.Day = (dt.Day+31-2)%31 + 1
	case FieldHour:
		dt.Hour = (dt.Hour + 23) % 24
	case FieldMinute:
		dt.Minute = (dt.Minute + 59) % 60
	}
}

// ok advances the cursor and reports whether the last field was confirmed.
func (e *EditDateTime) ok() bool {
	if e.Field == FieldMinute {
		return true
	}
	e.Field++
	return false
}

// cancel moves the cursor back and reports whether the editor was left.
func (e *EditDateTime) cancel() bool {
	if e.Field == FieldYear {
		return true
	}
	e.Field--
	return false
}

// AlarmEditState is the level of the ManageAlarm editor.
type AlarmEditState uint8

const (
	EditMain AlarmEditState = iota
	EditHour
	EditMinute
	EditRepeat
)

// MainItem is an entry of the ManageAlarm main list.
type MainItem uint8

const (
	ItemToggleEnable MainItem = iota
	ItemSetTime
	ItemToggleOneTime
	ItemManageRepeat
	ItemSaveAndQuit

	mainItems = 5
)

// RepeatItem is an entry of the repeat list: a weekday or RepeatBack.
type RepeatItem uint8

const (
	RepeatMonday RepeatItem = iota
	RepeatBack   RepeatItem = calendar.DaysPerWeek

	repeatItems = calendar.DaysPerWeek + 1
)

const minuteStep = 5

// ManageAlarm edits a copy of one alarm slot. Nothing is stored until
// ItemSaveAndQuit.
type ManageAlarm struct {
	Slot   int
	Alarm  alarm.Alarm
	State  AlarmEditState
	Main   MainItem
	Repeat RepeatItem
}

// NewManageAlarm starts editing slot of m.
func NewManageAlarm(m *alarm.Manager, slot int) ManageAlarm {
	return ManageAlarm{Slot: slot, Alarm: m.Alarms[slot], State: EditMain, Main: ItemToggleEnable}
}

func (e *ManageAlarm) next() {
	switch e.State {
	case EditMain:
		e.Main = (e.Main + 1) % mainItems
	case EditHour:
		_ = e.Alarm.SetHour((e.Alarm.Hour() + 1) % 24)
	case EditMinute:
		_ = e.Alarm.SetMinute((e.Alarm.Minute() + minuteStep) % 60)
	case EditRepeat:
		e.Repeat = (e.Repeat + 1) % repeatItems
	}
}

func (e *ManageAlarm) prev() {
	switch e.State {
	case EditMain:
		e.Main = (e.Main + mainItems - 1) % mainItems
	case EditHour:
		_ = e.Alarm.SetHour((e.Alarm.Hour() + 23) % 24)
	case EditMinute:
		_ = e.Alarm.SetMinute((e.Alarm.Minute() + 60 - minuteStep) % 60)
	case EditRepeat:
		e.Repeat = (e.Repeat + repeatItems - 1) % repeatItems
	}
}

// ok applies the selected action and returns the resulting screen.
func (e ManageAlarm) ok(cmds *Cmds) Screen {
	switch e.State {
	case EditMain:
		switch e.Main {
		case ItemToggleEnable:
			e.Alarm.Enabled = !e.Alarm.Enabled
		case ItemSetTime:
			e.State = EditHour
		case ItemToggleOneTime:
			e.Alarm.Mode.Toggle(alarm.OneTime)
		case ItemManageRepeat:
			e.State = EditRepeat
			e.Repeat = RepeatMonday
		case ItemSaveAndQuit:
			cmds.push(Cmd{Kind: CmdPersistAlarm, Alarm: e.Alarm, Slot: e.Slot})
			return ClockScreen()
		}
	case EditHour:
		e.State = EditMinute
	case EditMinute:
		e.State = EditMain
		e.Main = ItemSetTime
	case EditRepeat:
		if e.Repeat == RepeatBack {
			e.State = EditMain
			e.Main = ItemManageRepeat
		} else {
			e.Alarm.Mode.Toggle(alarm.ModeOf(calendar.DayOfWeek(e.Repeat)))
		}
	}
	return ManageAlarmScreen(e)
}

func (e ManageAlarm) cancel() Screen {
	switch e.State {
	case EditMain:
		return ManageAlarmsScreen(e.Slot)
	case EditHour:
		e.State = EditMain
		e.Main = ItemSetTime
	case EditMinute:
		e.State = EditHour
	case EditRepeat:
		e.State = EditMain
		e.Main = ItemManageRepeat
	}
	return ManageAlarmScreen(e)
}
