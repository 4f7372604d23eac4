// Package ui is the presentation state machine of the clock: a reducer
// (Model.Update) that turns input messages into state changes plus a bounded
// list of commands, and a renderer (Model.View) that describes the current
// screen as a list of drawing operations.
//
// Update and View perform no I/O and do not allocate.
package ui

import (
	"bedclock/clockos/alarm"
	"bedclock/clockos/calendar"
)

// Environment is a sensor reading.
type Environment struct {
	// Pressure in Pa.
	Pressure uint32
	// Temperature in hundredths of a degree Celsius.
	Temperature int16
	// Humidity in percent. Zero hides the humidity readout.
	Humidity uint8
}

// Model is the presentation state.
type Model struct {
	now         calendar.DateTime
	env         Environment
	envFailures uint32
	alarms      alarm.Manager
	screen      Screen
}

// NewModel returns the boot state: Clock screen at the epoch with default
// alarms.
func NewModel() Model {
	return Model{
		now:    calendar.FromEpoch(0),
		alarms: alarm.NewManager(),
		screen: ClockScreen(),
	}
}

func (m *Model) Now() calendar.DateTime      { return m.now }
func (m *Model) Environment() Environment    { return m.env }
func (m *Model) EnvironmentFailures() uint32 { return m.envFailures }
func (m *Model) Alarms() alarm.Manager       { return m.alarms }
func (m *Model) Screen() Screen              { return m.screen }

// Update applies msg and returns the commands it produced.
func (m *Model) Update(msg Msg) Cmds {
	var cmds Cmds
	switch msg.Kind {
	case KindDateTime:
		m.now = msg.DateTime
		if m.now.Midnight() {
			cmds.push(Cmd{Kind: CmdRequestFullRedraw})
		}
	case KindEnvironment:
		m.env = msg.Environment
		m.envFailures = 0
	case KindEnvironmentFailed:
		m.envFailures++
	case KindAlarmManager:
		m.alarms = msg.Alarms
	case KindButtonOk:
		m.screen = m.ok(&cmds)
		if m.screen.Kind == ScreenClock {
			cmds.push(Cmd{Kind: CmdRequestFullRedraw})
		}
	case KindButtonCancel:
		m.screen = m.cancel()
		if m.screen.Kind == ScreenClock {
			cmds.push(Cmd{Kind: CmdRequestFullRedraw})
		}
	case KindButtonPlus:
		m.plus()
	case KindButtonMinus:
		m.minus()
	case KindGoToClock:
		if m.screen.Kind != ScreenClock {
			m.screen = ClockScreen()
			cmds.push(Cmd{Kind: CmdRequestFullRedraw})
		}
	}
	return cmds
}

func (m *Model) ok(cmds *Cmds) Screen {
	s := m.screen
	switch s.Kind {
	case ScreenClock:
		return MenuScreen(MenuMainScreen)
	case ScreenMenu:
		switch s.Menu {
		case MenuSetClock:
			return SetClockScreen(NewEditDateTime(m.now))
		case MenuManageAlarms:
			return ManageAlarmsScreen(0)
		default:
			return ClockScreen()
		}
	case ScreenSetClock:
		if s.SetClock.ok() {
			cmds.push(Cmd{Kind: CmdUpdateRealTimeClock, DateTime: s.SetClock.DateTime})
			return ClockScreen()
		}
		return s
	case ScreenManageAlarms:
		return ManageAlarmScreen(NewManageAlarm(&m.alarms, s.Slot))
	case ScreenManageAlarm:
		return s.ManageAlarm.ok(cmds)
	}
	return ClockScreen()
}

func (m *Model) cancel() Screen {
	s := m.screen
	switch s.Kind {
	case ScreenSetClock:
		if s.SetClock.cancel() {
			return MenuScreen(MenuSetClock)
		}
		return s
	case ScreenManageAlarms:
		return MenuScreen(MenuManageAlarms)
	case ScreenManageAlarm:
		return s.ManageAlarm.cancel()
	}
	return ClockScreen()
}

func (m *Model) plus() {
	s := &m.screen
	switch s.Kind {
	case ScreenMenu:
		s.Menu = s.Menu.next()
	case ScreenSetClock:
		s.SetClock.next()
	case ScreenManageAlarms:
		s.Slot = (s.Slot + 1) % alarm.Slots
	case ScreenManageAlarm:
		s.ManageAlarm.next()
	}
}

func (m *Model) minus() {
	s := &m.screen
	switch s.Kind {
	case ScreenMenu:
		s.Menu = s.Menu.prev()
	case ScreenSetClock:
		s.SetClock.prev()
	case ScreenManageAlarms:
		s.Slot = (s.Slot + alarm.Slots - 1) % alarm.Slots
	case ScreenManageAlarm:
		s.ManageAlarm.prev()
	}
}
