package ui

import (
	"bedclock/clockos/alarm"
	"bedclock/clockos/calendar"
)

// Kind identifies a message.
type Kind uint8

const (
	KindDateTime Kind = iota + 1
	KindEnvironment
	KindEnvironmentFailed
	KindAlarmManager
	KindButtonOk
	KindButtonCancel
	KindButtonPlus
	KindButtonMinus
	// KindGoToClock is injected by the dispatcher after a period without
	// button input.
	KindGoToClock
)

func (k Kind) String() string {
	switch k {
	case KindDateTime:
		return "DateTime"
	case KindEnvironment:
		return "Environment"
	case KindEnvironmentFailed:
		return "EnvironmentFailed"
	case KindAlarmManager:
		return "AlarmManager"
	case KindButtonOk:
		return "ButtonOk"
	case KindButtonCancel:
		return "ButtonCancel"
	case KindButtonPlus:
		return "ButtonPlus"
	case KindButtonMinus:
		return "ButtonMinus"
	case KindGoToClock:
		return "GoToClock"
	default:
		return "Kind(?)"
	}
}

// Msg is an input event for Model.Update. Only the payload field matching
// Kind is meaningful.
type Msg struct {
	Kind        Kind
	DateTime    calendar.DateTime
	Environment Environment
	Alarms      alarm.Manager
}

func DateTimeTick(dt calendar.DateTime) Msg { return Msg{Kind: KindDateTime, DateTime: dt} }

func EnvironmentSample(env Environment) Msg {
	return Msg{Kind: KindEnvironment, Environment: env}
}

func EnvironmentSampleFailed() Msg { return Msg{Kind: KindEnvironmentFailed} }

func AlarmManagerReplaced(m alarm.Manager) Msg { return Msg{Kind: KindAlarmManager, Alarms: m} }

func ButtonOk() Msg     { return Msg{Kind: KindButtonOk} }
func ButtonCancel() Msg { return Msg{Kind: KindButtonCancel} }
func ButtonPlus() Msg   { return Msg{Kind: KindButtonPlus} }
func ButtonMinus() Msg  { return Msg{Kind: KindButtonMinus} }
func GoToClock() Msg    { return Msg{Kind: KindGoToClock} }

// IsButton reports whether m is a button press.
func (m Msg) IsButton() bool {
	switch m.Kind {
	case KindButtonOk, KindButtonCancel, KindButtonPlus, KindButtonMinus:
		return true
	}
	return false
}

// CmdKind identifies a command.
type CmdKind uint8

const (
	// CmdUpdateRealTimeClock asks the dispatcher to set the clock to
	// Cmd.DateTime.
	CmdUpdateRealTimeClock CmdKind = iota + 1
	// CmdPersistAlarm asks the dispatcher to store Cmd.Alarm in Cmd.Slot.
	CmdPersistAlarm
	// CmdRequestFullRedraw asks for a full display refresh.
	CmdRequestFullRedraw
)

func (k CmdKind) String() string {
	switch k {
	case CmdUpdateRealTimeClock:
		return "UpdateRealTimeClock"
	case CmdPersistAlarm:
		return "PersistAlarm"
	case CmdRequestFullRedraw:
		return "RequestFullRedraw"
	default:
		return "CmdKind(?)"
	}
}

// Cmd is an effect requested by Model.Update.
type Cmd struct {
	Kind     CmdKind
	DateTime calendar.DateTime
	Alarm    alarm.Alarm
	Slot     int
}

// MaxCmds is the capacity of Cmds.
const MaxCmds = 4

// Cmds is the fixed-capacity command list returned by Model.Update.
type Cmds struct {
	n    uint8
	cmds [MaxCmds]Cmd
}

// push appends cmd. Exceeding MaxCmds is a programming error.
func (c *Cmds) push(cmd Cmd) {
	if int(c.n) >= len(c.cmds) {
		panic("ui: command list overflow")
	}
	c.cmds[c.n] = cmd
	c.n++
}

func (c *Cmds) Len() int { return int(c.n) }

// All returns the commands in emission order.
func (c *Cmds) All() []Cmd { return c.cmds[:c.n] }

// Has reports whether a command of kind k was emitted.
func (c *Cmds) Has(k CmdKind) bool {
	for i := 0; i < int(c.n); i++ {
		if c.cmds[i].Kind == k {
			return true
		}
	}
	return false
}
