package app

import "bedclock/clockos/ui"

// mailboxSlots must divide 256 so the uint8 indices wrap cleanly.
const mailboxSlots = 16

// mailbox is the fixed ring of messages waiting for Model.Update.
type mailbox struct {
	head  uint8
	tail  uint8
	slots [mailboxSlots]ui.Msg
}

func (mb *mailbox) push(msg ui.Msg) bool {
	if mb.head-mb.tail >= mailboxSlots {
		return false
	}
	mb.slots[mb.head%mailboxSlots] = msg
	mb.head++
	return true
}

func (mb *mailbox) pop() (ui.Msg, bool) {
	if mb.tail == mb.head {
		return ui.Msg{}, false
	}
	msg := mb.slots[mb.tail%mailboxSlots]
	mb.tail++
	return msg, true
}

func (mb *mailbox) len() int { return int(mb.head - mb.tail) }
