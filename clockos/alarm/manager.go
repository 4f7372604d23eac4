package alarm

import "bedclock/clockos/calendar"

// Slots is the fixed number of alarm slots.
const Slots = 5

// Manager owns the alarm slots. Slot indices are stable identities.
type Manager struct {
	Alarms [Slots]Alarm
}

// NewManager returns a manager with every slot set to Default.
func NewManager() Manager {
	var m Manager
	for i := range m.Alarms {
		m.Alarms[i] = Default()
	}
	return m
}

// MustRing evaluates every slot at now and reports whether at least one
// fired. OneTime slots that fire are disarmed.
func (m *Manager) MustRing(now calendar.DateTime) bool {
	return m.MustRingSlots(now) != 0
}

// MustRingSlots is MustRing returning the bitmask of slots that fired.
func (m *Manager) MustRingSlots(now calendar.DateTime) uint8 {
	var fired uint8
	for i := range m.Alarms {
		if m.Alarms[i].MustRing(now) {
			fired |= 1 << i
		}
	}
	return fired
}

// NextRing returns the earliest ring over all slots after now. On equal
// distances the lowest slot index wins.
func (m *Manager) NextRing(now calendar.DateTime) (Ring, bool) {
	var (
		best     Ring
		bestDist uint32
		found    bool
	)
	for i := range m.Alarms {
		r, ok := m.Alarms[i].NextRing(now)
		if !ok {
			continue
		}
		r.Slot = i
		d := r.distance(now)
		if !found || d < bestDist {
			best, bestDist, found = r, d, true
		}
	}
	return best, found
}
