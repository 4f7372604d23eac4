package app

import (
	"fmt"

	"bedclock/clockos/alarm"
	"bedclock/hal"
)

// registersPerSlot is the number of 16-bit backup registers one encoded
// alarm occupies.
const registersPerSlot = 2

// restoreAlarms loads every slot from the backup registers. Slots holding
// no valid word keep the configured default, which is written back.
func (s *system) restoreAlarms() {
	b := s.h.Backup()
	if b == nil {
		s.logf("warn: backup: unavailable, alarms will not survive a restart")
		return
	}
	for i := 0; i < alarm.Slots; i++ {
		a, ok, err := ReadSlot(b, i)
		if err != nil {
			s.logf("warn: backup: read slot=%d: %v", i, err)
			continue
		}
		if ok {
			s.alarms.Alarms[i] = a
			continue
		}
		s.logf("debug: backup: slot=%d empty, storing %s", i, s.alarms.Alarms[i])
		s.storeAlarm(i, s.alarms.Alarms[i])
	}
}

func (s *system) storeAlarm(slot int, a alarm.Alarm) {
	b := s.h.Backup()
	if b == nil {
		return
	}
	if err := WriteSlot(b, slot, a); err != nil {
		s.logf("error: backup: write slot=%d: %v", slot, err)
		return
	}
	s.logf("backup: slot=%d stored %s", slot, a)
}

// ReadSlot reads the alarm stored for slot. ok is false when the registers
// hold no valid alarm.
func ReadSlot(b hal.Backup, slot int) (a alarm.Alarm, ok bool, err error) {
	r := slot * registersPerSlot
	if slot < 0 || r+registersPerSlot > b.Registers() {
		return a, false, fmt.Errorf("slot %d: %w", slot, hal.ErrBackupRegister)
	}
	lo, err := b.ReadRegister(r)
	if err != nil {
		return a, false, err
	}
	hi, err := b.ReadRegister(r + 1)
	if err != nil {
		return a, false, err
	}
	a, ok = alarm.Decode(alarm.JoinWord(lo, hi))
	return a, ok, nil
}

// WriteSlot stores a in the registers of slot.
func WriteSlot(b hal.Backup, slot int, a alarm.Alarm) error {
	r := slot * registersPerSlot
	if slot < 0 || r+registersPerSlot > b.Registers() {
		return fmt.Errorf("slot %d: %w", slot, hal.ErrBackupRegister)
	}
	lo, hi := alarm.SplitWord(alarm.Encode(a))
	if err := b.WriteRegister(r, lo); err != nil {
		return err
	}
	return b.WriteRegister(r+1, hi)
}

// LoadAlarms reads every slot of b over def. Slots without a valid alarm
// keep their def value; their indices are returned in missing.
func LoadAlarms(b hal.Backup, def alarm.Manager) (m alarm.Manager, missing []int, err error) {
	m = def
	for i := 0; i < alarm.Slots; i++ {
		a, ok, err := ReadSlot(b, i)
		if err != nil {
			return m, missing, err
		}
		if ok {
			m.Alarms[i] = a
		} else {
			missing = append(missing, i)
		}
	}
	return m, missing, nil
}

// seedClock sets the RTC to Config.Start when it has never been set.
func (s *system) seedClock() {
	rtc := s.h.RTC()
	if rtc == nil {
		return
	}
	epoch, err := rtc.Now()
	if err != nil {
		s.logf("error: rtc: read: %v", err)
		return
	}
	if epoch >= unsetClock {
		return
	}
	if err := rtc.Set(s.cfg.Start); err != nil {
		s.logf("error: rtc: seed: %v", err)
		return
	}
	s.logf("rtc: unset (%d), seeded with %d", epoch, s.cfg.Start)
}
