package app

import (
	"errors"
	"testing"

	"bedclock/clockos/alarm"
	"bedclock/hal"
)

func TestSlotRoundTrip(t *testing.T) {
	b := &fakeBackup{}
	a, _ := alarm.New(true, 6, 45, alarm.Monday|alarm.Friday)
	if err := WriteSlot(b, 4, a); err != nil {
		t.Fatal(err)
	}
	got, ok, err := ReadSlot(b, 4)
	if err != nil || !ok || got != a {
		t.Fatalf("ReadSlot = %s %v %v", got, ok, err)
	}
	if _, ok, err := ReadSlot(b, 3); err != nil || ok {
		t.Fatalf("empty slot: ok=%v err=%v", ok, err)
	}
	if b.regs[8] != uint16(alarm.Encode(a)) || b.regs[9] != uint16(alarm.Encode(a)>>16) {
		t.Fatalf("registers %04x %04x, want low half first", b.regs[8], b.regs[9])
	}
}

func TestSlotOutOfRange(t *testing.T) {
	b := &fakeBackup{}
	if err := WriteSlot(b, alarm.Slots, alarm.Default()); !errors.Is(err, hal.ErrBackupRegister) {
		t.Fatalf("err = %v", err)
	}
	if _, _, err := ReadSlot(b, -1); !errors.Is(err, hal.ErrBackupRegister) {
		t.Fatalf("err = %v", err)
	}
}

func TestLoadAlarms(t *testing.T) {
	b := &fakeBackup{}
	a, _ := alarm.New(true, 22, 10, alarm.OneTime)
	b.store(1, a)

	def := alarm.NewManager()
	def.Alarms[0], _ = alarm.New(true, 7, 0, alarm.Weekdays)
	m, missing, err := LoadAlarms(b, def)
	if err != nil {
		t.Fatal(err)
	}
	if m.Alarms[1] != a || m.Alarms[0] != def.Alarms[0] {
		t.Fatalf("loaded %s / %s", m.Alarms[0], m.Alarms[1])
	}
	if len(missing) != alarm.Slots-1 || missing[0] != 0 || missing[1] != 2 {
		t.Fatalf("missing = %v", missing)
	}
}
