package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runOut(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	if err := run(args, &out); err != nil {
		t.Fatalf("clockctl %s: %v", strings.Join(args, " "), err)
	}
	return out.String()
}

func TestUsage(t *testing.T) {
	var out bytes.Buffer
	if err := run(nil, &out); !errors.Is(err, errUsage) {
		t.Fatalf("err = %v", err)
	}
	if err := run([]string{"reboot"}, &out); !errors.Is(err, errUsage) {
		t.Fatalf("err = %v", err)
	}
}

func TestEncodeDecode(t *testing.T) {
	got := runOut(t, "encode", "-enabled", "-schedule", "25 7 * * 1-5")
	if !strings.HasPrefix(got, "0x8107191f lo=0x191f hi=0x8107 ") {
		t.Fatalf("encode = %q", got)
	}
	if got := runOut(t, "decode", "0x8107191f"); !strings.Contains(got, "07:25") {
		t.Fatalf("decode = %q", got)
	}

	var out bytes.Buffer
	if err := run([]string{"decode", "0x00000001"}, &out); err == nil {
		t.Fatal("word without presence bit decoded")
	}
	if err := run([]string{"encode", "-one-time", "7:00", "-schedule", "0 7 * * *"}, &out); !errors.Is(err, errUsage) {
		t.Fatalf("exclusive flags: %v", err)
	}
}

func TestSetThenNext(t *testing.T) {
	backup := filepath.Join(t.TempDir(), "bedclock.backup")

	runOut(t, "set", "-backup", backup, "-slot", "1", "-enabled", "-schedule", "30 7 * * 1-5")
	runOut(t, "set", "-backup", backup, "-slot", "4", "-enabled", "-one-time", "06:10")

	st, err := os.Stat(backup)
	if err != nil || st.Size() != 20 {
		t.Fatalf("backup file: %v, %v", st, err)
	}

	got := runOut(t, "next", "-backup", backup, "-at", "2018-10-17 08:00")
	if !strings.Contains(got, "slot 1: On  07:30") {
		t.Fatalf("next output:\n%s", got)
	}
	if !strings.HasSuffix(got, "next: Thursday 6:10 (slot 4)\n") {
		t.Fatalf("next output:\n%s", got)
	}
}

func TestNextWithoutBackup(t *testing.T) {
	got := runOut(t, "next", "-backup", filepath.Join(t.TempDir(), "none"), "-at", "2018-10-17 08:00")
	if !strings.HasSuffix(got, "next: none\n") {
		t.Fatalf("next output:\n%s", got)
	}
}

func TestSetRejectsSlot(t *testing.T) {
	var out bytes.Buffer
	err := run([]string{"set", "-backup", filepath.Join(t.TempDir(), "b"), "-slot", "5", "-one-time", "07:00"}, &out)
	if !errors.Is(err, errUsage) {
		t.Fatalf("err = %v", err)
	}
}

func TestICS(t *testing.T) {
	dir := t.TempDir()
	backup := filepath.Join(dir, "bedclock.backup")
	out := filepath.Join(dir, "alarms.ics")
	runOut(t, "set", "-backup", backup, "-slot", "0", "-enabled", "-schedule", "0 7 * * 1,3")
	runOut(t, "ics", "-backup", backup, "-out", out, "-tz", "UTC", "-device", "test")

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	s := string(data)
	for _, want := range []string{"BEGIN:VCALENDAR", "BEGIN:VEVENT", "FREQ=WEEKLY", "BYDAY=MO,WE", "SUMMARY:Alarm 1"} {
		if !strings.Contains(s, want) {
			t.Fatalf("missing %q in:\n%s", want, s)
		}
	}
}

func TestVersion(t *testing.T) {
	if got := runOut(t, "version"); !strings.HasPrefix(got, "bedclock ") {
		t.Fatalf("version = %q", got)
	}
}

func TestAutostartUsage(t *testing.T) {
	var out bytes.Buffer
	if err := run([]string{"autostart"}, &out); !errors.Is(err, errUsage) {
		t.Fatalf("err = %v", err)
	}
	if err := run([]string{"autostart", "toggle", "-exec", "/bin/true"}, &out); !errors.Is(err, errUsage) {
		t.Fatalf("err = %v", err)
	}
}

func TestClockApp(t *testing.T) {
	a, err := clockApp("/opt/bedclock/bedclock", []string{"-tui"})
	if err != nil {
		t.Fatal(err)
	}
	if a.Name != "bedclock" || len(a.Exec) != 2 || a.Exec[1] != "-tui" {
		t.Fatalf("app = %+v", a)
	}
}
