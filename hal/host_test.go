//go:build !raspi

package hal

import (
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func drain(ch <-chan uint64) (n int, last uint64) {
	for {
		select {
		case v := <-ch:
			n++
			last = v
		default:
			return n, last
		}
	}
}

func TestHostTimeAdvance(t *testing.T) {
	now := time.Unix(1000, 0)
	ht := newHostTime()
	ht.clock = func() time.Time { return now }

	ht.advance()
	if n, last := drain(ht.Ticks()); n != 1 || last != 1 {
		t.Fatalf("first advance: n=%d last=%d", n, last)
	}

	now = now.Add(2500 * time.Microsecond)
	ht.advance()
	if n, last := drain(ht.Ticks()); n != 2 || last != 3 {
		t.Fatalf("2.5ms: n=%d last=%d", n, last)
	}

	now = now.Add(500 * time.Microsecond)
	ht.advance()
	if n, _ := drain(ht.Ticks()); n != 1 {
		t.Fatalf("carried remainder: n=%d", n)
	}
}

func TestHostRTC(t *testing.T) {
	now := time.Unix(5000, 0)
	r := newHostRTC(func() time.Time { return now })
	if v, _ := r.Now(); v != 0 {
		t.Fatalf("fresh rtc = %d", v)
	}
	now = now.Add(90 * time.Second)
	if v, _ := r.Now(); v != 90 {
		t.Fatalf("after 90s = %d", v)
	}
	if err := r.Set(1535846380); err != nil {
		t.Fatal(err)
	}
	now = now.Add(1500 * time.Millisecond)
	if v, _ := r.Now(); v != 1535846381 {
		t.Fatalf("after set = %d", v)
	}
}

func TestHostEnvInRange(t *testing.T) {
	now := time.Unix(0, 0)
	e := newHostEnv(func() time.Time { return now })
	for h := 0; h < 48; h++ {
		m, err := e.Measure()
		if err != nil {
			t.Fatal(err)
		}
		if m.Temperature < 19000 || m.Temperature > 24000 {
			t.Fatalf("temperature %d", m.Temperature)
		}
		if m.Humidity <= 0 || m.Humidity >= 10000 {
			t.Fatalf("humidity %d", m.Humidity)
		}
		now = now.Add(time.Hour)
	}
}

func TestParseButtons(t *testing.T) {
	got, err := ParseButtons("o+ O-c")
	if err != nil {
		t.Fatal(err)
	}
	want := []Button{ButtonOk, ButtonPlus, ButtonOk, ButtonMinus, ButtonCancel}
	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("button %d: got %s, want %s", i, got[i], want[i])
		}
	}
	if _, err := ParseButtons("o?"); err == nil {
		t.Fatal("expected error for unknown button")
	}
}

func TestTerminalButtons(t *testing.T) {
	cases := map[string]Button{
		"esc":   ButtonCancel,
		"left":  ButtonMinus,
		"+":     ButtonPlus,
		"enter": ButtonOk,
		" ":     ButtonOk,
	}
	for key, want := range cases {
		if got, ok := terminalButton(key); !ok || got != want {
			t.Fatalf("%q: got %s, %v", key, got, ok)
		}
	}
	if _, ok := terminalButton("x"); ok {
		t.Fatal("unmapped key produced a button")
	}
}

func TestHostCloseReleasesBackup(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("BEDCLOCK_BACKUP_PATH", filepath.Join(dir, "regs"))
	h, err := newHost(Options{LogPath: filepath.Join(dir, "log")})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := h.backup.(*BackupFile); !ok {
		t.Fatalf("backup = %T, want *BackupFile", h.backup)
	}
	h.close()
	if _, err := h.backup.ReadRegister(0); !errors.Is(err, ErrNotImplemented) {
		t.Fatalf("read after close: %v", err)
	}
}
