package hal

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFileBackupPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "regs")
	b, err := OpenBackupFile(path, BackupRegisters)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	v, err := b.ReadRegister(3)
	if err != nil || v != 0 {
		t.Fatalf("fresh register = %#x, %v", v, err)
	}
	if err := b.WriteRegister(3, 0xBEEF); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := b.WriteRegister(9, 0x0102); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := b.Close(); err != nil {
		t.Fatal(err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(raw) != 20 || raw[6] != 0xEF || raw[7] != 0xBE || raw[18] != 0x02 {
		t.Fatalf("file layout %x", raw)
	}

	b, err = OpenBackupFile(path, BackupRegisters)
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()
	if v, _ := b.ReadRegister(3); v != 0xBEEF {
		t.Fatalf("reopened register = %#x", v)
	}
	if v, _ := b.ReadRegister(4); v != 0 {
		t.Fatalf("untouched register = %#x", v)
	}
}

func TestBackupRange(t *testing.T) {
	b, err := OpenBackupFile(filepath.Join(t.TempDir(), "regs"), 2)
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()
	m := newMemBackup(2)
	for _, bk := range []Backup{b, m} {
		if _, err := bk.ReadRegister(2); !errors.Is(err, ErrBackupRegister) {
			t.Fatalf("read past end: %v", err)
		}
		if err := bk.WriteRegister(-1, 1); !errors.Is(err, ErrBackupRegister) {
			t.Fatalf("write before start: %v", err)
		}
	}
}

func TestBackupPathEnvOverride(t *testing.T) {
	t.Setenv("BEDCLOCK_BACKUP_PATH", "/tmp/from-env")
	if got := BackupFilePath(Options{BackupPath: "cfg"}); got != "/tmp/from-env" {
		t.Fatalf("got %q", got)
	}
	t.Setenv("BEDCLOCK_BACKUP_PATH", "")
	if got := BackupFilePath(Options{BackupPath: "cfg"}); got != "cfg" {
		t.Fatalf("got %q", got)
	}
	if got := BackupFilePath(Options{}); got != backupDefaultPath {
		t.Fatalf("got %q", got)
	}
}

func TestCloseMemoryBackup(t *testing.T) {
	if err := closeBackup(newMemBackup(BackupRegisters)); err != nil {
		t.Fatal(err)
	}
}
