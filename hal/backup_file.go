package hal

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
)

const (
	backupDefaultPath = "bedclock.backup"
	// BackupRegisters is the size of the register bank: two registers per
	// alarm slot.
	BackupRegisters = 10
)

var ErrBackupRegister = errors.New("backup register out of range")

// BackupFile keeps the backup registers in a small file of little-endian
// 16-bit words. A missing or short file reads as zero, like registers after
// the backup domain lost power.
type BackupFile struct {
	mu   sync.Mutex
	f    *os.File
	regs int
}

// BackupFilePath resolves the register file: BEDCLOCK_BACKUP_PATH, then
// opts.BackupPath, then bedclock.backup in the working directory.
func BackupFilePath(opts Options) string {
	if p := os.Getenv("BEDCLOCK_BACKUP_PATH"); p != "" {
		return p
	}
	if opts.BackupPath != "" {
		return opts.BackupPath
	}
	return backupDefaultPath
}

// OpenBackupFile opens or creates a register file with regs registers.
func OpenBackupFile(path string, regs int) (*BackupFile, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open backup %s: %w", path, err)
	}
	return &BackupFile{f: f, regs: regs}, nil
}

func (b *BackupFile) Registers() int { return b.regs }

func (b *BackupFile) ReadRegister(i int) (uint16, error) {
	if i < 0 || i >= b.regs {
		return 0, fmt.Errorf("read %d: %w", i, ErrBackupRegister)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.f == nil {
		return 0, ErrNotImplemented
	}
	var w [2]byte
	n, err := b.f.ReadAt(w[:], int64(i*2))
	if err != nil && !errors.Is(err, io.EOF) {
		return 0, fmt.Errorf("read backup register %d: %w", i, err)
	}
	if n < len(w) {
		return 0, nil
	}
	return uint16(w[0]) | uint16(w[1])<<8, nil
}

func (b *BackupFile) WriteRegister(i int, v uint16) error {
	if i < 0 || i >= b.regs {
		return fmt.Errorf("write %d: %w", i, ErrBackupRegister)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.f == nil {
		return ErrNotImplemented
	}
	w := [2]byte{byte(v), byte(v >> 8)}
	if _, err := b.f.WriteAt(w[:], int64(i*2)); err != nil {
		return fmt.Errorf("write backup register %d: %w", i, err)
	}
	return nil
}

func (b *BackupFile) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.f == nil {
		return nil
	}
	err := b.f.Close()
	b.f = nil
	return err
}

// memBackup is a volatile register bank used when no file can be opened.
type memBackup struct {
	mu   sync.Mutex
	regs []uint16
}

func newMemBackup(n int) *memBackup { return &memBackup{regs: make([]uint16, n)} }

func (b *memBackup) Registers() int { return len(b.regs) }

func (b *memBackup) ReadRegister(i int) (uint16, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if i < 0 || i >= len(b.regs) {
		return 0, fmt.Errorf("read %d: %w", i, ErrBackupRegister)
	}
	return b.regs[i], nil
}

func (b *memBackup) WriteRegister(i int, v uint16) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if i < 0 || i >= len(b.regs) {
		return fmt.Errorf("write %d: %w", i, ErrBackupRegister)
	}
	b.regs[i] = v
	return nil
}

// openBackup opens the register file, falling back to memory so the clock
// still runs on a read-only filesystem.
func openBackup(opts Options, log Logger) Backup {
	path := BackupFilePath(opts)
	b, err := OpenBackupFile(path, BackupRegisters)
	if err != nil {
		log.WriteLineString("warn: backup: " + err.Error() + "; alarms will not survive a restart")
		return newMemBackup(BackupRegisters)
	}
	log.WriteLineString("backup: " + path)
	return b
}

// closeBackup releases the register file behind b, if any.
func closeBackup(b Backup) error {
	if c, ok := b.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
