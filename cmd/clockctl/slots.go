package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"bedclock/app"
	"bedclock/clockos/alarm"
	"bedclock/clockos/calendar"
	"bedclock/hal"
	"bedclock/internal/config"
)

// storage holds the flags shared by the commands that read the slots.
type storage struct {
	config string
	backup string
}

func (s *storage) register(fs *flag.FlagSet) {
	fs.StringVar(&s.config, "config", "", "Configuration file (TOML or YAML).")
	fs.StringVar(&s.backup, "backup", "", "Backup register file (default from config or BEDCLOCK_BACKUP_PATH).")
}

func (s *storage) appConfig() (app.Config, hal.Options, error) {
	if s.config == "" {
		return app.DefaultConfig(), hal.Options{}, nil
	}
	f, err := config.Load(s.config)
	if err != nil {
		return app.Config{}, hal.Options{}, err
	}
	cfg, err := f.AppConfig(time.Now())
	return cfg, f.HALOptions(), err
}

func (s *storage) path(opts hal.Options) string {
	if s.backup != "" {
		return s.backup
	}
	return hal.BackupFilePath(opts)
}

// load returns the slots the clock would boot with: stored alarms over the
// configured defaults.
func (s *storage) load() (alarm.Manager, app.Config, error) {
	cfg, opts, err := s.appConfig()
	if err != nil {
		return alarm.Manager{}, cfg, err
	}
	path := s.path(opts)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return cfg.Alarms, cfg, nil
	}
	b, err := hal.OpenBackupFile(path, hal.BackupRegisters)
	if err != nil {
		return alarm.Manager{}, cfg, err
	}
	defer func() { _ = b.Close() }()
	m, _, err := app.LoadAlarms(b, cfg.Alarms)
	return m, cfg, err
}

// alarmFlags describe one alarm on the command line.
type alarmFlags struct {
	enabled  bool
	schedule string
	oneTime  string
}

func (a *alarmFlags) register(fs *flag.FlagSet) {
	fs.BoolVar(&a.enabled, "enabled", false, "Arm the alarm.")
	fs.StringVar(&a.schedule, "schedule", "", `Weekly cron schedule, e.g. "30 6 * * 1-5".`)
	fs.StringVar(&a.oneTime, "one-time", "", "One time alarm at HH:MM.")
}

func (a *alarmFlags) alarm() (alarm.Alarm, error) {
	switch {
	case a.schedule != "" && a.oneTime != "":
		return alarm.Alarm{}, fmt.Errorf("%w: -schedule and -one-time are exclusive", errUsage)
	case a.schedule != "":
		h, m, mode, err := config.ParseSchedule(a.schedule)
		if err != nil {
			return alarm.Alarm{}, err
		}
		return alarm.New(a.enabled, h, m, mode)
	case a.oneTime != "":
		h, m, err := config.ParseClock(a.oneTime)
		if err != nil {
			return alarm.Alarm{}, err
		}
		return alarm.New(a.enabled, h, m, alarm.OneTime)
	default:
		return alarm.Alarm{}, fmt.Errorf("%w: -schedule or -one-time is required", errUsage)
	}
}

func runNext(args []string, stdout io.Writer) error {
	fs := newFlagSet("next")
	var st storage
	st.register(fs)
	at := fs.String("at", "", `Reference time "2006-01-02 15:04" (default now).`)
	if err := fs.Parse(args); err != nil {
		return err
	}

	now := time.Now()
	if *at != "" {
		t, err := time.ParseInLocation("2006-01-02 15:04", *at, time.Local)
		if err != nil {
			return fmt.Errorf("-at: %w", err)
		}
		now = t
	}
	m, _, err := st.load()
	if err != nil {
		return err
	}

	for i, a := range m.Alarms {
		fmt.Fprintf(stdout, "slot %d: %s\n", i, a)
	}
	r, ok := m.NextRing(calendar.FromTime(now))
	if !ok {
		fmt.Fprintln(stdout, "next: none")
		return nil
	}
	fmt.Fprintf(stdout, "next: %s %d:%02d (slot %d)\n", r.Day, r.Hour, r.Minute, r.Slot)
	return nil
}

func runSet(args []string, stdout io.Writer) error {
	fs := newFlagSet("set")
	var st storage
	var af alarmFlags
	st.register(fs)
	af.register(fs)
	slot := fs.Int("slot", -1, "Slot index.")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *slot < 0 || *slot >= alarm.Slots {
		return fmt.Errorf("%w: -slot must be 0..%d", errUsage, alarm.Slots-1)
	}
	a, err := af.alarm()
	if err != nil {
		return err
	}
	_, opts, err := st.appConfig()
	if err != nil {
		return err
	}
	path := st.path(opts)
	b, err := hal.OpenBackupFile(path, hal.BackupRegisters)
	if err != nil {
		return err
	}
	defer func() { _ = b.Close() }()
	if err := app.WriteSlot(b, *slot, a); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	fmt.Fprintf(stdout, "%s: slot %d = %s\n", path, *slot, a)
	return nil
}

func runEncode(args []string, stdout io.Writer) error {
	fs := newFlagSet("encode")
	var af alarmFlags
	af.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	a, err := af.alarm()
	if err != nil {
		return err
	}
	w := alarm.Encode(a)
	lo, hi := alarm.SplitWord(w)
	fmt.Fprintf(stdout, "0x%08x lo=0x%04x hi=0x%04x %s\n", w, lo, hi, a)
	return nil
}

func runDecode(args []string, stdout io.Writer) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: decode takes one word", errUsage)
	}
	w, err := strconv.ParseUint(args[0], 0, 32)
	if err != nil {
		return fmt.Errorf("decode %q: %w", args[0], err)
	}
	a, ok := alarm.Decode(uint32(w))
	if !ok {
		return fmt.Errorf("decode 0x%08x: not an alarm", w)
	}
	fmt.Fprintln(stdout, a)
	return nil
}
