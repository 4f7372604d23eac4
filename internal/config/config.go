// Package config loads the optional bedclock configuration file. TOML and
// YAML are accepted, chosen by file extension.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"bedclock/app"
	"bedclock/clockos/alarm"
	"bedclock/hal"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

var (
	ErrFormat = errors.New("config: unsupported file extension")
	ErrSlot   = errors.New("config: bad alarm slot")
)

// File mirrors the configuration file.
type File struct {
	Clock   Clock   `toml:"clock" yaml:"clock"`
	UI      UI      `toml:"ui" yaml:"ui"`
	Alarm   Alarm   `toml:"alarm" yaml:"alarm"`
	Log     Log     `toml:"log" yaml:"log"`
	Storage Storage `toml:"storage" yaml:"storage"`
}

type Clock struct {
	// Start seeds an unset RTC: "now", epoch seconds, or a date and time
	// such as "2018-09-01 23:59:40".
	Start string `toml:"start" yaml:"start"`
}

type UI struct {
	Inactivity string `toml:"inactivity" yaml:"inactivity"`
}

type Alarm struct {
	Ring  string `toml:"ring" yaml:"ring"`
	Slots []Slot `toml:"slot" yaml:"slot"`
}

// Slot is the default of one alarm slot, used while the backup registers
// hold nothing for it. Exactly one of Schedule and OneTime is set.
type Slot struct {
	Index    int    `toml:"index" yaml:"index"`
	Enabled  bool   `toml:"enabled" yaml:"enabled"`
	Schedule string `toml:"schedule" yaml:"schedule"`
	OneTime  string `toml:"one_time" yaml:"one_time"`
}

type Log struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"`
	Path   string `toml:"path" yaml:"path"`
}

type Storage struct {
	Backup string `toml:"backup" yaml:"backup"`
}

// Load reads path. Unknown keys are errors.
func Load(path string) (File, error) {
	var f File
	data, err := os.ReadFile(path)
	if err != nil {
		return f, fmt.Errorf("config: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = decodeTOML(data, &f)
	case ".yaml", ".yml":
		err = decodeYAML(data, &f)
	default:
		return f, fmt.Errorf("%w: %q", ErrFormat, filepath.Ext(path))
	}
	if err != nil {
		return f, fmt.Errorf("config: %s: %w", path, err)
	}
	return f, nil
}

func decodeTOML(data []byte, f *File) error {
	md, err := toml.Decode(string(data), f)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("unknown key %q", undecoded[0].String())
	}
	return nil
}

func decodeYAML(data []byte, f *File) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(f); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// HALOptions returns the HAL settings of f.
func (f File) HALOptions() hal.Options {
	return hal.Options{
		LogLevel:   f.Log.Level,
		LogFormat:  f.Log.Format,
		LogPath:    f.Log.Path,
		BackupPath: f.Storage.Backup,
	}
}

// AppConfig applies f on top of app.DefaultConfig. now resolves
// start = "now".
func (f File) AppConfig(now time.Time) (app.Config, error) {
	cfg := app.DefaultConfig()

	if f.Clock.Start != "" {
		start, err := parseStart(f.Clock.Start, now)
		if err != nil {
			return cfg, err
		}
		cfg.Start = start
	}
	if f.UI.Inactivity != "" {
		d, err := parseDuration("ui.inactivity", f.UI.Inactivity)
		if err != nil {
			return cfg, err
		}
		cfg.Inactivity = d
	}
	if f.Alarm.Ring != "" {
		d, err := parseDuration("alarm.ring", f.Alarm.Ring)
		if err != nil {
			return cfg, err
		}
		cfg.Ring = d
	}

	var seen [alarm.Slots]bool
	for _, s := range f.Alarm.Slots {
		if s.Index < 0 || s.Index >= alarm.Slots {
			return cfg, fmt.Errorf("%w: index %d outside 0..%d", ErrSlot, s.Index, alarm.Slots-1)
		}
		if seen[s.Index] {
			return cfg, fmt.Errorf("%w: index %d given twice", ErrSlot, s.Index)
		}
		seen[s.Index] = true
		a, err := s.alarm()
		if err != nil {
			return cfg, fmt.Errorf("%w %d: %w", ErrSlot, s.Index, err)
		}
		cfg.Alarms.Alarms[s.Index] = a
	}
	return cfg, nil
}

func (s Slot) alarm() (alarm.Alarm, error) {
	switch {
	case s.Schedule != "" && s.OneTime != "":
		return alarm.Alarm{}, errors.New("schedule and one_time are exclusive")
	case s.Schedule != "":
		hour, minute, mode, err := ParseSchedule(s.Schedule)
		if err != nil {
			return alarm.Alarm{}, err
		}
		return alarm.New(s.Enabled, hour, minute, mode)
	case s.OneTime != "":
		hour, minute, err := ParseClock(s.OneTime)
		if err != nil {
			return alarm.Alarm{}, err
		}
		return alarm.New(s.Enabled, hour, minute, alarm.OneTime)
	default:
		return alarm.Alarm{}, errors.New("schedule or one_time is required")
	}
}

func parseDuration(key, s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("config: %s: negative duration %s", key, s)
	}
	return d, nil
}

// ParseClock parses "HH:MM".
func ParseClock(s string) (hour, minute uint8, err error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, 0, fmt.Errorf("one_time %q: want HH:MM", s)
	}
	return uint8(t.Hour()), uint8(t.Minute()), nil
}

var startLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// parseStart resolves the RTC seed. The RTC keeps local wall time, so "now"
// is shifted by the zone offset of now.
func parseStart(s string, now time.Time) (uint32, error) {
	s = strings.TrimSpace(s)
	if s == "now" {
		_, offset := now.Zone()
		return wallEpoch(now.Unix() + int64(offset))
	}
	if n, err := strconv.ParseUint(s, 10, 32); err == nil {
		return uint32(n), nil
	}
	for _, layout := range startLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return wallEpoch(t.Unix())
		}
	}
	return 0, fmt.Errorf("config: clock.start %q: want now, epoch seconds or YYYY-MM-DD HH:MM:SS", s)
}

func wallEpoch(sec int64) (uint32, error) {
	if sec < 0 || sec > int64(^uint32(0)) {
		return 0, errStartRange
	}
	return uint32(sec), nil
}

var errStartRange = errors.New("config: clock.start outside 1970-01-01..2106-02-07")
