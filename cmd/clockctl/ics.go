package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"bedclock/internal/icsexport"
)

func runICS(args []string, stdout io.Writer) (err error) {
	fs := newFlagSet("ics")
	var st storage
	st.register(fs)
	out := fs.String("out", "", "Output file (default stdout).")
	tz := fs.String("tz", "Local", "Time zone of the clock, e.g. Europe/Paris. An unnamed local zone exports floating times.")
	device := fs.String("device", "bedclock", "Device name used in event UIDs.")
	if err := fs.Parse(args); err != nil {
		return err
	}

	loc, err := time.LoadLocation(*tz)
	if err != nil {
		return fmt.Errorf("-tz: %w", err)
	}
	m, cfg, err := st.load()
	if err != nil {
		return err
	}

	w := stdout
	if *out != "" {
		var f *os.File
		if f, err = os.Create(*out); err != nil {
			return err
		}
		defer func() {
			if cerr := f.Close(); err == nil {
				err = cerr
			}
		}()
		w = f
	}
	return icsexport.Write(w, &m, icsexport.Options{
		Now:      time.Now(),
		Location: loc,
		Ring:     cfg.Ring,
		Device:   *device,
	})
}
