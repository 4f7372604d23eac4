//go:build !raspi

package hal

import (
	"context"
	"fmt"
	"time"
)

// HeadlessConfig controls the no-window host runner.
type HeadlessConfig struct {
	Enabled bool
	Hz      int
	Ticks   uint64
	// Script is a sequence of buttons clicked one per second from the
	// start, for smoke runs.
	Script []Button
}

// RunHeadless runs the clock without opening a window.
func RunHeadless(ctx context.Context, opts Options, newApp func(HAL) func() error, cfg HeadlessConfig) error {
	if cfg.Hz <= 0 {
		cfg.Hz = 60
	}
	d := time.Second / time.Duration(cfg.Hz)
	if d <= 0 {
		return fmt.Errorf("invalid headless hz: %d", cfg.Hz)
	}

	h, err := newHost(opts)
	if err != nil {
		return err
	}
	defer h.close()
	h.setBuzzer(newHeadlessBuzzer(h.logger))
	step := newApp(h)

	t := time.NewTicker(d)
	defer t.Stop()

	script := cfg.Script
	perClick := uint64(cfg.Hz)
	var tick uint64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			if len(script) > 0 && tick%perClick == perClick-1 {
				h.buttons.click(script[0])
				script = script[1:]
			}
			h.t.advance()
			if step != nil {
				if err := step(); err != nil {
					return err
				}
			}
			tick++
			if cfg.Ticks > 0 && tick >= cfg.Ticks {
				return nil
			}
		}
	}
}

// ParseButtons parses a comma-free script such as "o+o-c" where o, c, +
// and - are Ok, Cancel, Plus and Minus.
func ParseButtons(s string) ([]Button, error) {
	out := make([]Button, 0, len(s))
	for i, r := range s {
		switch r {
		case 'o', 'O':
			out = append(out, ButtonOk)
		case 'c', 'C':
			out = append(out, ButtonCancel)
		case '+':
			out = append(out, ButtonPlus)
		case '-':
			out = append(out, ButtonMinus)
		case ' ':
		default:
			return nil, fmt.Errorf("button script: unexpected %q at %d", r, i)
		}
	}
	return out, nil
}
