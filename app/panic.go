package app

import (
	"fmt"
	"runtime/debug"
	"strings"
	"unicode/utf8"

	"bedclock/clockos/render"
	"bedclock/clockos/ui"
)

// panicScreen logs a recovered panic, silences the buzzer and prints the
// panic over the whole display. The system stays halted afterwards.
func (s *system) panicScreen(v any) {
	s.halted = true
	stack := debug.Stack()

	s.logf("error: bedclock panic: %v", v)
	for _, line := range strings.Split(string(stack), "\n") {
		if line != "" {
			s.logf("error: %s", line)
		}
	}

	if b := s.h.Buzzer(); b != nil {
		_ = b.Off()
	}

	d := s.h.Display()
	if d == nil {
		return
	}
	fb := d.Framebuffer()
	if fb == nil {
		return
	}
	fb.Clear()

	lines := []string{
		"bedclock panic:",
		fmt.Sprintf("panic: %v", v),
		fmt.Sprintf("at: %s", s.model.Now()),
		"stack:",
	}
	for _, line := range strings.Split(string(stack), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}

	disp := render.NewDisplayer(fb)
	cols := int16(fb.Width() / ui.FontWidth)
	if cols <= 0 {
		cols = 1
	}
	maxH := int16(fb.Height())
	y := int16(0)

	for _, line := range lines {
		for len(line) > 0 && y+ui.FontHeight <= maxH {
			chunk, rest := takeRunes(line, cols)
			render.DrawText(disp, 0, y, chunk, render.Black)
			y += ui.FontHeight
			line = strings.TrimLeft(rest, " ")
		}
		if y+ui.FontHeight > maxH {
			break
		}
	}

	if err := fb.Present(true); err != nil {
		s.logf("error: present: %v", err)
	}
}

// takeRunes splits s after at most n runes.
func takeRunes(s string, n int16) (prefix, rest string) {
	if n <= 0 || s == "" {
		return "", s
	}
	if int64(len(s)) <= int64(n) {
		return s, ""
	}
	var i int
	var count int16
	for i < len(s) && count < n {
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
		count++
	}
	return s[:i], s[i:]
}
