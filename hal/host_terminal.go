//go:build !raspi

package hal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"bedclock/internal/buildinfo"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const terminalLogPath = "bedclock.log"

// RunTerminal draws the panel in the terminal with braille characters.
// Logs go to a file since the terminal is taken.
func RunTerminal(ctx context.Context, opts Options, newApp func(HAL) func() error, hz int) error {
	if hz <= 0 {
		hz = 30
	}
	if opts.LogPath == "" {
		opts.LogPath = terminalLogPath
	}
	h, err := newHost(opts)
	if err != nil {
		return err
	}
	defer h.close()
	h.setBuzzer(newHeadlessBuzzer(h.logger))

	m := &termModel{
		h:       h,
		step:    newApp(h),
		every:   time.Second / time.Duration(hz),
		scratch: make([]byte, len(h.fb.buf)),
		frame: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")),
		help: lipgloss.NewStyle().Faint(true),
	}
	p := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) {
			return ctx.Err()
		}
		return err
	}
	return m.err
}

type termTick struct{}

type termModel struct {
	h       *hostHAL
	step    func() error
	every   time.Duration
	scratch []byte
	err     error

	frame lipgloss.Style
	help  lipgloss.Style
}

func (m *termModel) tick() tea.Cmd {
	return tea.Tick(m.every, func(time.Time) tea.Msg { return termTick{} })
}

func (m *termModel) Init() tea.Cmd { return m.tick() }

func (m *termModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case termTick:
		m.h.t.advance()
		if m.step != nil {
			if err := m.step(); err != nil {
				m.err = err
				return m, tea.Quit
			}
		}
		return m, m.tick()
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		default:
			if b, ok := terminalButton(msg.String()); ok {
				m.h.buttons.click(b)
			}
		}
	}
	return m, nil
}

func terminalButton(key string) (Button, bool) {
	switch key {
	case "esc", "backspace", "c":
		return ButtonCancel, true
	case "left", "down", "-":
		return ButtonMinus, true
	case "right", "up", "+", "=":
		return ButtonPlus, true
	case "enter", " ", "o":
		return ButtonOk, true
	}
	return 0, false
}

func (m *termModel) View() string {
	fb := m.h.fb
	fb.snapshot(m.scratch)
	lines := monoToBraille(m.scratch, fb.stride, fb.width, fb.height)
	frames, full := fb.counts()
	return m.frame.Render(strings.Join(lines, "\n")) + "\n" +
		m.help.Render(fmt.Sprintf("bedclock %s  esc cancel  ←/- minus  →/+ plus  enter ok  q quit  frames %d (%d full)",
			buildinfo.Short(), frames, full))
}
