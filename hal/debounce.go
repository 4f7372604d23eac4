package hal

// debounceSamples is the number of consecutive samples a button must hold a
// new level before the change is reported.
const debounceSamples = 30

type debouncer struct {
	n       int
	pressed bool
	count   int
}

func newDebouncer(n int) debouncer {
	if n <= 0 {
		n = 1
	}
	return debouncer{n: n}
}

// sample feeds one raw reading and reports whether the debounced state
// changed.
func (d *debouncer) sample(pressed bool) bool {
	if pressed == d.pressed {
		d.count = 0
		return false
	}
	d.count++
	if d.count < d.n {
		return false
	}
	d.pressed = pressed
	d.count = 0
	return true
}

// buttonBank debounces all buttons and emits events without blocking.
type buttonBank struct {
	ch  chan ButtonEvent
	deb [ButtonCount]debouncer
}

func newButtonBank(samples int) *buttonBank {
	b := &buttonBank{ch: make(chan ButtonEvent, 64)}
	for i := range b.deb {
		b.deb[i] = newDebouncer(samples)
	}
	return b
}

func (b *buttonBank) Events() <-chan ButtonEvent { return b.ch }

func (b *buttonBank) sample(btn Button, pressed bool) {
	if btn >= ButtonCount {
		return
	}
	d := &b.deb[btn]
	if d.sample(pressed) {
		b.emit(ButtonEvent{Button: btn, Press: d.pressed})
	}
}

func (b *buttonBank) emit(ev ButtonEvent) {
	select {
	case b.ch <- ev:
	default:
	}
}

// click emits a press and a release, for front-ends that see key strokes
// rather than levels.
func (b *buttonBank) click(btn Button) {
	b.emit(ButtonEvent{Button: btn, Press: true})
	b.emit(ButtonEvent{Button: btn, Press: false})
}
