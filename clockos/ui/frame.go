package ui

import (
	"strconv"
	"unicode/utf8"

	"bedclock/clockos/alarm"
)

// Surface geometry. Text is laid out on an 8x16 character cell.
const (
	Width      = 296
	Height     = 128
	FontWidth  = 8
	FontHeight = 16
)

const (
	// MaxOps bounds the number of operations in a Frame.
	MaxOps = 48
	// MaxText bounds the text of one operation, in bytes.
	MaxText = 48
)

// OpKind identifies a drawing operation.
type OpKind uint8

const (
	// OpText draws black text; X, Y is the top-left corner of the first
	// character cell.
	OpText OpKind = iota + 1
	// OpFillRect fills a black W x H rectangle at X, Y.
	OpFillRect
)

// Op is one drawing operation on a white monochrome surface.
type Op struct {
	Kind OpKind
	X, Y int16
	W, H int16

	n    uint8
	text [MaxText]byte
}

// Text returns the text of an OpText operation.
func (o *Op) Text() string { return string(o.text[:o.n]) }

// TextBytes is Text without the copy.
func (o *Op) TextBytes() []byte { return o.text[:o.n] }

// Frame is a fixed-capacity list of drawing operations. Operations beyond
// MaxOps are dropped.
type Frame struct {
	n   int
	ops [MaxOps]Op
}

func (f *Frame) Reset()     { f.n = 0 }
func (f *Frame) Len() int   { return f.n }
func (f *Frame) Ops() []Op  { return f.ops[:f.n] }
func (f *Frame) full() bool { return f.n >= len(f.ops) }

// FillRect appends a filled rectangle.
func (f *Frame) FillRect(x, y, w, h int16) {
	if f.full() || w <= 0 || h <= 0 {
		return
	}
	f.ops[f.n] = Op{Kind: OpFillRect, X: x, Y: y, W: w, H: h}
	f.n++
}

// Text appends s at x, y.
func (f *Frame) Text(x, y int16, s string) {
	var l line
	l.str(s)
	f.line(x, y, &l)
}

func (f *Frame) line(x, y int16, l *line) {
	if f.full() {
		return
	}
	op := &f.ops[f.n]
	op.Kind = OpText
	op.X, op.Y = x, y
	op.W, op.H = int16(l.chars()*FontWidth), FontHeight
	op.n = uint8(copy(op.text[:], l.b[:l.n]))
	f.n++
}

// line is a fixed-size text buffer. Writes past MaxText are truncated.
type line struct {
	n int
	b [MaxText]byte
}

func (l *line) reset() { l.n = 0 }

func (l *line) str(s string) *line {
	l.n += copy(l.b[l.n:], s)
	return l
}

func (l *line) bytes(b []byte) *line {
	l.n += copy(l.b[l.n:], b)
	return l
}

func (l *line) byte(c byte) *line {
	if l.n < len(l.b) {
		l.b[l.n] = c
		l.n++
	}
	return l
}

// uint writes v right-aligned in width characters, padded with pad.
func (l *line) uint(v uint64, width int, pad byte) *line {
	var tmp [20]byte
	digits := strconv.AppendUint(tmp[:0], v, 10)
	for i := len(digits); i < width; i++ {
		l.byte(pad)
	}
	return l.bytes(digits)
}

// centi writes a hundredths value as a decimal with two fraction digits.
func (l *line) centi(v int32) *line {
	u := int64(v)
	if u < 0 {
		l.byte('-')
		u = -u
	}
	l.uint(uint64(u/100), 0, 0)
	l.byte('.')
	return l.uint(uint64(u%100), 2, '0')
}

func (l *line) alarm(a alarm.Alarm) *line {
	var tmp [40]byte
	return l.bytes(a.AppendText(tmp[:0]))
}

func (l *line) chars() int { return utf8.RuneCount(l.b[:l.n]) }

func (l *line) String() string { return string(l.b[:l.n]) }
