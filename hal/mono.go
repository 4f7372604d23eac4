package hal

import "sync"

// monoFramebuffer is a 1bpp drawing buffer. Present copies it to the shown
// frame, which front-ends read with snapshot from their own goroutine, and
// then calls the optional push hook.
type monoFramebuffer struct {
	width  int
	height int
	stride int
	buf    []byte
	push   func(shown []byte, full bool) error

	mu         sync.Mutex
	shown      []byte
	frames     uint64
	fullFrames uint64
}

func newMonoFramebuffer(width, height int) *monoFramebuffer {
	stride := (width + 7) / 8
	return &monoFramebuffer{
		width:  width,
		height: height,
		stride: stride,
		buf:    make([]byte, stride*height),
		shown:  make([]byte, stride*height),
	}
}

func (f *monoFramebuffer) Width() int          { return f.width }
func (f *monoFramebuffer) Height() int         { return f.height }
func (f *monoFramebuffer) Format() PixelFormat { return PixelFormatMono }
func (f *monoFramebuffer) StrideBytes() int    { return f.stride }
func (f *monoFramebuffer) Buffer() []byte      { return f.buf }

func (f *monoFramebuffer) Clear() {
	for i := range f.buf {
		f.buf[i] = 0
	}
}

func (f *monoFramebuffer) Present(full bool) error {
	f.mu.Lock()
	copy(f.shown, f.buf)
	f.frames++
	if full {
		f.fullFrames++
	}
	f.mu.Unlock()
	if f.push == nil {
		return nil
	}
	return f.push(f.shown, full)
}

// snapshot copies the last presented frame into dst.
func (f *monoFramebuffer) snapshot(dst []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	copy(dst, f.shown)
}

func (f *monoFramebuffer) counts() (frames, full uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.frames, f.fullFrames
}

// monoPixel reports whether pixel x, y of a 1bpp buffer is black.
func monoPixel(buf []byte, stride, x, y int) bool {
	off := y*stride + x/8
	if x < 0 || off < 0 || off >= len(buf) {
		return false
	}
	return buf[off]&(0x80>>uint(x%8)) != 0
}
