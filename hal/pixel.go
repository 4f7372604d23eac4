package hal

// Panel colors: black ink on a paper-white background.
const (
	inkR, inkG, inkB       = 0x20, 0x20, 0x20
	paperR, paperG, paperB = 0xE8, 0xE4, 0xD8
)

func rgb565(r, g, b uint8) uint16 {
	rr := uint16(r>>3) & 0x1F
	gg := uint16(g>>2) & 0x3F
	bb := uint16(b>>3) & 0x1F
	return (rr << 11) | (gg << 5) | bb
}

// monoToRGBA expands a 1bpp buffer into RGBA pixels.
func monoToRGBA(dst []byte, src []byte, stride, width, height int) {
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			j := (y*width + x) * 4
			if j+3 >= len(dst) {
				return
			}
			if monoPixel(src, stride, x, y) {
				dst[j+0], dst[j+1], dst[j+2] = inkR, inkG, inkB
			} else {
				dst[j+0], dst[j+1], dst[j+2] = paperR, paperG, paperB
			}
			dst[j+3] = 0xFF
		}
	}
}

// monoToRGB565 expands a 1bpp buffer into little-endian RGB565 rows of
// dstStride bytes, as used by Linux framebuffer devices.
func monoToRGB565(dst []byte, dstStride int, src []byte, stride, width, height int) {
	ink := rgb565(inkR, inkG, inkB)
	paper := rgb565(paperR, paperG, paperB)
	for y := 0; y < height; y++ {
		row := y * dstStride
		for x := 0; x < width; x++ {
			off := row + x*2
			if off+1 >= len(dst) {
				return
			}
			p := paper
			if monoPixel(src, stride, x, y) {
				p = ink
			}
			dst[off] = byte(p)
			dst[off+1] = byte(p >> 8)
		}
	}
}

// brailleDots maps a pixel offset within a 2x4 braille cell to its dot bit.
var brailleDots = [4][2]rune{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// monoToBraille renders a 1bpp buffer as lines of braille characters, each
// covering 2x4 pixels.
func monoToBraille(src []byte, stride, width, height int) []string {
	rows := (height + 3) / 4
	cols := (width + 1) / 2
	lines := make([]string, rows)
	cell := make([]rune, cols)
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			r := rune(0x2800)
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					x, y := col*2+dx, row*4+dy
					if x < width && y < height && monoPixel(src, stride, x, y) {
						r |= brailleDots[dy][dx]
					}
				}
			}
			cell[col] = r
		}
		lines[row] = string(cell)
	}
	return lines
}
