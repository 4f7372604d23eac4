package alarm

// Word layout of an encoded alarm:
//
//	bits  0-7   mode flags
//	bits  8-15  minute
//	bits 16-23  hour
//	bit  24     enabled
//	bits 25-30  zero
//	bit  31     set on every encoded word
//
// Bit 31 lets an erased or never-written storage word (all zeros) decode as
// "no alarm stored".
const (
	wordEnabled = 1 << 24
	wordPresent = 1 << 31
	wordUnused  = 0x7E000000
)

// Encode packs a into one 32-bit word.
func Encode(a Alarm) uint32 {
	w := uint32(a.Mode) | uint32(a.minute)<<8 | uint32(a.hour)<<16 | wordPresent
	if a.Enabled {
		w |= wordEnabled
	}
	return w
}

// Decode unpacks a word produced by Encode. It returns false for words
// without the presence bit, with unused bits set, or with an out of range
// hour or minute.
func Decode(w uint32) (Alarm, bool) {
	if w&wordPresent == 0 || w&wordUnused != 0 {
		return Alarm{}, false
	}
	a := Alarm{
		Enabled: w&wordEnabled != 0,
		Mode:    Mode(w),
	}
	if a.SetMinute(uint8(w>>8)) != nil || a.SetHour(uint8(w>>16)) != nil {
		return Alarm{}, false
	}
	return a, true
}

// SplitWord splits an encoded word into the two 16-bit backup registers it
// is stored in, low half first.
func SplitWord(w uint32) (lo, hi uint16) {
	return uint16(w), uint16(w >> 16)
}

// JoinWord is the inverse of SplitWord.
func JoinWord(lo, hi uint16) uint32 {
	return uint32(lo) | uint32(hi)<<16
}
