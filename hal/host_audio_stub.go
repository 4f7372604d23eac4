//go:build !raspi && !cgo

package hal

// Without cgo there is no audio backend; tones are logged instead.
func newHeadlessBuzzer(log Logger) Buzzer { return &logBuzzer{log: log} }
func newWindowBuzzer(log Logger) Buzzer   { return &logBuzzer{log: log} }
