//go:build raspi

package hal

import (
	"fmt"
	"sync"

	"github.com/davecheney/i2c"
)

// i2cBus implements drivers.I2C on a Linux i2c-dev bus. Each transaction is
// a write of w followed by a read into r; devices on the clock board keep
// the register pointer between the two.
type i2cBus struct {
	bus  int
	mu   sync.Mutex
	devs map[uint16]*i2c.I2C
}

func newI2CBus(bus int) *i2cBus {
	return &i2cBus{bus: bus, devs: make(map[uint16]*i2c.I2C)}
}

func (b *i2cBus) device(addr uint16) (*i2c.I2C, error) {
	if d, ok := b.devs[addr]; ok {
		return d, nil
	}
	d, err := i2c.New(uint8(addr), b.bus)
	if err != nil {
		return nil, fmt.Errorf("i2c-%d addr %#02x: %w", b.bus, addr, err)
	}
	b.devs[addr] = d
	return d, nil
}

func (b *i2cBus) Tx(addr uint16, w, r []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	d, err := b.device(addr)
	if err != nil {
		return err
	}
	if len(w) > 0 {
		if _, err := d.Write(w); err != nil {
			return fmt.Errorf("i2c write %#02x: %w", addr, err)
		}
	}
	if len(r) > 0 {
		if _, err := d.Read(r); err != nil {
			return fmt.Errorf("i2c read %#02x: %w", addr, err)
		}
	}
	return nil
}

func (b *i2cBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	var first error
	for addr, d := range b.devs {
		if err := d.Close(); err != nil && first == nil {
			first = err
		}
		delete(b.devs, addr)
	}
	return first
}
