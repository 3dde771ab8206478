//go:build rp2040 || rp2350

package main

import (
	"time"

	"tinygo.org/x/drivers"
	"tinygo.org/x/drivers/ds3231"

	"chronolog/core"
)

// DS3231 control register bits relevant to the square-wave output.
const (
	ds3231RegControl = 0x0E
	ds3231BitINTCN   = 1 << 2 // 1 = interrupt output, 0 = square wave
	ds3231BitRS1     = 1 << 3 // rate select: 00 = 1Hz
	ds3231BitRS2     = 1 << 4
)

// DS3231RTC implements core.RTCDriver on a DS3231 chip. Time reads go
// through the tinygo driver; the square-wave control register is not
// exposed by the driver, so it is written directly over the same bus.
type DS3231RTC struct {
	dev ds3231.Device
	bus drivers.I2C
}

// NewDS3231 binds a DS3231 on the given I2C bus.
func NewDS3231(bus drivers.I2C) *DS3231RTC {
	return &DS3231RTC{
		dev: ds3231.New(bus),
		bus: bus,
	}
}

func (r *DS3231RTC) ReadTime() (time.Time, error) {
	return r.dev.ReadTime()
}

// EnableSquareWave1Hz switches the INT/SQW pin to a 1Hz square wave.
// Read-modify-write so oscillator and alarm bits are left alone.
func (r *DS3231RTC) EnableSquareWave1Hz() error {
	var buf [1]byte
	if err := r.bus.ReadRegister(uint8(ds3231.Address), ds3231RegControl, buf[:]); err != nil {
		return err
	}
	buf[0] &^= ds3231BitINTCN | ds3231BitRS1 | ds3231BitRS2
	return r.bus.WriteRegister(uint8(ds3231.Address), ds3231RegControl, buf[:])
}

var _ core.RTCDriver = (*DS3231RTC)(nil)
