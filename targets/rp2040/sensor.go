//go:build rp2040 || rp2350

package main

import (
	"tinygo.org/x/drivers"
	"tinygo.org/x/drivers/ina260"

	"chronolog/core"
)

// INA260Sensor implements core.PowerSensor on an INA260 power monitor.
// The chip reports bus voltage, current, and power in micro units,
// which is exactly what core.PowerReading carries.
type INA260Sensor struct {
	dev ina260.Device
}

// NewINA260 binds an INA260 on the given I2C bus and applies the
// default averaging/conversion configuration.
func NewINA260(bus drivers.I2C) *INA260Sensor {
	dev := ina260.New(bus)
	dev.Configure()
	return &INA260Sensor{dev: dev}
}

func (s *INA260Sensor) ReadPower() (core.PowerReading, error) {
	return core.PowerReading{
		Microvolts: s.dev.Voltage(),
		Microamps:  s.dev.Current(),
		Microwatts: s.dev.Power(),
	}, nil
}

var _ core.PowerSensor = (*INA260Sensor)(nil)
