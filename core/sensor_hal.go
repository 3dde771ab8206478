package core

// PowerReading is one bus power-monitor sample in micro units, matching
// the resolution the INA260 reports natively.
type PowerReading struct {
	Microvolts int32
	Microamps  int32
	Microwatts int32
}

// PowerSensor is the abstract power-monitor interface that core code
// uses. Platform-specific implementations handle the actual chip.
type PowerSensor interface {
	// ReadPower returns one sample of bus voltage, current, and power.
	ReadPower() (PowerReading, error)
}

// Global singleton used by core code.
var powerSensor PowerSensor

// SetPowerSensor is called by target-specific code to register its driver.
func SetPowerSensor(s PowerSensor) {
	powerSensor = s
}

// MustSensor returns the configured sensor or panics if missing.
func MustSensor() PowerSensor {
	if powerSensor == nil {
		panic("power sensor not configured")
	}
	return powerSensor
}
