package core

import "time"

// RTCDriver is the abstract battery-backed calendar clock interface that
// core code uses. Platform-specific implementations talk to the actual
// RTC chip over I2C.
type RTCDriver interface {
	// ReadTime returns the current calendar time with one-second
	// resolution. A read failure means the device is absent or the bus
	// is broken; callers treat it as fatal during initialization.
	ReadTime() (time.Time, error)

	// EnableSquareWave1Hz configures the RTC to emit a 1Hz square wave
	// on its SQW output pin. Each falling edge marks a second boundary.
	EnableSquareWave1Hz() error
}

// Global singleton used by core code.
var rtcDriver RTCDriver

// SetRTCDriver is called by target-specific code to register its driver.
func SetRTCDriver(d RTCDriver) {
	rtcDriver = d
}

// MustRTC returns the configured driver or panics if missing.
func MustRTC() RTCDriver {
	if rtcDriver == nil {
		panic("RTC driver not configured")
	}
	return rtcDriver
}
