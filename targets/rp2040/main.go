//go:build rp2040 || rp2350

package main

import (
	"machine"
	"time"

	"chronolog/core"
)

const (
	// GPIO wired to the DS3231's INT/SQW output.
	sqwPin core.GPIOPin = 6

	// Measurement cadence.
	sampleIntervalMillis = 100

	// Onboard LED (GP25 on the Pico), toggled once per sample.
	activityLED core.GPIOPin = 25
)

func main() {
	// Give USB CDC a moment to enumerate so early messages are visible.
	time.Sleep(2 * time.Second)

	machine.I2C0.Configure(machine.I2CConfig{Frequency: 400 * machine.KHz})

	InitClock()
	core.SetGPIODriver(NewRPGPIODriver())
	core.SetRTCDriver(NewDS3231(machine.I2C0))
	core.SetPowerSensor(NewINA260(machine.I2C0))
	core.SetDebugWriter(func(s string) {
		machine.Serial.Write([]byte(s))
		machine.Serial.Write([]byte("\r\n"))
	})

	display := NewOLEDStatus(machine.I2C0)
	core.SetStatusDisplay(display)
	display.ShowMessage("chronolog", "syncing...")

	clock := core.NewPrecisionClock(sqwPin)
	precise, err := clock.Initialize(core.DefaultSyncTimeout)
	if err != nil {
		// No RTC means no timestamps; nothing useful to log.
		display.ShowMessage("RTC not found", "check wiring")
		for {
			machine.Serial.Write([]byte("[chronolog] RTC not found\r\n"))
			time.Sleep(5 * time.Second)
		}
	}
	if precise {
		display.ShowMessage("sync: SQW", "1ms precision")
	} else {
		display.ShowMessage("sync: polling", "reduced precision")
	}

	sampler := core.NewSampler(clock, sampleIntervalMillis, func(line []byte) {
		machine.Serial.Write(line)
	})
	sampler.SetActivityPin(activityLED)

	for {
		clock.Update()
		sampler.Poll()
		time.Sleep(time.Millisecond)
	}
}
