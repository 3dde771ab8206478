//go:build rp2040 || rp2350

package main

import (
	"runtime/volatile"
	"unsafe"

	"chronolog/core"
)

// RP2040/RP2350 Timer peripheral memory map
const (
	timerBase     = 0x40054000
	timerTIMERAWH = timerBase + 0x08 // Raw timer high word
	timerTIMERAWL = timerBase + 0x0C // Raw timer low word
)

var (
	timerRAWH = (*volatile.Register32)(unsafe.Pointer(uintptr(timerTIMERAWH)))
	timerRAWL = (*volatile.Register32)(unsafe.Pointer(uintptr(timerTIMERAWL)))
)

// InitClock registers the hardware microsecond timer as the millisecond
// tick source. The RP2040 timer is a 64-bit counter at 1MHz; dividing
// the full 64-bit value down to milliseconds and truncating to uint32
// gives a counter that wraps cleanly at the uint32 boundary (~49.7
// days), which is what the sync core's wraparound arithmetic expects.
func InitClock() {
	core.SetTickSource(func() uint32 {
		return uint32(hardwareMicros() / 1000)
	})
}

// hardwareMicros reads the full 64-bit microsecond counter.
func hardwareMicros() uint64 {
	// Read high, then low, then high again to detect a rollover of the
	// low word during the read.
	for {
		high1 := timerRAWH.Get()
		low := timerRAWL.Get()
		high2 := timerRAWH.Get()

		if high1 == high2 {
			return (uint64(high1) << 32) | uint64(low)
		}
		// Retry (rollover happened during read)
	}
}
