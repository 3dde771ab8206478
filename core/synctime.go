// Millisecond-accurate timestamps derived from an RTC's 1Hz square wave.
// The free-running millisecond counter is anchored to the RTC at each
// falling SQW edge; if no edge signal is wired up, second rollovers
// observed by polling serve as a lower-precision anchor instead.
package core

import "time"

// SyncMode reports how the clock reference is being refreshed.
type SyncMode uint8

const (
	SyncNone      SyncMode = iota // Initialize has not committed a reference
	SyncInterrupt                 // anchored by SQW falling edges
	SyncPolling                   // anchored by polled second rollovers
)

const (
	// DefaultSyncTimeout is the default SQW detection window in milliseconds.
	DefaultSyncTimeout = 2500

	// TimestampLen is len("YYYY-MM-DD HH:MM:SS.mmm").
	TimestampLen = 23

	// Sampling period of the detection loop, in microseconds.
	edgeSampleMicros = 100
)

// clockReference maps a tick value to the wall-clock time at that tick.
// It is replaced as a whole record, only ever from the main context.
type clockReference struct {
	syncTick uint32    // Millis() at the anchor point
	baseTime time.Time // RTC time at syncTick
}

// PrecisionClock produces timestamps with millisecond precision from a
// calendar clock that only resolves whole seconds.
//
// In interrupt mode every committed reference lands exactly on a second
// boundary, so the only residual error is the RTC oscillator's own drift
// since the last edge. In polling mode the anchor lags the true boundary
// by up to one Update() period.
type PrecisionClock struct {
	sqwPin GPIOPin

	// Written only from interrupt context, drained by Update under a
	// short masked section. When several edges fire before a drain,
	// the most recent one wins; every edge is an equally valid anchor.
	// Plain fields are sound because the ISR and the main loop share
	// one core: a 32-bit store cannot tear and masking interrupts
	// orders the drain. A multi-core port must replace this pair with
	// an atomic or lock-guarded cell.
	edgePending bool
	edgeTick    uint32

	ref        clockReference
	mode       SyncMode
	lastSecond int // polling mode rollover detector
}

// activeClock is the instance reachable from the edge interrupt handler.
// A hardware interrupt vector cannot carry an object reference, so
// Initialize registers the clock here once; it stays registered for the
// process lifetime. Only the interrupt-binding path below touches it.
var activeClock *PrecisionClock

// sleepMicros paces the detection loop. Tests stub it out.
var sleepMicros = func(us int) {
	time.Sleep(time.Duration(us) * time.Microsecond)
}

// NewPrecisionClock returns an unsynchronized clock watching the given
// SQW input pin.
func NewPrecisionClock(sqwPin GPIOPin) *PrecisionClock {
	return &PrecisionClock{sqwPin: sqwPin, lastSecond: -1}
}

// onSqwEdge runs in interrupt context on each falling SQW edge. It only
// captures the tick counter and flags the pending edge; the RTC read
// happens later in the main context (bus I/O is unsafe here).
func onSqwEdge() {
	c := activeClock
	if c == nil {
		return
	}
	c.edgeTick = Millis()
	c.edgePending = true
}

// Initialize enables the RTC's 1Hz square wave and synchronizes with it.
//
// The SQW pin is sampled in a bounded loop until the deadline, looking
// for two logic-level transitions. A single level read cannot tell a
// live signal from a pin stuck at either rail, so one transition alone
// is not accepted either; the falling half of a full cycle is the anchor.
// On a falling edge the current tick and RTC time are committed as the
// reference, the edge interrupt is attached, and the clock enters
// interrupt mode.
//
// If the deadline expires first the clock falls back to polling mode:
// still operational, but with precision bounded by how often Update is
// called. The two outcomes are reported independently: precise tells the
// caller which mode was entered, err is non-nil only when the RTC itself
// cannot be driven (device absent), in which case no mode is entered.
func (c *PrecisionClock) Initialize(timeoutMillis uint32) (precise bool, err error) {
	if timeoutMillis == 0 {
		timeoutMillis = DefaultSyncTimeout
	}

	gpio := MustGPIO()
	rtc := MustRTC()

	if err := gpio.ConfigureInputPullUp(c.sqwPin); err != nil {
		return false, err
	}
	if err := rtc.EnableSquareWave1Hz(); err != nil {
		return false, err
	}

	debugPrint("[clock] waiting for SQW sync...")

	start := Millis()
	transitions := 0
	lastLevel := gpio.ReadPin(c.sqwPin)

	for Millis()-start < timeoutMillis && transitions < 2 {
		level := gpio.ReadPin(c.sqwPin)
		if level != lastLevel {
			transitions++

			// Sync on the falling edge: it marks a second boundary.
			if lastLevel && !level {
				tick := Millis()
				now, err := rtc.ReadTime()
				if err != nil {
					return false, err
				}

				activeClock = c
				if err := gpio.RegisterFallingEdge(c.sqwPin, onSqwEdge); err != nil {
					activeClock = nil
					return false, err
				}

				c.ref = clockReference{syncTick: tick, baseTime: now}
				c.mode = SyncInterrupt

				debugPrint("[clock] SQW sync OK")
				return true, nil
			}
			lastLevel = level
		}
		sleepMicros(edgeSampleMicros)
	}

	// No usable edge within the window (stuck-high, stuck-low, or
	// disconnected pin). Anchor to an arbitrary point in the current
	// second and track rollovers by polling.
	now, err := rtc.ReadTime()
	if err != nil {
		return false, err
	}
	c.ref = clockReference{syncTick: Millis(), baseTime: now}
	c.lastSecond = now.Second()
	c.mode = SyncPolling

	debugPrint("[clock] SQW not detected - using polling")
	return false, nil
}

// Update refreshes the clock reference. Call it every main-loop
// iteration; it never blocks beyond a single RTC read.
//
// Interrupt mode: if an edge is pending, the captured tick is drained
// under a masked section of a few instructions, then the RTC is read in
// the main context and the pair committed. Polling mode: the RTC is read
// every call and a new reference committed whenever the seconds field
// rolls over.
func (c *PrecisionClock) Update() {
	switch c.mode {
	case SyncInterrupt:
		if !c.edgePending {
			return
		}
		state := disableInterrupts()
		tick := c.edgeTick
		c.edgePending = false
		restoreInterrupts(state)

		now, err := MustRTC().ReadTime()
		if err != nil {
			// Keep the previous reference; the next edge retries.
			return
		}
		c.ref = clockReference{syncTick: tick, baseTime: now}

	case SyncPolling:
		now, err := MustRTC().ReadTime()
		if err != nil {
			return
		}
		if now.Second() != c.lastSecond {
			c.lastSecond = now.Second()
			c.ref = clockReference{syncTick: Millis(), baseTime: now}
		}
	}
}

// materialize splits the span since the anchor into whole seconds and a
// millisecond remainder. Unsigned subtraction keeps the span correct
// across tick counter wraparound.
func (c *PrecisionClock) materialize() (wall time.Time, ms uint32) {
	elapsed := Millis() - c.ref.syncTick
	ms = elapsed % 1000
	wall = c.ref.baseTime.Add(time.Duration(elapsed/1000) * time.Second)
	return wall, ms
}

// UnixMillis returns the current time as Unix epoch milliseconds.
// Before any sync has committed it falls back to a raw RTC read with the
// milliseconds forced to zero.
func (c *PrecisionClock) UnixMillis() uint64 {
	if c.mode == SyncNone {
		now, err := MustRTC().ReadTime()
		if err != nil {
			return 0
		}
		return uint64(now.Unix()) * 1000
	}

	wall, ms := c.materialize()
	return uint64(wall.Unix())*1000 + uint64(ms)
}

// Timestamp writes "YYYY-MM-DD HH:MM:SS.mmm" into buf without
// allocating, truncating if buf is shorter than TimestampLen bytes.
// It returns the number of bytes written.
//
// This is a pure read of the current reference and tick counter: no
// hardware I/O once initialized, safe to call at arbitrary frequency.
func (c *PrecisionClock) Timestamp(buf []byte) int {
	if c.mode == SyncNone {
		now, err := MustRTC().ReadTime()
		if err != nil {
			return 0
		}
		return formatTimestamp(buf, now, 0)
	}

	wall, ms := c.materialize()
	return formatTimestamp(buf, wall, ms)
}

// TimestampString is a convenience wrapper around Timestamp for callers
// that are not allocation-sensitive.
func (c *PrecisionClock) TimestampString() string {
	var buf [TimestampLen]byte
	n := c.Timestamp(buf[:])
	return string(buf[:n])
}

// UsingInterruptMode reports whether the clock is anchored by SQW edges.
func (c *PrecisionClock) UsingInterruptMode() bool {
	return c.mode == SyncInterrupt
}

// Initialized reports whether Initialize has committed a reference.
func (c *PrecisionClock) Initialized() bool {
	return c.mode != SyncNone
}

// Mode returns the active synchronization mode.
func (c *PrecisionClock) Mode() SyncMode {
	return c.mode
}
