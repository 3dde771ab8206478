package core

// tickSource returns free-running milliseconds since boot. The counter
// wraps at the uint32 boundary, so elapsed spans must be computed with
// unsigned subtraction. Targets register the hardware counter; tests
// register a fake.
var tickSource func() uint32

// SetTickSource is called by target-specific code to register the
// millisecond counter backend.
func SetTickSource(fn func() uint32) {
	tickSource = fn
}

// Millis returns the current value of the free-running millisecond
// counter. Safe to call from interrupt context as long as the registered
// backend is.
func Millis() uint32 {
	if tickSource == nil {
		panic("tick source not configured")
	}
	return tickSource()
}

// TicksSince returns the milliseconds elapsed since the given tick
// value. Correct across counter wraparound: a counter that rolled over
// between the two reads still yields a small positive span.
func TicksSince(since uint32) uint32 {
	return Millis() - since
}
