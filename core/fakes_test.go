package core

import (
	"testing"
	"time"
)

// fakeTicks is a manually advanced millisecond counter.
type fakeTicks struct {
	now uint32
}

func (f *fakeTicks) install() {
	SetTickSource(func() uint32 { return f.now })
}

func (f *fakeTicks) advance(ms uint32) {
	f.now += ms
}

// fakeGPIO scripts successive ReadPin levels for the detection loop and
// captures the registered falling-edge handler. Each ReadPin call can
// advance the fake tick counter to simulate loop latency.
type fakeGPIO struct {
	levels  []bool // successive ReadPin results; the last one repeats
	reads   int
	perRead uint32 // ticks advanced per ReadPin call
	ticks   *fakeTicks

	edgeFn  func()
	edgeErr error

	outputs []GPIOPin
	sets    []bool
}

func (g *fakeGPIO) ConfigureOutput(pin GPIOPin) error {
	g.outputs = append(g.outputs, pin)
	return nil
}

func (g *fakeGPIO) ConfigureInputPullUp(pin GPIOPin) error { return nil }

func (g *fakeGPIO) SetPin(pin GPIOPin, v bool) error {
	g.sets = append(g.sets, v)
	return nil
}

func (g *fakeGPIO) GetPin(pin GPIOPin) (bool, error) {
	return g.ReadPin(pin), nil
}

func (g *fakeGPIO) ReadPin(pin GPIOPin) bool {
	i := g.reads
	if i >= len(g.levels) {
		i = len(g.levels) - 1
	}
	g.reads++
	if g.ticks != nil {
		g.ticks.advance(g.perRead)
	}
	return g.levels[i]
}

func (g *fakeGPIO) RegisterFallingEdge(pin GPIOPin, fn func()) error {
	if g.edgeErr != nil {
		return g.edgeErr
	}
	g.edgeFn = fn
	return nil
}

// fakeRTC scripts successive ReadTime results.
type fakeRTC struct {
	times   []time.Time // successive ReadTime results; the last one repeats
	reads   int
	readErr error
	sqwErr  error
}

func (r *fakeRTC) ReadTime() (time.Time, error) {
	if r.readErr != nil {
		return time.Time{}, r.readErr
	}
	i := r.reads
	if i >= len(r.times) {
		i = len(r.times) - 1
	}
	r.reads++
	return r.times[i], nil
}

func (r *fakeRTC) EnableSquareWave1Hz() error {
	return r.sqwErr
}

// fakeSensor scripts power readings.
type fakeSensor struct {
	reading PowerReading
	err     error
	reads   int
}

func (s *fakeSensor) ReadPower() (PowerReading, error) {
	s.reads++
	if s.err != nil {
		return PowerReading{}, s.err
	}
	return s.reading, nil
}

// fakeDisplay counts what was shown.
type fakeDisplay struct {
	messages int
	powers   int
	last     PowerReading
}

func (d *fakeDisplay) ShowMessage(line1, line2 string) { d.messages++ }

func (d *fakeDisplay) ShowPower(p PowerReading) {
	d.powers++
	d.last = p
}

// installClockTest wires the fakes into the package singletons and
// restores process-wide clock state when the test finishes.
func installClockTest(t *testing.T, ticks *fakeTicks, gpio *fakeGPIO, rtc *fakeRTC) {
	t.Helper()

	ticks.install()
	SetGPIODriver(gpio)
	SetRTCDriver(rtc)
	activeClock = nil

	prevSleep := sleepMicros
	sleepMicros = func(us int) {}
	t.Cleanup(func() {
		sleepMicros = prevSleep
		activeClock = nil
		SetStatusDisplay(nil)
	})
}
