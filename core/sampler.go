package core

import "chronolog/record"

// Sampler reads the power monitor at a fixed cadence and emits one
// measurement line per sample. It is driven from the main loop; Poll
// returns immediately when the next sample is not yet due, so calling
// it every iteration is cheap.
type Sampler struct {
	clock          *PrecisionClock
	intervalMillis uint32
	emit           func(line []byte)

	lastSample uint32
	started    bool
	readErrors uint32

	activityPin    GPIOPin
	hasActivityPin bool
	activityOn     bool

	line []byte // reused between samples
}

// NewSampler returns a sampler emitting a line every intervalMillis
// through emit. The emitted slice is reused; emit must not retain it.
func NewSampler(clock *PrecisionClock, intervalMillis uint32, emit func(line []byte)) *Sampler {
	return &Sampler{
		clock:          clock,
		intervalMillis: intervalMillis,
		emit:           emit,
		line:           make([]byte, 0, 64),
	}
}

// SetActivityPin configures pin as an output toggled after every
// emitted sample, giving the board a sample-rate heartbeat LED.
func (s *Sampler) SetActivityPin(pin GPIOPin) error {
	if err := MustGPIO().ConfigureOutput(pin); err != nil {
		return err
	}
	s.activityPin = pin
	s.hasActivityPin = true
	return nil
}

// Poll takes a sample when one is due. A failed sensor read is counted
// and skipped rather than surfaced: the main loop must keep running and
// the next sample usually succeeds.
func (s *Sampler) Poll() {
	now := Millis()
	if s.started && now-s.lastSample < s.intervalMillis {
		return
	}
	s.started = true
	s.lastSample = now

	p, err := MustSensor().ReadPower()
	if err != nil {
		s.readErrors++
		return
	}

	var ts [TimestampLen]byte
	n := s.clock.Timestamp(ts[:])

	s.line = record.AppendLine(s.line[:0], ts[:n], p.Microvolts, p.Microamps, p.Microwatts)
	s.emit(s.line)

	if s.hasActivityPin {
		s.activityOn = !s.activityOn
		MustGPIO().SetPin(s.activityPin, s.activityOn)
	}

	if d := Display(); d != nil {
		d.ShowPower(p)
	}
}

// ReadErrors returns the number of sensor reads skipped due to errors.
func (s *Sampler) ReadErrors() uint32 {
	return s.readErrors
}
