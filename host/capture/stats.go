package capture

import (
	"fmt"
	"math"
	"time"

	"chronolog/record"
)

// Channel accumulates running statistics for one measured quantity.
type Channel struct {
	Count int
	Min   float64
	Max   float64
	sum   float64
	sumSq float64
}

// Add folds one sample into the channel.
func (c *Channel) Add(v float64) {
	if c.Count == 0 {
		c.Min = v
		c.Max = v
	} else {
		c.Min = math.Min(c.Min, v)
		c.Max = math.Max(c.Max, v)
	}
	c.sum += v
	c.sumSq += v * v
	c.Count++
}

// Mean returns the arithmetic mean, or 0 with no samples.
func (c *Channel) Mean() float64 {
	if c.Count == 0 {
		return 0
	}
	return c.sum / float64(c.Count)
}

// StdDev returns the sample standard deviation, or 0 with fewer than
// two samples.
func (c *Channel) StdDev() float64 {
	if c.Count < 2 {
		return 0
	}
	mean := c.sum / float64(c.Count)
	variance := (c.sumSq - float64(c.Count)*mean*mean) / float64(c.Count-1)
	if variance < 0 {
		// Rounding can push a constant channel a hair below zero.
		variance = 0
	}
	return math.Sqrt(variance)
}

// Stats accumulates per-channel statistics plus the integrated energy
// and charge over a capture session.
type Stats struct {
	Voltage Channel
	Current Channel
	Power   Channel

	started  bool
	start    time.Time
	prevTime time.Time
	prevP    float64
	prevI    float64

	energyWs float64 // watt-seconds
	chargeAs float64 // amp-seconds
}

// Add folds one measurement into all channels. Energy and charge are
// integrated trapezoidally between consecutive timestamps; negative
// interval averages are clamped to zero so the small negative readings
// an idle sensor reports do not drain the totals.
func (s *Stats) Add(m record.Measurement) {
	s.Voltage.Add(m.Voltage)
	s.Current.Add(m.Current)
	s.Power.Add(m.Power)

	if s.started {
		dt := m.Timestamp.Sub(s.prevTime).Seconds()
		if dt > 0 {
			avgP := (m.Power + s.prevP) / 2
			if avgP < 0 {
				avgP = 0
			}
			avgI := (m.Current + s.prevI) / 2
			if avgI < 0 {
				avgI = 0
			}
			s.energyWs += avgP * dt
			s.chargeAs += avgI * dt
		}
	} else {
		s.started = true
		s.start = m.Timestamp
	}
	s.prevTime = m.Timestamp
	s.prevP = m.Power
	s.prevI = m.Current
}

// Count returns the number of measurements accumulated.
func (s *Stats) Count() int {
	return s.Power.Count
}

// Duration returns the span between the first and last timestamps.
func (s *Stats) Duration() time.Duration {
	if !s.started {
		return 0
	}
	return s.prevTime.Sub(s.start)
}

// EnergyWh returns the integrated energy in watt-hours.
func (s *Stats) EnergyWh() float64 {
	return s.energyWs / 3600
}

// ChargeAh returns the integrated charge in amp-hours.
func (s *Stats) ChargeAh() float64 {
	return s.chargeAs / 3600
}

// Summary renders a human-readable multi-line summary.
func (s *Stats) Summary() string {
	if s.Count() == 0 {
		return "no measurements captured\n"
	}
	return fmt.Sprintf(
		"samples: %d  duration: %.3f s\n"+
			"voltage: min %.4f V  mean %.4f V  max %.4f V  std %.4f V\n"+
			"current: min %.4f A  mean %.4f A  max %.4f A  std %.4f A\n"+
			"power:   min %.4f W  mean %.4f W  max %.4f W  std %.4f W\n"+
			"energy:  %.6f Wh  charge: %.6f Ah\n",
		s.Count(), s.Duration().Seconds(),
		s.Voltage.Min, s.Voltage.Mean(), s.Voltage.Max, s.Voltage.StdDev(),
		s.Current.Min, s.Current.Mean(), s.Current.Max, s.Current.StdDev(),
		s.Power.Min, s.Power.Mean(), s.Power.Max, s.Power.StdDev(),
		s.EnergyWh(), s.ChargeAh(),
	)
}
