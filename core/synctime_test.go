package core

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestInitializeInterruptSync(t *testing.T) {
	base := time.Date(2025, 3, 15, 12, 0, 10, 0, time.UTC)

	ticks := &fakeTicks{now: 500}
	gpio := &fakeGPIO{levels: []bool{true, true, false}, perRead: 1, ticks: ticks}
	rtc := &fakeRTC{times: []time.Time{base}}
	installClockTest(t, ticks, gpio, rtc)

	c := NewPrecisionClock(3)
	precise, err := c.Initialize(DefaultSyncTimeout)
	if err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if !precise {
		t.Error("expected precise sync, got degraded")
	}
	if !c.Initialized() || !c.UsingInterruptMode() {
		t.Errorf("mode = %v, want interrupt-synced", c.Mode())
	}
	if gpio.edgeFn == nil {
		t.Fatal("falling-edge handler was not registered")
	}

	// The commit instant is an exact second boundary.
	u := c.UnixMillis()
	if u != uint64(base.Unix())*1000 {
		t.Errorf("UnixMillis = %d, want %d", u, base.Unix()*1000)
	}
	if u%1000 != 0 {
		t.Errorf("sub-second offset at commit = %d, want 0", u%1000)
	}

	ticks.advance(250)
	if got := c.UnixMillis(); got != u+250 {
		t.Errorf("after 250ms: UnixMillis = %d, want %d", got, u+250)
	}
}

// Three edges at ticks 1000, 2000, 3005 with the RTC reporting seconds
// 10, 11, 12: each commit must land exactly on the second.
func TestInterruptCommitsHaveZeroOffset(t *testing.T) {
	epoch := func(sec int) time.Time {
		return time.Date(1970, 1, 1, 0, 0, sec, 0, time.UTC)
	}

	ticks := &fakeTicks{now: 0}
	gpio := &fakeGPIO{levels: []bool{true, false}, ticks: ticks}
	rtc := &fakeRTC{times: []time.Time{epoch(9), epoch(10), epoch(11), epoch(12)}}
	installClockTest(t, ticks, gpio, rtc)

	c := NewPrecisionClock(3)
	if _, err := c.Initialize(0); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	edges := []struct {
		tick uint32
		want uint64
	}{
		{1000, 10000},
		{2000, 11000},
		{3005, 12000},
	}
	for _, e := range edges {
		ticks.now = e.tick
		gpio.edgeFn()
		c.Update()
		if got := c.UnixMillis(); got != e.want {
			t.Errorf("edge at tick %d: UnixMillis = %d, want %d", e.tick, got, e.want)
		}
	}
}

func TestLastEdgeWins(t *testing.T) {
	base := time.Date(2025, 3, 15, 12, 0, 10, 0, time.UTC)

	ticks := &fakeTicks{}
	gpio := &fakeGPIO{levels: []bool{true, false}, ticks: ticks}
	rtc := &fakeRTC{times: []time.Time{base, base.Add(2 * time.Second)}}
	installClockTest(t, ticks, gpio, rtc)

	c := NewPrecisionClock(3)
	if _, err := c.Initialize(0); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	// Two edges fire before the main loop drains them.
	ticks.now = 1000
	gpio.edgeFn()
	ticks.now = 2000
	gpio.edgeFn()
	c.Update()

	// The reference must anchor at the second edge's tick.
	want := uint64(base.Add(2*time.Second).Unix()) * 1000
	if got := c.UnixMillis(); got != want {
		t.Errorf("UnixMillis = %d, want %d (anchored at last edge)", got, want)
	}

	// Drained: another Update without an edge must not re-read the RTC.
	reads := rtc.reads
	c.Update()
	if rtc.reads != reads {
		t.Error("Update re-read the RTC without a pending edge")
	}
}

func TestPollingFallback(t *testing.T) {
	base := time.Date(2025, 3, 15, 12, 0, 10, 0, time.UTC)

	ticks := &fakeTicks{}
	// Pin stuck high: every sample reads the same level while the fake
	// counter advances 100ms per read until the window expires.
	gpio := &fakeGPIO{levels: []bool{true}, perRead: 100, ticks: ticks}
	rtc := &fakeRTC{times: []time.Time{base, base, base.Add(time.Second)}}
	installClockTest(t, ticks, gpio, rtc)

	c := NewPrecisionClock(3)
	precise, err := c.Initialize(DefaultSyncTimeout)
	if err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if precise {
		t.Error("expected degraded precision with a stuck pin")
	}
	if !c.Initialized() || c.UsingInterruptMode() {
		t.Errorf("mode = %v, want polling-synced", c.Mode())
	}

	// No rollover yet: the reference must stay put.
	anchor := ticks.now
	c.Update()
	if got := c.UnixMillis(); got != uint64(base.Unix())*1000+uint64(ticks.now-anchor) {
		t.Errorf("UnixMillis before rollover = %d", got)
	}

	// Seconds field changes: a new reference is committed and time
	// advances from the new anchor.
	ticks.advance(400)
	c.Update()
	want := uint64(base.Add(time.Second).Unix()) * 1000
	if got := c.UnixMillis(); got != want {
		t.Errorf("UnixMillis after rollover = %d, want %d", got, want)
	}

	ticks.advance(123)
	if got := c.UnixMillis(); got != want+123 {
		t.Errorf("UnixMillis = %d, want %d", got, want+123)
	}
}

func TestInitializeDeviceAbsent(t *testing.T) {
	ticks := &fakeTicks{}
	gpio := &fakeGPIO{levels: []bool{true}}
	rtc := &fakeRTC{sqwErr: errors.New("i2c: no ack")}
	installClockTest(t, ticks, gpio, rtc)

	c := NewPrecisionClock(3)
	precise, err := c.Initialize(0)
	if err == nil {
		t.Fatal("expected an error with the RTC absent")
	}
	if precise || c.Initialized() {
		t.Error("clock must stay uninitialized when the RTC is absent")
	}
}

func TestPreInitFallsBackToRawRTC(t *testing.T) {
	base := time.Date(2025, 3, 15, 12, 0, 10, 0, time.UTC)

	ticks := &fakeTicks{now: 42}
	installClockTest(t, ticks, &fakeGPIO{levels: []bool{true}}, &fakeRTC{times: []time.Time{base}})

	c := NewPrecisionClock(3)
	if got := c.UnixMillis(); got != uint64(base.Unix())*1000 {
		t.Errorf("pre-init UnixMillis = %d, want %d", got, base.Unix()*1000)
	}
	ts := c.TimestampString()
	if !strings.HasSuffix(ts, ".000") {
		t.Errorf("pre-init timestamp %q must force milliseconds to zero", ts)
	}
}

func TestTimestampBoundaries(t *testing.T) {
	base := time.Date(2025, 3, 15, 23, 59, 59, 0, time.UTC)

	ticks := &fakeTicks{}
	gpio := &fakeGPIO{levels: []bool{true, false}, ticks: ticks}
	rtc := &fakeRTC{times: []time.Time{base}}
	installClockTest(t, ticks, gpio, rtc)

	c := NewPrecisionClock(3)
	if _, err := c.Initialize(0); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	anchor := ticks.now

	cases := []struct {
		elapsed uint32
		want    string
	}{
		{0, "2025-03-15 23:59:59.000"},
		{999, "2025-03-15 23:59:59.999"},
		{1000, "2025-03-16 00:00:00.000"}, // cascades into the next day
		{1001, "2025-03-16 00:00:00.001"},
	}
	for _, tc := range cases {
		ticks.now = anchor + tc.elapsed
		if got := c.TimestampString(); got != tc.want {
			t.Errorf("elapsed %d: got %q, want %q", tc.elapsed, got, tc.want)
		}
	}
}

func TestTimestampIdempotent(t *testing.T) {
	base := time.Date(2025, 3, 15, 12, 0, 10, 0, time.UTC)

	ticks := &fakeTicks{}
	gpio := &fakeGPIO{levels: []bool{true, false}, ticks: ticks}
	installClockTest(t, ticks, gpio, &fakeRTC{times: []time.Time{base}})

	c := NewPrecisionClock(3)
	if _, err := c.Initialize(0); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	ticks.advance(337)

	first := c.TimestampString()
	second := c.TimestampString()
	if first != second {
		t.Errorf("timestamps differ with no tick advance: %q vs %q", first, second)
	}
}

func TestTickWraparound(t *testing.T) {
	base := time.Date(2025, 3, 15, 12, 0, 10, 0, time.UTC)

	ticks := &fakeTicks{}
	gpio := &fakeGPIO{levels: []bool{true, false}, ticks: ticks}
	rtc := &fakeRTC{times: []time.Time{base, base}}
	installClockTest(t, ticks, gpio, rtc)

	c := NewPrecisionClock(3)
	if _, err := c.Initialize(0); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	// Anchor 200 ticks before the counter wraps.
	ticks.now = ^uint32(0) - 199
	gpio.edgeFn()
	c.Update()
	want := uint64(base.Unix()) * 1000

	// 300ms later the counter has wrapped to 100.
	ticks.now = 100
	if got := c.UnixMillis(); got != want+300 {
		t.Errorf("UnixMillis across wraparound = %d, want %d", got, want+300)
	}
}

func TestTimestampTruncation(t *testing.T) {
	base := time.Date(2025, 3, 15, 12, 0, 10, 0, time.UTC)

	ticks := &fakeTicks{}
	gpio := &fakeGPIO{levels: []bool{true, false}, ticks: ticks}
	installClockTest(t, ticks, gpio, &fakeRTC{times: []time.Time{base}})

	c := NewPrecisionClock(3)
	if _, err := c.Initialize(0); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	buf := make([]byte, 10)
	n := c.Timestamp(buf)
	if n != 10 {
		t.Fatalf("Timestamp wrote %d bytes into a 10-byte buffer", n)
	}
	if got := string(buf[:n]); got != "2025-03-15" {
		t.Errorf("truncated timestamp = %q, want %q", got, "2025-03-15")
	}

	full := make([]byte, TimestampLen)
	if n := c.Timestamp(full); n != TimestampLen {
		t.Errorf("full timestamp wrote %d bytes, want %d", n, TimestampLen)
	}
}
