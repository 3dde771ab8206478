// Package record defines the measurement line format shared by the
// firmware and the host tools: one CSV line per sample,
//
//	Timestamp,Voltage,Current,Power
//	2025-11-30 12:34:56.789,12.3450,1.2340,15.2340
//
// with the timestamp in "YYYY-MM-DD HH:MM:SS.mmm" and the electrical
// values as volts, amps, and watts with four decimal places. The
// firmware side appends lines without allocating; the host side parses
// them back, tolerating the legacy space-separated form without a
// timestamp.
package record

import "time"

// Measurement is one timestamped power sample as seen by the host.
type Measurement struct {
	Timestamp time.Time
	Voltage   float64 // volts
	Current   float64 // amps
	Power     float64 // watts
}

// MinValidYear is the earliest timestamp year accepted as "RTC was set".
// Anything earlier means the battery died and the RTC rebooted into its
// default epoch; such timestamps are replaced with host time on parse.
const MinValidYear = 2020

// Header returns the CSV header line, without a trailing newline.
func Header() string {
	return "Timestamp,Voltage,Current,Power"
}
