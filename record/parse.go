package record

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// Timestamp layouts accepted from the firmware, most specific first.
var timestampLayouts = []string{
	"2006-01-02 15:04:05.000",
	"2006-01-02 15:04:05",
}

// ErrBadLine is returned when a line matches no supported format.
var ErrBadLine = errors.New("record: unrecognized line")

// ParseLine parses one measurement line in either supported form:
//
//	CSV with timestamp:  "2025-11-30 12:34:56.789,12.345,1.234,15.234"
//	space-separated:     "12.345 1.234 15.234"
//
// The space-separated legacy form carries no timestamp; host receive
// time is used instead, as it is for CSV timestamps whose year predates
// MinValidYear (RTC never set).
func ParseLine(line string) (Measurement, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Measurement{}, ErrBadLine
	}

	if strings.Contains(line, ",") {
		return parseCSV(line)
	}
	return parseSpaceSeparated(line)
}

func parseCSV(line string) (Measurement, error) {
	parts := strings.Split(line, ",")
	if len(parts) < 4 {
		return Measurement{}, ErrBadLine
	}

	v, errV := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	i, errI := strconv.ParseFloat(strings.TrimSpace(parts[2]), 64)
	p, errP := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
	if errV != nil || errI != nil || errP != nil {
		return Measurement{}, ErrBadLine
	}

	return Measurement{
		Timestamp: parseTimestamp(parts[0]),
		Voltage:   v,
		Current:   i,
		Power:     p,
	}, nil
}

func parseSpaceSeparated(line string) (Measurement, error) {
	parts := strings.Fields(line)
	if len(parts) < 3 {
		return Measurement{}, ErrBadLine
	}

	v, errV := strconv.ParseFloat(parts[0], 64)
	i, errI := strconv.ParseFloat(parts[1], 64)
	p, errP := strconv.ParseFloat(parts[2], 64)
	if errV != nil || errI != nil || errP != nil {
		return Measurement{}, ErrBadLine
	}

	return Measurement{
		Timestamp: time.Now(),
		Voltage:   v,
		Current:   i,
		Power:     p,
	}, nil
}

// parseTimestamp parses a firmware timestamp, substituting host time
// when the string is unparseable or the RTC was obviously never set.
func parseTimestamp(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		t, err := time.ParseInLocation(layout, s, time.Local)
		if err != nil {
			continue
		}
		if t.Year() < MinValidYear {
			return time.Now()
		}
		return t
	}
	return time.Now()
}
