// Package capture consumes the measurement stream a logger emits over
// its serial port: it parses lines, keeps running statistics, and can
// mirror the stream into a CSV file.
package capture

import (
	"bufio"
	"io"
	"strings"

	"chronolog/record"
)

// Reader parses measurement lines from a stream and hands each parsed
// measurement to a callback.
type Reader struct {
	// OnMeasurement is invoked for every successfully parsed line.
	OnMeasurement func(record.Measurement)

	src       io.Reader
	malformed int
	parsed    int
}

// NewReader returns a Reader consuming from src.
func NewReader(src io.Reader) *Reader {
	return &Reader{src: src}
}

// Run reads until EOF or a read error. Malformed lines and the header
// line are counted and skipped; the firmware can reboot mid-line, so a
// torn line is expected, not fatal.
func (r *Reader) Run() error {
	scanner := bufio.NewScanner(r.src)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line == record.Header() {
			continue
		}

		m, err := record.ParseLine(line)
		if err != nil {
			r.malformed++
			continue
		}

		r.parsed++
		if r.OnMeasurement != nil {
			r.OnMeasurement(m)
		}
	}
	return scanner.Err()
}

// Parsed returns the number of measurements successfully parsed.
func (r *Reader) Parsed() int {
	return r.parsed
}

// Malformed returns the number of lines that matched no known format.
func (r *Reader) Malformed() int {
	return r.malformed
}
