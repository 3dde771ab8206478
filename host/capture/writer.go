package capture

import (
	"bufio"
	"fmt"
	"io"

	"chronolog/record"
)

// Writer mirrors a measurement stream into CSV form, one line per
// measurement, with the standard header up front.
type Writer struct {
	w *bufio.Writer
}

// NewWriter wraps dst and writes the header line.
func NewWriter(dst io.Writer) (*Writer, error) {
	w := bufio.NewWriter(dst)
	if _, err := fmt.Fprintln(w, record.Header()); err != nil {
		return nil, err
	}
	return &Writer{w: w}, nil
}

// Write appends one measurement line.
func (cw *Writer) Write(m record.Measurement) error {
	_, err := fmt.Fprintf(cw.w, "%s,%.4f,%.4f,%.4f\n",
		m.Timestamp.Format("2006-01-02 15:04:05.000"),
		m.Voltage, m.Current, m.Power)
	return err
}

// Flush flushes buffered lines to the underlying writer.
func (cw *Writer) Flush() error {
	return cw.w.Flush()
}
