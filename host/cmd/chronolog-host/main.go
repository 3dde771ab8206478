package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"chronolog/host/capture"
	"chronolog/host/serial"
	"chronolog/record"
)

var (
	device   = flag.String("device", "/dev/ttyACM0", "Serial device path ('-' reads stdin)")
	baud     = flag.Int("baud", 115200, "Baud rate (ignored for USB CDC)")
	out      = flag.String("out", "", "CSV output file (empty = no file)")
	duration = flag.Duration("duration", 0, "Stop after this long (0 = until EOF/Ctrl-C)")
	verbose  = flag.Bool("verbose", false, "Print each measurement as it arrives")
)

func main() {
	flag.Parse()

	src, err := openSource()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer src.Close()

	var csvOut *capture.Writer
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()

		csvOut, err = capture.NewWriter(f)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer csvOut.Flush()
	}

	var stats capture.Stats
	reader := capture.NewReader(src)
	reader.OnMeasurement = func(m record.Measurement) {
		stats.Add(m)
		if *verbose {
			fmt.Printf("%s  %8.4f V  %8.4f A  %8.4f W\n",
				m.Timestamp.Format("15:04:05.000"), m.Voltage, m.Current, m.Power)
		}
		if csvOut != nil {
			if err := csvOut.Write(m); err != nil {
				fmt.Fprintf(os.Stderr, "Error writing CSV: %v\n", err)
			}
		}
	}

	if *duration > 0 {
		// Closing the source unblocks the read loop.
		time.AfterFunc(*duration, func() { src.Close() })
	}

	if err := reader.Run(); err != nil && *duration == 0 {
		fmt.Fprintf(os.Stderr, "Error reading stream: %v\n", err)
	}

	fmt.Print(stats.Summary())
	if reader.Malformed() > 0 {
		fmt.Printf("malformed lines skipped: %d\n", reader.Malformed())
	}
}

// openSource opens the serial device, or stdin when the device is "-".
func openSource() (io.ReadCloser, error) {
	if *device == "-" {
		return io.NopCloser(os.Stdin), nil
	}

	cfg := serial.DefaultConfig(*device)
	cfg.Baud = *baud
	return serial.Open(cfg)
}
