package core

// StatusDisplay is a small status screen for humans standing next to the
// logger. Unlike the other HALs it is optional: headless builds simply
// never register one.
type StatusDisplay interface {
	// ShowMessage displays up to two lines of text.
	ShowMessage(line1, line2 string)

	// ShowPower displays the latest power reading.
	ShowPower(p PowerReading)
}

var statusDisplay StatusDisplay

// SetStatusDisplay registers the status screen, if the board has one.
func SetStatusDisplay(d StatusDisplay) {
	statusDisplay = d
}

// Display returns the registered status screen, or nil when headless.
func Display() StatusDisplay {
	return statusDisplay
}
