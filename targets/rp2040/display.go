//go:build rp2040 || rp2350

package main

import (
	"image/color"
	"strconv"

	"tinygo.org/x/drivers"
	"tinygo.org/x/drivers/ssd1306"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"

	"chronolog/core"
)

// OLEDStatus implements core.StatusDisplay on a 128x32 SSD1306.
type OLEDStatus struct {
	dev ssd1306.Device
}

var oledWhite = color.RGBA{255, 255, 255, 255}

// NewOLEDStatus configures the SSD1306 at the usual 0x3C address.
func NewOLEDStatus(bus drivers.I2C) *OLEDStatus {
	dev := ssd1306.NewI2C(bus)
	dev.Configure(ssd1306.Config{
		Address: 0x3C,
		Width:   128,
		Height:  32,
	})
	dev.ClearDisplay()
	return &OLEDStatus{dev: dev}
}

func (o *OLEDStatus) ShowMessage(line1, line2 string) {
	o.dev.ClearBuffer()
	tinyfont.WriteLine(&o.dev, &proggy.TinySZ8pt7b, 0, 12, line1, oledWhite)
	if line2 != "" {
		tinyfont.WriteLine(&o.dev, &proggy.TinySZ8pt7b, 0, 28, line2, oledWhite)
	}
	o.dev.Display()
}

func (o *OLEDStatus) ShowPower(p core.PowerReading) {
	// One decimal is plenty for a glanceable readout.
	watts := strconv.FormatFloat(float64(p.Microwatts)/1e6, 'f', 1, 64)
	volts := strconv.FormatFloat(float64(p.Microvolts)/1e6, 'f', 2, 64)
	o.ShowMessage(watts+" W", volts+" V")
}

var _ core.StatusDisplay = (*OLEDStatus)(nil)
