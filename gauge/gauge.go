// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package gauge shows SHTC3 measurements on a terminal as a single row of
// ANSI colored blocks followed by the values.
//
// The length of the lit part of the strip is the relative humidity. Its color
// moves from blue to red as the temperature goes from Opts.MinCelsius to
// Opts.MaxCelsius.
//
// Dev is also a 1 pixel high display.Drawer, so any image can be sent to it.
package gauge

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"math"

	"github.com/GermanBionicSystems/sensirion/shtc3"
	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"periph.io/x/conn/v3/display"
)

// Opts represents the options available for the gauge.
type Opts struct {
	// Width is the number of cells. Defaults to 40.
	Width   int
	Palette *ansi256.Palette
	// Out defaults to a colorable stdout.
	Out io.Writer
	// MinCelsius and MaxCelsius bound the color ramp. Both zero means 0…40 °C.
	MinCelsius float64
	MaxCelsius float64

	_ struct{}
}

var unlit = color.NRGBA{0x30, 0x30, 0x30, 0xff}

// Dev is a terminal strip gauge.
type Dev struct {
	w        io.Writer
	palette  ansi256.Palette
	min, max float64

	pixels []byte
	label  string
	buf    bytes.Buffer
}

// New returns a Dev that writes to opts.Out.
func New(opts *Opts) *Dev {
	if opts == nil {
		opts = &Opts{}
	}
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	width := opts.Width
	if width <= 0 {
		width = 40
	}
	w := opts.Out
	if w == nil {
		w = colorable.NewColorableStdout()
	}
	lo, hi := opts.MinCelsius, opts.MaxCelsius
	if lo == 0 && hi == 0 {
		hi = 40
	}
	return &Dev{w: w, palette: *p, min: lo, max: hi, pixels: make([]byte, 3*width)}
}

func (d *Dev) String() string {
	return "Gauge"
}

// Halt implements conn.Resource.
//
// It ends the line and resets the terminal attributes.
func (d *Dev) Halt() error {
	_, err := d.w.Write([]byte("\n\033[0m"))
	return err
}

// Show draws the measurement on the strip.
func (d *Dev) Show(m shtc3.Measurement) error {
	cells := len(d.pixels) / 3
	lit := int(math.Round(float64(cells) * m.PercentRH / 100))
	lit = max(0, min(cells, lit))
	c := d.temperatureColor(m.Celsius)
	img := image.NewNRGBA(d.Bounds())
	for x := 0; x < cells; x++ {
		if x < lit {
			img.SetNRGBA(x, 0, c)
		} else {
			img.SetNRGBA(x, 0, unlit)
		}
	}
	d.label = fmt.Sprintf(" %6.2f°C %6.2f%%rH", m.Celsius, m.PercentRH)
	return d.Draw(d.Bounds(), img, image.Point{})
}

// temperatureColor interpolates from blue at min to red at max.
func (d *Dev) temperatureColor(celsius float64) color.NRGBA {
	f := 0.0
	if d.max > d.min {
		f = (celsius - d.min) / (d.max - d.min)
	}
	f = max(0, min(1, f))
	return color.NRGBA{R: uint8(math.Round(255 * f)), B: uint8(math.Round(255 * (1 - f))), A: 0xff}
}

// Write accepts a stream of raw RGB pixels and writes it to the terminal.
func (d *Dev) Write(pixels []byte) (int, error) {
	if len(pixels)%3 != 0 {
		return 0, errors.New("gauge: invalid RGB stream length")
	}
	copy(d.pixels, pixels)
	return d.refresh()
}

// ColorModel implements display.Drawer.
func (d *Dev) ColorModel() color.Model {
	return color.NRGBAModel
}

// Bounds implements display.Drawer.
func (d *Dev) Bounds() image.Rectangle {
	return image.Rect(0, 0, len(d.pixels)/3, 1)
}

// Draw implements display.Drawer. Only the first row of src is used.
func (d *Dev) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	r = r.Intersect(d.Bounds())
	for x := r.Min.X; x < r.Max.X; x++ {
		p := image.Point{X: sp.X + x - r.Min.X, Y: sp.Y}
		if !p.In(src.Bounds()) {
			break
		}
		c := color.NRGBAModel.Convert(src.At(p.X, p.Y)).(color.NRGBA)
		d.pixels[3*x] = c.R
		d.pixels[3*x+1] = c.G
		d.pixels[3*x+2] = c.B
	}
	_, err := d.refresh()
	return err
}

func (d *Dev) refresh() (int, error) {
	d.buf.Reset()
	_, _ = d.buf.WriteString("\r\033[0m")
	for i := 0; i < len(d.pixels)/3; i++ {
		c := color.NRGBA{d.pixels[3*i], d.pixels[3*i+1], d.pixels[3*i+2], 255}
		_, _ = io.WriteString(&d.buf, d.palette.Block(c))
	}
	_, _ = d.buf.WriteString("\033[0m")
	_, _ = d.buf.WriteString(d.label)
	_, err := d.buf.WriteTo(d.w)
	return len(d.pixels), err
}

var _ display.Drawer = &Dev{}
var _ fmt.Stringer = &Dev{}
