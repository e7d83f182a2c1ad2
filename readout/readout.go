// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package readout renders an SHTC3 measurement as an image: the temperature
// and humidity as text, above a bar showing the relative humidity.
//
// The image can be sent to any display.Drawer, such as an ssd1306 OLED or an
// e-paper panel, or saved as a PNG.
package readout

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"sync"

	"github.com/GermanBionicSystems/sensirion/shtc3"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/goregular"
	"periph.io/x/conn/v3/display"
)

// Opts represents the options for rendering.
type Opts struct {
	Width  int
	Height int
	// FontSize in points at 72 DPI. 0 sizes the text from Height.
	FontSize   float64
	Foreground color.Color
	Background color.Color
}

// DefaultOpts matches a 128x64 monochrome OLED.
var DefaultOpts = Opts{Width: 128, Height: 64, Foreground: color.White, Background: color.Black}

const margin = 4

var regular = sync.OnceValues(func() (*truetype.Font, error) {
	return truetype.Parse(goregular.TTF)
})

// Render draws m into a new image of opts.Width x opts.Height. If opts is nil,
// DefaultOpts is used.
func Render(m shtc3.Measurement, opts *Opts) (image.Image, error) {
	dc, err := render(m, opts)
	if err != nil {
		return nil, err
	}
	return dc.Image(), nil
}

// WritePNG renders m and encodes it to w as a PNG.
func WritePNG(w io.Writer, m shtc3.Measurement, opts *Opts) error {
	dc, err := render(m, opts)
	if err != nil {
		return err
	}
	return dc.EncodePNG(w)
}

// Draw renders m at the size of the display and draws it. opts.Width and
// opts.Height are ignored.
func Draw(dst display.Drawer, m shtc3.Measurement, opts *Opts) error {
	o := DefaultOpts
	if opts != nil {
		o = *opts
	}
	r := dst.Bounds()
	o.Width, o.Height = r.Dx(), r.Dy()
	img, err := Render(m, &o)
	if err != nil {
		return err
	}
	if err := dst.Draw(r, img, image.Point{}); err != nil {
		return fmt.Errorf("readout: drawing to %s: %w", dst, err)
	}
	return nil
}

func render(m shtc3.Measurement, opts *Opts) (*gg.Context, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	w, h := opts.Width, opts.Height
	if w <= 2*margin || h <= 2*margin {
		return nil, errors.New("readout: image too small")
	}
	fg, bg := opts.Foreground, opts.Background
	if fg == nil {
		fg = color.White
	}
	if bg == nil {
		bg = color.Black
	}
	size := opts.FontSize
	if size <= 0 {
		size = float64(h) / 4
	}
	f, err := regular()
	if err != nil {
		return nil, fmt.Errorf("readout: %w", err)
	}

	dc := gg.NewContext(w, h)
	dc.SetColor(bg)
	dc.Clear()
	dc.SetColor(fg)
	dc.SetFontFace(truetype.NewFace(f, &truetype.Options{Size: size}))
	dc.DrawStringAnchored(fmt.Sprintf("%.1f°C", m.Celsius), float64(w)/2, float64(h)*0.3, 0.5, 0.5)
	dc.DrawStringAnchored(fmt.Sprintf("%.1f%%rH", m.PercentRH), float64(w)/2, float64(h)*0.62, 0.5, 0.5)

	// Humidity bar along the bottom edge.
	barH := float64(h) / 8
	barW := float64(w - 2*margin)
	y := float64(h-margin) - barH
	dc.SetLineWidth(1)
	dc.DrawRectangle(margin+0.5, y+0.5, barW-1, barH-1)
	dc.Stroke()
	fill := barW * clamp(m.PercentRH/100)
	dc.DrawRectangle(margin, y, fill, barH)
	dc.Fill()
	return dc, nil
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
