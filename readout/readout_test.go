// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package readout

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/GermanBionicSystems/sensirion/shtc3"
	"periph.io/x/conn/v3/display"
)

// fakeDrawer is a display.Drawer that keeps the last image drawn.
type fakeDrawer struct {
	bounds image.Rectangle
	img    image.Image
	err    error
}

func (f *fakeDrawer) String() string          { return "fake" }
func (f *fakeDrawer) Halt() error             { return nil }
func (f *fakeDrawer) ColorModel() color.Model { return color.GrayModel }
func (f *fakeDrawer) Bounds() image.Rectangle { return f.bounds }
func (f *fakeDrawer) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	f.img = src
	return f.err
}

var _ display.Drawer = &fakeDrawer{}

func sameColor(a, b color.Color) bool {
	r1, g1, b1, a1 := a.RGBA()
	r2, g2, b2, a2 := b.RGBA()
	return r1 == r2 && g1 == g2 && b1 == b2 && a1 == a2
}

func TestRender(t *testing.T) {
	img, err := Render(shtc3.FromRaw(0x6667, 0xffff), nil)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != DefaultOpts.Width || b.Dy() != DefaultOpts.Height {
		t.Fatalf("unexpected bounds %v", b)
	}
	// Inside the humidity bar, near its right end.
	if c := img.At(100, 56); !sameColor(c, color.White) {
		t.Errorf("full humidity bar not filled at (100,56): %v", c)
	}
	if c := img.At(0, 0); !sameColor(c, color.Black) {
		t.Errorf("background not cleared: %v", c)
	}

	img, err = Render(shtc3.FromRaw(0x6667, 0), nil)
	if err != nil {
		t.Fatal(err)
	}
	if c := img.At(100, 56); !sameColor(c, color.Black) {
		t.Errorf("empty humidity bar filled at (100,56): %v", c)
	}
}

func TestRenderTooSmall(t *testing.T) {
	if _, err := Render(shtc3.FromRaw(0, 0), &Opts{Width: 4, Height: 4}); err == nil {
		t.Error("expected an error for a tiny image")
	}
}

func TestWritePNG(t *testing.T) {
	var buf bytes.Buffer
	opts := &Opts{Width: 200, Height: 100, Foreground: color.Black, Background: color.White}
	if err := WritePNG(&buf, shtc3.FromRaw(0x8000, 0x8000), opts); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 200 || b.Dy() != 100 {
		t.Errorf("unexpected bounds %v", b)
	}
}

func TestDraw(t *testing.T) {
	dst := &fakeDrawer{bounds: image.Rect(0, 0, 64, 32)}
	if err := Draw(dst, shtc3.FromRaw(0x6667, 0x5eb9), nil); err != nil {
		t.Fatal(err)
	}
	if dst.img == nil || dst.img.Bounds().Dx() != 64 || dst.img.Bounds().Dy() != 32 {
		t.Errorf("image not sized to the display: %v", dst.img)
	}

	dst.err = errors.New("bus error")
	if err := Draw(dst, shtc3.FromRaw(0x6667, 0x5eb9), nil); !errors.Is(err, dst.err) {
		t.Errorf("expected wrapped display error, got %v", err)
	}
}
