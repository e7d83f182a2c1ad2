// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// shtc3 reads temperature and relative humidity from a Sensirion SHTC3.
//
// Readings are printed one per line, or as a colored strip when stdout is a
// terminal and -gauge is set. -png additionally saves the last reading as an
// image.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/GermanBionicSystems/sensirion/gauge"
	"github.com/GermanBionicSystems/sensirion/readout"
	"github.com/GermanBionicSystems/sensirion/shtc3"
	"github.com/mattn/go-isatty"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

func main() {
	bus := flag.String("bus", "", "Name of the I²C bus")
	n := flag.Int("n", 1, "Number of readings, 0 to read until interrupted")
	interval := flag.Duration("interval", time.Second, "Time between readings")
	lowPower := flag.Bool("lowpower", false, "Use low power measurements")
	autoSleep := flag.Bool("autosleep", false, "Sleep the sensor between readings")
	reset := flag.Bool("reset", false, "Soft reset the sensor before reading")
	pngPath := flag.String("png", "", "Save the last reading as a PNG image")
	useGauge := flag.Bool("gauge", true, "Show a colored strip when stdout is a terminal")
	verbose := flag.Bool("v", false, "Verbose logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if err := mainImpl(*bus, *n, *interval, *lowPower, *autoSleep, *reset, *pngPath, *useGauge); err != nil {
		slog.Error("shtc3 failed", "err", err)
		os.Exit(1)
	}
}

func mainImpl(busName string, n int, interval time.Duration, lowPower, autoSleep, reset bool, pngPath string, useGauge bool) error {
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("host init: %w", err)
	}
	b, err := i2creg.Open(busName)
	if err != nil {
		return fmt.Errorf("failed to open I²C: %w", err)
	}
	defer b.Close()

	opts := shtc3.Opts{AutoSleep: autoSleep}
	if lowPower {
		opts.PowerMode = shtc3.LowPower
	}
	dev, err := shtc3.NewI2C(b, &opts)
	if err != nil {
		return err
	}
	slog.Debug("sensor found", "dev", dev, "mode", opts.PowerMode, "autosleep", autoSleep)

	if reset {
		if err := dev.Reset(); err != nil {
			return err
		}
		slog.Debug("sensor reset")
	}

	var g *gauge.Dev
	if useGauge && isatty.IsTerminal(os.Stdout.Fd()) {
		g = gauge.New(&gauge.Opts{})
		defer g.Halt()
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var last shtc3.Measurement
	for i := 0; n == 0 || i < n; i++ {
		if i != 0 {
			select {
			case <-interrupt:
				return save(pngPath, last, i)
			case <-ticker.C:
			}
		}
		m, err := dev.Measure()
		if err != nil {
			return err
		}
		slog.Debug("measured", "raw_temperature", m.RawTemperature, "raw_humidity", m.RawHumidity)
		if g != nil {
			if err := g.Show(m); err != nil {
				return err
			}
		} else {
			fmt.Printf("%.2f °C %.2f %%rH\n", m.Celsius, m.PercentRH)
		}
		last = m
	}
	return save(pngPath, last, n)
}

func save(path string, m shtc3.Measurement, readings int) error {
	if path == "" || readings == 0 {
		return nil
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := readout.WritePNG(f, m, nil); err != nil {
		_ = f.Close()
		return err
	}
	slog.Debug("saved readout", "path", path)
	return f.Close()
}
