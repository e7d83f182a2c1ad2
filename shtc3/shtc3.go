// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package shtc3 controls a Sensirion SHTC3 temperature and humidity sensor
// over I²C.
//
// The device has a single fixed address, 0x70. Every command is a 16 bit
// word, and every data word the device returns is followed by a CRC8.
// Measurements are taken in polling mode, without clock stretching: the
// driver writes the measurement command, sleeps for the conversion time and
// then reads the result.
//
// # Datasheet
//
// https://sensirion.com/media/documents/643F9C8E/63A5A436/Datasheet_SHTC3.pdf
//
// # Accuracy
//
//	Temperature: typical ±0.2 °C, range -40…+125 °C
//	Humidity:    typical ±2 % RH, range 0…100 % RH
//
// Both have a resolution of 0.01. Low power mode trades repeatability for a
// much shorter conversion time.
//
// # Sleep
//
// The sensor powers up awake. Sleep and WakeUp toggle its low power state; the
// driver doesn't track that state, so calling Measure on a sleeping sensor
// fails with a TransportError. Set Opts.AutoSleep to have Measure, ID and
// Reset wake the sensor first and put it back to sleep afterwards.
package shtc3

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/GermanBionicSystems/sensirion/common"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
)

// DefaultAddress is the only I²C address the SHTC3 answers on.
const DefaultAddress i2c.Addr = 0x70

// PowerMode selects the measurement command.
type PowerMode uint8

const (
	// Normal takes measurements at full repeatability.
	Normal PowerMode = iota
	// LowPower takes faster, noisier measurements.
	LowPower
)

func (p PowerMode) String() string {
	switch p {
	case Normal:
		return "normal"
	case LowPower:
		return "low-power"
	default:
		return fmt.Sprintf("PowerMode(%d)", uint8(p))
	}
}

type command uint16

const (
	cmdSleep         command = 0xb098
	cmdWakeUp        command = 0x3517
	cmdSoftReset     command = 0x805d
	cmdReadID        command = 0xefc8
	cmdMeasureNormal command = 0x7866 // temperature first, no clock stretching
	cmdMeasureLow    command = 0x609c // temperature first, no clock stretching
)

func (c command) String() string {
	switch c {
	case cmdSleep:
		return "sleep"
	case cmdWakeUp:
		return "wakeup"
	case cmdSoftReset:
		return "soft-reset"
	case cmdReadID:
		return "read-id"
	case cmdMeasureNormal:
		return "measure-normal"
	case cmdMeasureLow:
		return "measure-low-power"
	}
	return fmt.Sprintf("0x%04x", uint16(c))
}

const (
	// Maximum durations from table 5 of the datasheet.
	wakeUpDuration        = 240 * time.Microsecond
	softResetDuration     = 240 * time.Microsecond
	measureNormalDuration = 12100 * time.Microsecond
	measureLowDuration    = 800 * time.Microsecond

	measureResponseSize = 6
	idResponseSize      = 3

	// Bits 11 and 5:0 of the ID register identify the part.
	idMask  uint16 = 0x083f
	idValue uint16 = 0x0807

	// T = -45 + 175 * count / 2^16, RH = 100 * count / 2^16
	temperatureOffset float64 = -45.0
	temperatureScalar float64 = 175.0
	humidityScalar    float64 = 100.0
	countDivisor      float64 = 65536.0
)

// Opts holds the configuration options for the device.
type Opts struct {
	// PowerMode selects normal or low power measurements.
	PowerMode PowerMode
	// AutoSleep wakes the sensor before each Measure, ID and Reset and puts it
	// to sleep afterwards. NewI2C leaves the sensor asleep when set.
	AutoSleep bool
}

// DefaultOpts holds the default configuration options for the device.
var DefaultOpts = Opts{PowerMode: Normal}

// Measurement is a single reading. Celsius and PercentRH are always derived
// from the raw codes.
type Measurement struct {
	RawTemperature uint16
	RawHumidity    uint16
	Celsius        float64
	PercentRH      float64
}

// FromRaw converts raw device codes into a Measurement.
func FromRaw(temperature, humidity uint16) Measurement {
	return Measurement{
		RawTemperature: temperature,
		RawHumidity:    humidity,
		Celsius:        countToCelsius(temperature),
		PercentRH:      countToPercentRH(humidity),
	}
}

// Temperature returns the temperature as a physic value.
func (m Measurement) Temperature() physic.Temperature {
	return physic.ZeroCelsius + physic.Temperature(m.Celsius*float64(physic.Celsius))
}

// Humidity returns the relative humidity as a physic value.
func (m Measurement) Humidity() physic.RelativeHumidity {
	return physic.RelativeHumidity(m.PercentRH * float64(physic.PercentRH))
}

// Env returns the measurement as a physic.Env. Pressure is always 0.
func (m Measurement) Env() physic.Env {
	return physic.Env{Temperature: m.Temperature(), Humidity: m.Humidity()}
}

func (m Measurement) String() string {
	return fmt.Sprintf("Temperature: %s Humidity: %s", m.Temperature(), m.Humidity())
}

func countToCelsius(count uint16) float64 {
	return temperatureOffset + temperatureScalar*(float64(count)/countDivisor)
}

func countToPercentRH(count uint16) float64 {
	return humidityScalar * (float64(count) / countDivisor)
}

// Dev represents an SHTC3 sensor.
type Dev struct {
	d    *i2c.Dev
	opts Opts
	mu   sync.Mutex
	stop chan struct{}
	wg   sync.WaitGroup
}

// NewI2C returns an SHTC3 on the bus. It wakes the sensor and reads its ID
// register to confirm the part. If opts is nil, DefaultOpts is used.
//
// The bus is not closed by the driver.
func NewI2C(b i2c.Bus, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	if opts.PowerMode > LowPower {
		return nil, fmt.Errorf("shtc3: invalid power mode %s", opts.PowerMode)
	}
	d := &Dev{d: &i2c.Dev{Bus: b, Addr: uint16(DefaultAddress)}, opts: *opts}
	if err := d.command(cmdWakeUp, wakeUpDuration); err != nil {
		return nil, err
	}
	id, err := d.readID()
	if err != nil {
		return nil, err
	}
	if id&idMask != idValue {
		return nil, &TransportError{Op: "probe", Err: fmt.Errorf("%w: id 0x%04x", ErrUnknownDevice, id)}
	}
	if d.opts.AutoSleep {
		if err := d.command(cmdSleep, 0); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// command writes cmd and waits for delay.
func (d *Dev) command(cmd command, delay time.Duration) error {
	if err := d.d.Tx([]byte{byte(cmd >> 8), byte(cmd)}, nil); err != nil {
		return &TransportError{Op: "write " + cmd.String(), Err: err}
	}
	time.Sleep(delay)
	return nil
}

func (d *Dev) read(cmd command, r []byte) error {
	if err := d.d.Tx(nil, r); err != nil {
		return &TransportError{Op: "read " + cmd.String(), Err: err}
	}
	return nil
}

// words decodes the response to cmd and maps a CRC failure onto a
// ChecksumError naming the word.
func words(cmd command, r []byte, names ...string) ([]uint16, error) {
	w, ix, err := common.Words(r)
	if errors.Is(err, common.ErrCRC) {
		b := r[ix*3 : ix*3+3]
		return nil, &ChecksumError{Word: names[ix], Got: b[2], Want: common.CRC8(b[:2])}
	}
	if err != nil {
		return nil, &TransportError{Op: "read " + cmd.String(), Err: err}
	}
	return w, nil
}

func (d *Dev) readID() (uint16, error) {
	if err := d.command(cmdReadID, 0); err != nil {
		return 0, err
	}
	r := make([]byte, idResponseSize)
	if err := d.read(cmdReadID, r); err != nil {
		return 0, err
	}
	w, err := words(cmdReadID, r, "id")
	if err != nil {
		return 0, err
	}
	return w[0], nil
}

// ID returns the contents of the ID register. With Opts.AutoSleep the sensor
// is woken for the read and put back to sleep.
func (d *Dev) ID() (uint16, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	var id uint16
	err := d.awake(func() (err error) {
		id, err = d.readID()
		return
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Measure triggers a measurement, waits for the conversion and returns the
// result. A CRC mismatch on either word returns a ChecksumError and no
// measurement.
func (d *Dev) Measure() (Measurement, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	var m Measurement
	err := d.awake(func() (err error) {
		m, err = d.measure()
		return
	})
	if err != nil {
		return Measurement{}, err
	}
	return m, nil
}

// awake runs op. With Opts.AutoSleep it wakes the sensor first and puts it
// back to sleep afterwards, even when op fails. d.mu must be held.
func (d *Dev) awake(op func() error) error {
	if !d.opts.AutoSleep {
		return op()
	}
	if err := d.command(cmdWakeUp, wakeUpDuration); err != nil {
		return err
	}
	err := op()
	if errSleep := d.command(cmdSleep, 0); errSleep != nil {
		return errors.Join(err, errSleep)
	}
	return err
}

func (d *Dev) measure() (Measurement, error) {
	cmd, delay := cmdMeasureNormal, measureNormalDuration
	if d.opts.PowerMode == LowPower {
		cmd, delay = cmdMeasureLow, measureLowDuration
	}
	if err := d.command(cmd, delay); err != nil {
		return Measurement{}, err
	}
	r := make([]byte, measureResponseSize)
	if err := d.read(cmd, r); err != nil {
		return Measurement{}, err
	}
	w, err := words(cmd, r, "temperature", "humidity")
	if err != nil {
		return Measurement{}, err
	}
	return FromRaw(w[0], w[1]), nil
}

// Sleep puts the sensor into its low power state. Only WakeUp is accepted
// while asleep.
func (d *Dev) Sleep() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.command(cmdSleep, 0)
}

// WakeUp brings the sensor out of its low power state.
func (d *Dev) WakeUp() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.command(cmdWakeUp, wakeUpDuration)
}

// Reset issues a soft reset. With Opts.AutoSleep the sensor is woken for the
// reset and put back to sleep.
func (d *Dev) Reset() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.awake(func() error {
		return d.command(cmdSoftReset, softResetDuration)
	})
}

// SetPowerMode changes the command used by subsequent measurements.
func (d *Dev) SetPowerMode(mode PowerMode) error {
	if mode > LowPower {
		return fmt.Errorf("shtc3: invalid power mode %s", mode)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.opts.PowerMode = mode
	return nil
}

// Sense implements physic.SenseEnv. Pressure is always 0.
func (d *Dev) Sense(e *physic.Env) error {
	e.Pressure = 0
	m, err := d.Measure()
	if err != nil {
		return err
	}
	e.Temperature = m.Temperature()
	e.Humidity = m.Humidity()
	return nil
}

// SenseContinuous implements physic.SenseEnv. Readings that fail are
// dropped. Call Halt to stop; the channel is closed once the reader exits.
func (d *Dev) SenseContinuous(interval time.Duration) (<-chan physic.Env, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stop != nil {
		return nil, errors.New("shtc3: SenseContinuous already running")
	}
	if interval < d.sampleDuration() {
		return nil, errors.New("shtc3: sample interval is < device sample rate")
	}
	stop := make(chan struct{})
	d.stop = stop
	ch := make(chan physic.Env, 16)
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer close(ch)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				var e physic.Env
				if err := d.Sense(&e); err != nil {
					continue
				}
				select {
				case ch <- e:
				case <-stop:
					return
				}
			}
		}
	}()
	return ch, nil
}

func (d *Dev) sampleDuration() time.Duration {
	t := measureNormalDuration
	if d.opts.PowerMode == LowPower {
		t = measureLowDuration
	}
	if d.opts.AutoSleep {
		t += wakeUpDuration
	}
	return t
}

// Precision implements physic.SenseEnv.
func (d *Dev) Precision(e *physic.Env) {
	e.Temperature = physic.Kelvin / 100
	e.Humidity = physic.PercentRH / 100
	e.Pressure = 0
}

// Halt stops a running SenseContinuous and waits for it to exit. It doesn't
// put the sensor to sleep. Implements conn.Resource.
func (d *Dev) Halt() error {
	d.mu.Lock()
	stop := d.stop
	d.stop = nil
	d.mu.Unlock()
	if stop == nil {
		return nil
	}
	close(stop)
	d.wg.Wait()
	return nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("shtc3: %s", d.d.String())
}

var _ conn.Resource = &Dev{}
var _ physic.SenseEnv = &Dev{}
