// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package shtc3_test

import (
	"fmt"
	"log"
	"time"

	"github.com/GermanBionicSystems/sensirion/shtc3"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

func Example() {
	// Make sure periph is initialized.
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}

	// Use i2creg I²C bus registry to find the first available I²C bus.
	b, err := i2creg.Open("")
	if err != nil {
		log.Fatalf("failed to open I²C: %v", err)
	}
	defer b.Close()

	d, err := shtc3.NewI2C(b, nil)
	if err != nil {
		log.Fatalf("failed to initialize SHTC3: %v", err)
	}

	for i := 0; i < 10; i++ {
		m, err := d.Measure()
		if err != nil {
			log.Println(err)
		} else {
			fmt.Printf("%.1f °C %.1f %%rH\n", m.Celsius, m.PercentRH)
		}
		time.Sleep(500 * time.Millisecond)
	}
}

// Example_lowPower cycles the sensor through sleep between readings.
func Example_lowPower() {
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}
	b, err := i2creg.Open("")
	if err != nil {
		log.Fatal(err)
	}
	defer b.Close()

	d, err := shtc3.NewI2C(b, &shtc3.Opts{PowerMode: shtc3.LowPower, AutoSleep: true})
	if err != nil {
		log.Fatal(err)
	}
	m, err := d.Measure()
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(m)
}
