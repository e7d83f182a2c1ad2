// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package shtc3

import (
	"errors"
	"fmt"
)

// ErrUnknownDevice is wrapped by the TransportError returned from NewI2C when
// the device at the address answered with an ID that isn't an SHTC3.
var ErrUnknownDevice = errors.New("device is not an SHTC3")

// TransportError is returned when a bus write or read fails, or when a read
// doesn't return the expected number of bytes.
type TransportError struct {
	// Op is the bus operation that failed, e.g. "write measure-normal".
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("shtc3: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ChecksumError is returned when the CRC8 following a data word doesn't match
// the word. The word is discarded.
type ChecksumError struct {
	// Word names the data word: "temperature", "humidity" or "id".
	Word string
	Got  byte
	Want byte
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("shtc3: %s crc error: received 0x%02x, calculated 0x%02x", e.Word, e.Got, e.Want)
}
