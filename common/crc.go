// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package common contains functions used across multiple packages. For
// example, the CRC8 calculation and word framing used by Sensirion sensors.
package common

import "errors"

// ErrCRC is returned by Words when a word's CRC byte doesn't match.
var ErrCRC = errors.New("crc mismatch")

// ErrFrame is returned by Words when the buffer isn't a whole number of
// [msb, lsb, crc] triplets.
var ErrFrame = errors.New("response is not a multiple of 3 bytes")

const crcPolynomial byte = 0x31 // x^8 + x^5 + x^4 + 1

// CRC8 calculates the 8-bit CRC of the byte slice parameter and returns the
// calculated value. CRC bytes are used in sensors from TI and Sensirion.
func CRC8(bytes []byte) byte {
	var crc byte = 0xff
	for _, val := range bytes {
		crc ^= val
		for i := 0; i < 8; i++ {
			if (crc & 0x80) == 0 {
				crc <<= 1
			} else {
				crc = (crc << 1) ^ crcPolynomial
			}
		}
	}
	return crc
}

// Words decodes a Sensirion response, a sequence of big-endian 16 bit words
// each followed by its CRC8. On a CRC mismatch it returns the index of the
// offending word along with ErrCRC.
func Words(r []byte) ([]uint16, int, error) {
	if len(r)%3 != 0 {
		return nil, 0, ErrFrame
	}
	words := make([]uint16, len(r)/3)
	for ix := range words {
		b := r[ix*3 : ix*3+3]
		if CRC8(b[:2]) != b[2] {
			return nil, ix, ErrCRC
		}
		words[ix] = uint16(b[0])<<8 | uint16(b[1])
	}
	return words, 0, nil
}

// AppendWord appends w in big-endian order followed by its CRC8.
func AppendWord(dst []byte, w uint16) []byte {
	b := [2]byte{byte(w >> 8), byte(w)}
	return append(dst, b[0], b[1], CRC8(b[:]))
}
