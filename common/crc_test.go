// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package common

import (
	"bytes"
	"errors"
	"testing"
)

func TestCRC8(t *testing.T) {
	var tests = []struct {
		bytes  []byte
		result byte
	}{
		{bytes: []byte{0xbe, 0xef}, result: 0x92},
		{bytes: []byte{0x01, 0xa4}, result: 0x4d},
		{bytes: []byte{0xab, 0xcd}, result: 0x6f},
		{bytes: []byte{0x00, 0x00}, result: 0x81},
		{bytes: []byte{0xff, 0xff}, result: 0xac},
		{bytes: []byte{0x08, 0x87}, result: 0x5b},
	}
	for _, test := range tests {
		res := CRC8(test.bytes)
		if res != test.result {
			t.Errorf("CRC8(%#v)!=0x%x received 0x%x", test.bytes, test.result, res)
		}
	}
}

func TestWords(t *testing.T) {
	words, _, err := Words([]byte{0xbe, 0xef, 0x92, 0x00, 0x00, 0x81})
	if err != nil {
		t.Fatal(err)
	}
	if len(words) != 2 || words[0] != 0xbeef || words[1] != 0 {
		t.Errorf("unexpected words %#v", words)
	}

	_, ix, err := Words([]byte{0xbe, 0xef, 0x92, 0x00, 0x01, 0x81})
	if !errors.Is(err, ErrCRC) {
		t.Errorf("expected ErrCRC, got %v", err)
	}
	if ix != 1 {
		t.Errorf("expected failing word 1, got %d", ix)
	}

	if _, _, err = Words([]byte{0xbe, 0xef}); !errors.Is(err, ErrFrame) {
		t.Errorf("expected ErrFrame, got %v", err)
	}
}

func TestAppendWord(t *testing.T) {
	b := AppendWord(nil, 0xbeef)
	b = AppendWord(b, 0xffff)
	expected := []byte{0xbe, 0xef, 0x92, 0xff, 0xff, 0xac}
	if !bytes.Equal(b, expected) {
		t.Errorf("AppendWord()=%#v expected %#v", b, expected)
	}
}
