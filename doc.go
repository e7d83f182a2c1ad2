// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package sensirion is a container for the Sensirion SHTC3 driver and the
// packages that display its readings.
//
// See shtc3 for the driver, readout and gauge for rendering measurements, and
// cmd/shtc3 for a command line tool.
package sensirion
