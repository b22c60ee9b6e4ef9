// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ms5611

import (
	"fmt"

	"periph.io/x/conn/v3/i2c"
)

// calibration holds the factory constants from the sensor's PROM. The
// field comments give the coefficient names used in the datasheet.
type calibration struct {
	pressureSensitivity          uint16 // C1, SENS_T1
	pressureOffset               uint16 // C2, OFF_T1
	tempCoeffPressureSensitivity uint16 // C3, TCS
	tempCoeffPressureOffset      uint16 // C4, TCO
	referenceTemperature         uint16 // C5, T_REF
	tempCoeffTemperature         uint16 // C6, TEMPSENS
}

// readCalibration reads the eight 16 bit PROM words and validates them
// against the CRC nibble stored in word 7. Word 0 is reserved for the
// manufacturer and words 1-6 are the calibration coefficients. A checksum
// mismatch means the words cannot be trusted, either because the bus
// glitched during the reads or because the wrong device answered.
func readCalibration(d *i2c.Dev) (*calibration, error) {
	var words [8]uint16
	buf := make([]byte, 2)
	for i := range words {
		if err := d.Tx([]byte{cmdPROMRead + byte(2*i)}, buf); err != nil {
			return nil, fmt.Errorf("ms5611: reading PROM word %d: %w", i, err)
		}
		words[i] = uint16(buf[0])<<8 | uint16(buf[1])
	}
	stored := uint8(words[7] & 0xF)
	if computed := crc4(words); computed != stored {
		return nil, &ChecksumError{Stored: stored, Computed: computed}
	}
	return &calibration{
		pressureSensitivity:          words[1],
		pressureOffset:               words[2],
		tempCoeffPressureSensitivity: words[3],
		tempCoeffPressureOffset:      words[4],
		referenceTemperature:         words[5],
		tempCoeffTemperature:         words[6],
	}, nil
}

// crc4 implements the PROM checksum scheme from application note AN520: a
// 16 bit remainder over polynomial 0x3000, fed the big-endian bytes of all
// eight words with the byte holding the checksum replaced by zero. The
// checksum is the remainder's top nibble.
func crc4(words [8]uint16) uint8 {
	var rem uint16
	for i, w := range words {
		if i == 7 {
			w &= 0xFF00
		}
		for _, b := range []byte{byte(w >> 8), byte(w)} {
			rem ^= uint16(b)
			for bit := 0; bit < 8; bit++ {
				if rem&0x8000 != 0 {
					rem = rem<<1 ^ 0x3000
				} else {
					rem <<= 1
				}
			}
		}
	}
	return uint8(rem >> 12)
}

// compensate converts a raw pressure and temperature ADC pair into
// temperature in hundredths of a degree Celsius and pressure in hundredths
// of a millibar, applying the datasheet's first and second order
// temperature compensation. Intermediates are kept in int64 to avoid
// overflow and all shifts are arithmetic; the variable names follow the
// datasheet.
func (c *calibration) compensate(d1, d2 uint32) (temp, pressure int32) {
	// Difference between the raw temperature and the scaled reference.
	dT := int64(d2) - int64(c.referenceTemperature)<<8
	t := 2000 + (dT*int64(c.tempCoeffTemperature))>>23

	off := int64(c.pressureOffset)<<16 + (dT*int64(c.tempCoeffPressureOffset))>>7
	sens := int64(c.pressureSensitivity)<<15 + (dT*int64(c.tempCoeffPressureSensitivity))>>8

	// Second order compensation below 20.00°C, with an additional
	// correction below -15.00°C. Both branches test the uncorrected
	// temperature.
	var t2, off2, sens2 int64
	if t < 2000 {
		t2 = (dT * dT) >> 31
		off2 = (5 * (t - 2000) * (t - 2000)) >> 1
		sens2 = off2 >> 1
	}
	if t < -1500 {
		off2 += 7 * (t + 1500) * (t + 1500)
		sens2 += (11 * (t + 1500) * (t + 1500)) >> 1
	}
	t -= t2
	off -= off2
	sens -= sens2

	p := ((int64(d1)*sens)>>21 - off) >> 15
	return int32(t), int32(p)
}
