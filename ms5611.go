// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ms5611

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
)

const (
	// DefaultAddress is the bus address when the CSB pin is strapped low.
	DefaultAddress uint16 = 0x77
	// SecondaryAddress is the bus address when the CSB pin is strapped high.
	SecondaryAddress uint16 = 0x76
)

// Command bytes. The conversion commands address a window of registers:
// each step up in oversampling adds the OSR's command offset.
const (
	cmdReset     byte = 0x1E
	cmdConvertD1 byte = 0x40 // raw pressure
	cmdConvertD2 byte = 0x50 // raw temperature
	cmdADCRead   byte = 0x00
	cmdPROMRead  byte = 0xA0 // words at +0, +2, ... +14
)

// Opts holds the configuration options for the device.
type Opts struct {
	// OversamplingRatio is the ratio used by Sense and SenseContinuous.
	OversamplingRatio OSR
	// ResetSettle is how long Reset waits for the device to reload its
	// calibration. The default of 50ms is deliberately generous; the
	// hardware needs a few milliseconds but the true lower bound has not
	// been characterized, so treat this as a conservative default rather
	// than a verified minimum. Leave 0 to use the default.
	ResetSettle time.Duration
}

// DefaultOpts holds the default configuration options for the device.
var DefaultOpts = Opts{
	OversamplingRatio: OSR4096,
	ResetSettle:       50 * time.Millisecond,
}

// Dev represents an MS5611 sensor.
type Dev struct {
	d    *i2c.Dev
	opts Opts
	cal  calibration
	mu   sync.Mutex
	stop chan struct{}
	wg   sync.WaitGroup
}

// NewI2C returns an object that communicates over I²C to an MS5611
// barometric pressure sensor. The factory calibration is read from the
// device's PROM and validated; a *ChecksumError is returned if the
// contents fail validation. The Opts can be nil.
func NewI2C(b i2c.Bus, addr uint16, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	o := *opts
	if o.ResetSettle <= 0 {
		o.ResetSettle = DefaultOpts.ResetSettle
	}
	d := &Dev{d: &i2c.Dev{Bus: b, Addr: addr}, opts: o}
	cal, err := readCalibration(d.d)
	if err != nil {
		return nil, err
	}
	d.cal = *cal
	return d, nil
}

// Reset triggers a hardware reset of the device and blocks for
// Opts.ResetSettle while it reloads. The calibration kept in memory stays
// valid since the PROM is read-only.
func (d *Dev) Reset() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.d.Tx([]byte{cmdReset}, nil); err != nil {
		return fmt.Errorf("ms5611: reset: %w", err)
	}
	time.Sleep(d.opts.ResetSettle)
	return nil
}

// Sense implements physic.SenseEnv. It measures at the configured
// oversampling ratio. The humidity field is always 0 since the MS5611 does
// not measure humidity.
func (d *Dev) Sense(e *physic.Env) error {
	return d.SenseWithOSR(d.opts.OversamplingRatio, e)
}

// SenseWithOSR reads a single pressure and temperature sample at the given
// oversampling ratio. The call blocks for two conversions, between 2ms
// (OSR256) and 20ms (OSR4096); offload it to a goroutine if that is too
// long. On error the env is left untouched.
func (d *Dev) SenseWithOSR(osr OSR, e *physic.Env) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.sense(osr, e)
}

// sense performs the two-conversion measurement sequence. The conversion
// command and ADC read pairs are order dependent, so d.mu must be held.
func (d *Dev) sense(osr OSR, e *physic.Env) error {
	d1, err := d.convert(cmdConvertD1, osr)
	if err != nil {
		return err
	}
	d2, err := d.convert(cmdConvertD2, osr)
	if err != nil {
		return err
	}
	temp, pressure := d.cal.compensate(d1, d2)
	e.Temperature = physic.ZeroCelsius + physic.Temperature(temp)*10*physic.MilliCelsius
	// Compensated pressure is in hundredths of a millibar, which is a
	// pascal.
	e.Pressure = physic.Pressure(pressure) * physic.Pascal
	e.Humidity = 0
	return nil
}

// convert triggers a single ADC conversion and reads back the big-endian
// 24 bit result. Reading before the conversion time has elapsed would
// return zeroes, so the OSR's full conversion time is waited out.
func (d *Dev) convert(cmd byte, osr OSR) (uint32, error) {
	if err := d.d.Tx([]byte{cmd + osr.commandOffset()}, nil); err != nil {
		return 0, fmt.Errorf("ms5611: starting conversion: %w", err)
	}
	time.Sleep(osr.conversionTime())
	buf := make([]byte, 3)
	if err := d.d.Tx([]byte{cmdADCRead}, buf); err != nil {
		return 0, fmt.Errorf("ms5611: reading ADC: %w", err)
	}
	return uint32(buf[0])<<16 | uint32(buf[1])<<8 | uint32(buf[2]), nil
}

// SenseContinuous implements physic.SenseEnv. It returns a channel that
// receives a measurement every interval. It is the caller's responsibility
// to call Halt() when done.
func (d *Dev) SenseContinuous(interval time.Duration) (<-chan physic.Env, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stop != nil {
		return nil, errors.New("ms5611: SenseContinuous already running")
	}
	d.stop = make(chan struct{})
	d.wg.Add(1)

	sensing := make(chan physic.Env, 16)
	go func(stop <-chan struct{}) {
		defer d.wg.Done()
		defer close(sensing)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				var e physic.Env
				if err := d.Sense(&e); err == nil && len(sensing) < cap(sensing) {
					sensing <- e
				}
			}
		}
	}(d.stop)
	return sensing, nil
}

// Precision implements physic.SenseEnv. The resolution depends on the
// configured oversampling ratio.
func (d *Dev) Precision(e *physic.Env) {
	e.Temperature = d.opts.OversamplingRatio.temperatureResolution()
	e.Pressure = d.opts.OversamplingRatio.pressureResolution()
	e.Humidity = 0
}

// Halt stops a measurement stream started by SenseContinuous. The sensor
// itself needs no teardown. Implements conn.Resource.
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
	return fmt.Sprintf("ms5611: %s", d.d.String())
}

var _ conn.Resource = &Dev{}
var _ physic.SenseEnv = &Dev{}
