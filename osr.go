// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ms5611

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3/physic"
)

// OSR selects the sensor's oversampling ratio. Higher ratios give finer
// resolution at the cost of a longer conversion time per measurement.
type OSR uint8

const (
	OSR256 OSR = iota
	OSR512
	OSR1024
	OSR2048
	OSR4096
)

// The ADC returns all zeroes when read before the conversion has finished,
// so the waits below are the maximum conversion times from the datasheet,
// rounded up to whole milliseconds. The table order matches the OSR
// constants and is fixed by the hardware.
var conversionTimes = [...]time.Duration{
	1 * time.Millisecond,
	2 * time.Millisecond,
	3 * time.Millisecond,
	5 * time.Millisecond,
	10 * time.Millisecond,
}

// Each step up in resolution moves the conversion command two addresses
// further into the command window.
var commandOffsets = [...]byte{0, 2, 4, 6, 8}

// Output resolution per ratio, from the datasheet. A hundredth of a
// millibar is a pascal.
var pressureResolutions = [...]physic.Pressure{
	6500 * physic.MilliPascal,
	4200 * physic.MilliPascal,
	2700 * physic.MilliPascal,
	1800 * physic.MilliPascal,
	1200 * physic.MilliPascal,
}

var temperatureResolutions = [...]physic.Temperature{
	12 * physic.MilliKelvin,
	8 * physic.MilliKelvin,
	5 * physic.MilliKelvin,
	3 * physic.MilliKelvin,
	2 * physic.MilliKelvin,
}

func (o OSR) conversionTime() time.Duration {
	return conversionTimes[o]
}

func (o OSR) commandOffset() byte {
	return commandOffsets[o]
}

func (o OSR) pressureResolution() physic.Pressure {
	return pressureResolutions[o]
}

func (o OSR) temperatureResolution() physic.Temperature {
	return temperatureResolutions[o]
}

func (o OSR) String() string {
	switch o {
	case OSR256:
		return "OSR256"
	case OSR512:
		return "OSR512"
	case OSR1024:
		return "OSR1024"
	case OSR2048:
		return "OSR2048"
	case OSR4096:
		return "OSR4096"
	}
	return fmt.Sprintf("OSR(%d)", uint8(o))
}
