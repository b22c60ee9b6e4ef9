// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package ms5611 controls a TE Connectivity MS5611-01BA03 barometric
// pressure and temperature sensor over I²C.
//
// The sensor's factory calibration is read from its PROM and validated
// against the AN520 CRC-4 checksum when the device is created. Raw 24 bit
// ADC conversions are corrected with the datasheet's first and second order
// temperature compensation, so readings stay accurate below 20°C and down
// to -40°C.
//
// Range: 10 mbar - 1200 mbar, -40°C - 85°C
//
// The ms5611.Dev type implements the physic.SenseEnv interface. The
// physic.Env measurement results contain a temperature and pressure value;
// the humidity is not set.
//
// For detailed information, refer to the [datasheet].
//
// [datasheet]: https://www.te.com/commerce/DocumentDelivery/DDEController?Action=srchrtrv&DocNm=MS5611-01BA03&DocType=Data+Sheet&DocLang=English
package ms5611
