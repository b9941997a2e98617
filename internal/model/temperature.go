// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the Temperature type and the tag formatting rules used to
// name per-temperature outputs.
package model

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// NominalTemperature is the temperature used when no sweep is requested.
const NominalTemperature Temperature = 27

// ErrInvalidTemperature is returned for temperatures that cannot be
// represented as whole degrees.
var ErrInvalidTemperature = errors.New("invalid temperature")

// Temperature is a simulation temperature in whole degrees Celsius.
type Temperature int

// TruncateTemperature converts a floating point reading to whole degrees,
// truncating toward zero (26.9 -> 26, -40.7 -> -40).
func TruncateTemperature(v float64) (Temperature, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %v", ErrInvalidTemperature, v)
	}
	t := math.Trunc(v)
	if t > math.MaxInt32 || t < math.MinInt32 {
		return 0, fmt.Errorf("%w: %v is out of range", ErrInvalidTemperature, v)
	}
	return Temperature(t), nil
}

// ParseTemperature parses a decimal temperature such as "-40", "27" or
// "85.5" and truncates it to whole degrees.
func ParseTemperature(s string) (Temperature, error) {
	s = strings.TrimSpace(s)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTemperature, s)
	}
	return TruncateTemperature(v)
}

// ParseTemperatureList parses a comma separated list of temperatures.
// Empty elements are ignored.
func ParseTemperatureList(s string) ([]Temperature, error) {
	var temps []Temperature
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		t, err := ParseTemperature(part)
		if err != nil {
			return nil, err
		}
		temps = append(temps, t)
	}
	return temps, nil
}

// TemperatureTag renders t as a filename-safe tag: "27C" for non-negative
// values and "m40C" for -40.
func TemperatureTag(t Temperature) string {
	if t < 0 {
		// Negate as int64 so math.MinInt32-sized values stay positive.
		return "m" + strconv.FormatInt(-int64(t), 10) + "C"
	}
	return strconv.Itoa(int(t)) + "C"
}

// String implements fmt.Stringer.
func (t Temperature) String() string {
	return strconv.Itoa(int(t))
}
