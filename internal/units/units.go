package units

import (
	"math"

	"codeberg.org/nfehr/enviroctl/internal/errors"
	"codeberg.org/nfehr/enviroctl/internal/series"
)

// TempUnit is a temperature unit tag as it appears in config files.
type TempUnit string

const (
	Celsius    TempUnit = "C"
	Fahrenheit TempUnit = "F"
	Kelvin     TempUnit = "K"
)

const kelvinOffset = 273.15

// IsValid reports whether the unit tag is supported.
func (u TempUnit) IsValid() bool {
	switch u {
	case Celsius, Fahrenheit, Kelvin:
		return true
	default:
		return false
	}
}

func (u TempUnit) String() string {
	return string(u)
}

// ConvertTemperature converts v between Celsius, Fahrenheit and Kelvin.
func ConvertTemperature(v float64, from, to TempUnit) (float64, error) {
	if !from.IsValid() {
		return 0, errors.New().WithData(errors.ErrUnknownUnit, string(from))
	}
	if !to.IsValid() {
		return 0, errors.New().WithData(errors.ErrUnknownUnit, string(to))
	}

	if from == to {
		return v, nil
	}

	// Normalize to Celsius, then convert out.
	var celsius float64
	switch from {
	case Fahrenheit:
		celsius = (v - 32) * 5 / 9
	case Kelvin:
		celsius = v - kelvinOffset
	default:
		celsius = v
	}

	switch to {
	case Fahrenheit:
		return celsius*9/5 + 32, nil
	case Kelvin:
		return celsius + kelvinOffset, nil
	default:
		return celsius, nil
	}
}

// RoundForDisplay rounds a reading to the given number of decimal digits.
// Null readings pass through unchanged.
func RoundForDisplay(r series.Reading, precision int) series.Reading {
	if !r.Valid {
		return r
	}

	scale := math.Pow(10, float64(precision))

	return series.Value(math.Round(r.Value*scale) / scale)
}

// Clamp limits v to the range [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}

	return v
}

// CompensateTemperature corrects a raw board temperature for heat bleeding
// off the host CPU. A factor of 0 disables compensation.
func CompensateTemperature(raw, cpu, factor float64) float64 {
	if factor == 0 {
		return raw
	}

	return raw - (cpu-raw)/factor
}
