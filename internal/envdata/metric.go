package envdata

import (
	"codeberg.org/nfehr/enviroctl/internal/errors"
	"codeberg.org/nfehr/enviroctl/internal/series"
)

// Metric identifies one of the environmental quantities sampled from the
// add-on board. The set is fixed; registries cannot grow new metrics at
// runtime.
type Metric string

const (
	Temperature Metric = "temperature"
	Pressure    Metric = "pressure"
	Humidity    Metric = "humidity"
	Light       Metric = "light"
	Oxidised    Metric = "oxidised"
	Reduced     Metric = "reduced"
	Ammonia     Metric = "ammonia"
	PM1         Metric = "pm1"
	PM25        Metric = "pm25"
	PM10        Metric = "pm10"
)

// Range is the span of values the physical sensor can produce. A bound
// with Valid == false does not constrain.
type Range struct {
	Min, Max series.Reading
}

// Contains reports whether v falls inside the range.
func (r Range) Contains(v float64) bool {
	if r.Min.Valid && v < r.Min.Value {
		return false
	}
	if r.Max.Valid && v > r.Max.Value {
		return false
	}

	return true
}

// Info describes the static properties of a metric: its unit of measure,
// display label, the valid sensor range, and the four warning thresholds
// that split readings into the five display bands (dangerously low, low,
// normal, high, dangerously high). Thresholds are nullable per position:
// pollution metrics warn only on the high side and leave the low
// thresholds unset.
type Info struct {
	Unit       string
	Label      string
	Valid      Range
	Thresholds [4]series.Reading
}

func (m Metric) String() string {
	return string(m)
}

// metricOrder is the canonical display/iteration order.
var metricOrder = []Metric{
	Temperature,
	Pressure,
	Humidity,
	Light,
	Oxidised,
	Reduced,
	Ammonia,
	PM1,
	PM25,
	PM10,
}

// Sensor ranges from the component datasheets: BME280 behind the
// LPS25HB-compatible limits used by the board, the rest unconstrained.
// Pollution metrics carry only high-side warning thresholds.
var metricInfo = map[Metric]Info{
	Temperature: {
		Unit:  "C",
		Label: "Temperature",
		Valid: Range{Min: series.Value(0), Max: series.Value(65)},
		Thresholds: [4]series.Reading{
			series.Value(4), series.Value(18), series.Value(25), series.Value(35),
		},
	},
	Pressure: {
		Unit:  "hPa",
		Label: "Pressure",
		Valid: Range{Min: series.Value(260), Max: series.Value(1260)},
		Thresholds: [4]series.Reading{
			series.Value(250), series.Value(650), series.Value(1013.25), series.Value(1015),
		},
	},
	Humidity: {
		Unit:  "%",
		Label: "Humidity",
		Valid: Range{Min: series.Value(0), Max: series.Value(100)},
		Thresholds: [4]series.Reading{
			series.Value(20), series.Value(30), series.Value(60), series.Value(70),
		},
	},
	Light: {
		Unit:  "Lux",
		Label: "Light",
		Thresholds: [4]series.Reading{
			series.Null(), series.Null(), series.Value(30000), series.Value(100000),
		},
	},
	Oxidised: {
		Unit:  "kO",
		Label: "Oxidised",
		Thresholds: [4]series.Reading{
			series.Null(), series.Null(), series.Value(40), series.Value(50),
		},
	},
	Reduced: {
		Unit:  "kO",
		Label: "Reduced",
		Thresholds: [4]series.Reading{
			series.Null(), series.Null(), series.Value(450), series.Value(550),
		},
	},
	Ammonia: {
		Unit:  "kO",
		Label: "NH3",
		Thresholds: [4]series.Reading{
			series.Null(), series.Null(), series.Value(200), series.Value(300),
		},
	},
	PM1: {
		Unit:  "ug/m3",
		Label: "PM1",
		Thresholds: [4]series.Reading{
			series.Null(), series.Null(), series.Value(50), series.Value(100),
		},
	},
	PM25: {
		Unit:  "ug/m3",
		Label: "PM2.5",
		Thresholds: [4]series.Reading{
			series.Null(), series.Null(), series.Value(50), series.Value(100),
		},
	},
	PM10: {
		Unit:  "ug/m3",
		Label: "PM10",
		Thresholds: [4]series.Reading{
			series.Null(), series.Null(), series.Value(50), series.Value(100),
		},
	},
}

// Metrics returns all metric identifiers in canonical order.
func Metrics() []Metric {
	out := make([]Metric, len(metricOrder))
	copy(out, metricOrder)

	return out
}

// ParseMetric converts a config or CLI string into a Metric.
func ParseMetric(name string) (Metric, error) {
	m := Metric(name)
	if _, ok := metricInfo[m]; !ok {
		return "", errors.New().WithData(errors.ErrUnknownMetric, name)
	}

	return m, nil
}

// InfoFor returns the static info for a known metric.
func InfoFor(m Metric) (Info, error) {
	info, ok := metricInfo[m]
	if !ok {
		return Info{}, errors.New().WithData(errors.ErrUnknownMetric, string(m))
	}

	return info, nil
}
