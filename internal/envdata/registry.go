package envdata

import (
	"codeberg.org/nfehr/enviroctl/internal/errors"
	"codeberg.org/nfehr/enviroctl/internal/series"
	"codeberg.org/nfehr/enviroctl/internal/units"
)

// Registry owns one bounded series per metric. All series share the same
// capacity and default fill; the metric set is fixed at construction.
type Registry struct {
	buffers  map[Metric]*series.Series
	capacity int
}

// NewRegistry creates a registry with one pre-filled series per metric.
func NewRegistry(capacity int, def series.Reading) (*Registry, error) {
	buffers := make(map[Metric]*series.Series, len(metricOrder))
	for _, m := range metricOrder {
		s, err := series.New(capacity, def)
		if err != nil {
			return nil, err
		}
		buffers[m] = s
	}

	return &Registry{
		buffers:  buffers,
		capacity: capacity,
	}, nil
}

// SeriesFor returns the series backing a known metric.
func (r *Registry) SeriesFor(m Metric) (*series.Series, error) {
	s, ok := r.buffers[m]
	if !ok {
		return nil, errors.New().WithData(errors.ErrUnknownMetric, string(m))
	}

	return s, nil
}

// Append routes a reading into the metric's series.
func (r *Registry) Append(m Metric, v series.Reading) error {
	s, err := r.SeriesFor(m)
	if err != nil {
		return err
	}
	s.Append(v)

	return nil
}

// Latest returns the newest buffered reading for a metric.
func (r *Registry) Latest(m Metric) (series.Reading, error) {
	s, err := r.SeriesFor(m)
	if err != nil {
		return series.Reading{}, err
	}

	return s.Latest(), nil
}

// Capacity returns the shared series capacity.
func (r *Registry) Capacity() int {
	return r.capacity
}

// Dataset is a render-ready slice of one metric's history: invalid and
// out-of-range samples replaced by zero, bundled with the metric's static
// info. The zero substitution skews min/max slightly, which is acceptable
// on a 160px wide LCD.
type Dataset struct {
	Metric     Metric
	Label      string
	Unit       string
	Values     []float64
	Valid      Range
	Thresholds [4]series.Reading
}

// HasThresholds reports whether any warning threshold is set.
func (d Dataset) HasThresholds() bool {
	for _, t := range d.Thresholds {
		if t.Valid {
			return true
		}
	}

	return false
}

// Latest returns the newest value in the dataset.
func (d Dataset) Latest() float64 {
	if len(d.Values) == 0 {
		return 0
	}

	return d.Values[len(d.Values)-1]
}

// MinMax returns the smallest and largest values in the dataset.
func (d Dataset) MinMax() (float64, float64) {
	if len(d.Values) == 0 {
		return 0, 0
	}

	lo, hi := d.Values[0], d.Values[0]
	for _, v := range d.Values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}

	return lo, hi
}

// Prepared returns the last n samples of a metric scrubbed for display.
// n <= 0 or n past the buffer size yields the whole buffer.
func (r *Registry) Prepared(m Metric, n int) (Dataset, error) {
	s, err := r.SeriesFor(m)
	if err != nil {
		return Dataset{}, err
	}

	info := metricInfo[m]
	all := s.Values()
	if n > 0 && n < len(all) {
		all = all[len(all)-n:]
	}

	values := make([]float64, len(all))
	for i, sample := range all {
		if sample.Valid && info.Valid.Contains(sample.Value) {
			values[i] = sample.Value
		}
	}

	return Dataset{
		Metric:     m,
		Label:      info.Label,
		Unit:       info.Unit,
		Values:     values,
		Valid:      info.Valid,
		Thresholds: info.Thresholds,
	}, nil
}

// ForDisplay prepares the dataset for rendering in the configured unit
// and precision. Temperature datasets are converted as a whole, warning
// thresholds included, so graph scale and band colors stay aligned with
// the converted values.
func (d Dataset) ForDisplay(unit units.TempUnit, precision int) (Dataset, error) {
	if d.Metric == Temperature && unit != units.Celsius {
		values := make([]float64, len(d.Values))
		for i, v := range d.Values {
			converted, err := units.ConvertTemperature(v, units.Celsius, unit)
			if err != nil {
				return Dataset{}, err
			}
			values[i] = converted
		}
		d.Values = values

		for i, t := range d.Thresholds {
			if !t.Valid {
				continue
			}
			converted, err := units.ConvertTemperature(t.Value, units.Celsius, unit)
			if err != nil {
				return Dataset{}, err
			}
			d.Thresholds[i] = series.Value(converted)
		}
		d.Unit = string(unit)
	}

	rounded := make([]float64, len(d.Values))
	for i, v := range d.Values {
		rounded[i] = units.RoundForDisplay(series.Value(v), precision).Value
	}
	d.Values = rounded

	return d, nil
}
