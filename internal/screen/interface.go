package screen

import (
	"codeberg.org/nfehr/enviroctl/internal/envdata"
	"codeberg.org/nfehr/enviroctl/internal/errors"
)

// Mode names a rendering style: one bar-chart view per metric, a text
// overview, or idle sparkles.
type Mode string

const (
	ModeText     Mode = "text"
	ModeSparkles Mode = "sparkles"
)

// Modes returns all display modes in cycle order: the per-metric graph
// views first, then the text overview, then sparkles.
func Modes() []Mode {
	metrics := envdata.Metrics()
	out := make([]Mode, 0, len(metrics)+2)
	for _, m := range metrics {
		out = append(out, Mode(m))
	}

	return append(out, ModeText, ModeSparkles)
}

// ParseMode validates a mode name from config or CLI input.
func ParseMode(name string) (Mode, error) {
	for _, m := range Modes() {
		if Mode(name) == m {
			return m, nil
		}
	}

	return "", errors.New().WithData(errors.ErrBadMode, name)
}

// IsGraph reports whether the mode charts a single metric.
func (m Mode) IsGraph() bool {
	return m != ModeText && m != ModeSparkles
}

// Metric returns the charted metric for graph modes.
func (m Mode) Metric() (envdata.Metric, error) {
	if !m.IsGraph() {
		return "", errors.New().WithData(errors.ErrBadMode, string(m))
	}

	return envdata.ParseMetric(string(m))
}

// Config holds the initial display state.
type Config struct {
	// Rotation is the display rotation angle: 0, 90, 180 or 270.
	Rotation int

	// Mode is the initial display mode; empty selects the first mode.
	Mode Mode

	// Progress enables the one-pixel progress bar on the top row.
	Progress bool
}

var validRotations = []int{0, 90, 180, 270}

func validRotation(angle int) bool {
	for _, r := range validRotations {
		if angle == r {
			return true
		}
	}

	return false
}
