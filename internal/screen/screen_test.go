package screen_test

import (
	"image"
	"image/color"
	"testing"

	"codeberg.org/nfehr/enviroctl/internal/envdata"
	"codeberg.org/nfehr/enviroctl/internal/errors"
	"codeberg.org/nfehr/enviroctl/internal/screen"
	"codeberg.org/nfehr/enviroctl/internal/series"
	"codeberg.org/nfehr/enviroctl/internal/units"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	lcdWidth  = 160
	lcdHeight = 80
)

func newTestScreen(t *testing.T, cfg screen.Config) (*screen.Screen, *screen.Memory) {
	t.Helper()
	mem := screen.NewMemory(lcdWidth, lcdHeight)
	s, err := screen.New(mem, cfg)
	require.NoError(t, err)

	return s, mem
}

func TestNewRejectsBadRotation(t *testing.T) {
	mem := screen.NewMemory(lcdWidth, lcdHeight)
	_, err := screen.New(mem, screen.Config{Rotation: 45})
	require.Error(t, err)
	assert.Equal(t, errors.ErrBadRotation, errors.CodeOf(err))
}

func TestNewRejectsBadMode(t *testing.T) {
	mem := screen.NewMemory(lcdWidth, lcdHeight)
	_, err := screen.New(mem, screen.Config{Mode: "disco"})
	require.Error(t, err)
	assert.Equal(t, errors.ErrBadMode, errors.CodeOf(err))
}

func TestRotationSwapsCanvas(t *testing.T) {
	s, _ := newTestScreen(t, screen.Config{Rotation: 90})
	assert.Equal(t, lcdHeight, s.Width())
	assert.Equal(t, lcdWidth, s.Height())

	require.NoError(t, s.SetRotation(180))
	assert.Equal(t, lcdWidth, s.Width())
	assert.Equal(t, lcdHeight, s.Height())
}

func TestRotateStepsAndWraps(t *testing.T) {
	s, _ := newTestScreen(t, screen.Config{})

	s.Rotate(1)
	assert.Equal(t, 90, s.Rotation())
	s.Rotate(1)
	s.Rotate(1)
	s.Rotate(1)
	assert.Equal(t, 0, s.Rotation())

	s.Rotate(-1)
	assert.Equal(t, 270, s.Rotation())
}

func TestCycleModeWraps(t *testing.T) {
	s, _ := newTestScreen(t, screen.Config{})
	modes := screen.Modes()

	assert.Equal(t, modes[0], s.Mode())
	assert.Equal(t, modes[1], s.CycleMode(1))

	// Backwards past the start wraps to the end.
	s.CycleMode(-1)
	assert.Equal(t, modes[len(modes)-1], s.CycleMode(-1))
}

func TestModeParsing(t *testing.T) {
	m, err := screen.ParseMode("temperature")
	require.NoError(t, err)
	assert.True(t, m.IsGraph())

	metric, err := m.Metric()
	require.NoError(t, err)
	assert.Equal(t, envdata.Temperature, metric)

	_, err = screen.ModeSparkles.Metric()
	require.Error(t, err)
}

func TestDrawProgressFillsTopRow(t *testing.T) {
	s, mem := newTestScreen(t, screen.Config{Progress: true})

	require.NoError(t, s.DrawProgress(0.5))

	img := mem.Image()
	cyan := color.RGBA{G: 0xFF, B: 0xFF, A: 0xFF}
	assert.Equal(t, cyan, img.RGBAAt(0, 0))
	assert.Equal(t, cyan, img.RGBAAt(lcdWidth/2-1, 0))
	assert.NotEqual(t, cyan, img.RGBAAt(lcdWidth/2+1, 0))
}

func TestDrawProgressClampsFraction(t *testing.T) {
	s, mem := newTestScreen(t, screen.Config{Progress: true})

	require.NoError(t, s.DrawProgress(3.0))
	cyan := color.RGBA{G: 0xFF, B: 0xFF, A: 0xFF}
	assert.Equal(t, cyan, mem.Image().RGBAAt(lcdWidth-1, 0))
}

func TestDrawProgressDisabled(t *testing.T) {
	s, mem := newTestScreen(t, screen.Config{Progress: false})

	require.NoError(t, s.DrawProgress(1.0))
	assert.Equal(t, color.RGBA{}, mem.Image().RGBAAt(0, 0), "nothing should be drawn")
}

func TestDrawGraphPaintsColumns(t *testing.T) {
	s, mem := newTestScreen(t, screen.Config{})

	values := make([]float64, lcdWidth)
	for i := range values {
		values[i] = 50 // mid-band humidity, inside 30..60 normal range
	}
	ds := envdata.Dataset{
		Metric: envdata.Humidity,
		Label:  "Humidity",
		Unit:   "%",
		Values: values,
		Thresholds: [4]series.Reading{
			series.Value(20), series.Value(30), series.Value(60), series.Value(70),
		},
	}

	require.NoError(t, s.DrawGraph(ds, 0, 100))

	// Half of the band below the 21px header should be green.
	green := color.RGBA{G: 0xFF, A: 0xFF}
	assert.Equal(t, green, mem.Image().RGBAAt(10, lcdHeight-1))
	assert.Equal(t, green, mem.Image().RGBAAt(10, lcdHeight-25))
	assert.Equal(t, color.RGBA{A: 0xFF}, mem.Image().RGBAAt(10, lcdHeight-40), "above the bar is background")
}

func TestDrawGraphThresholdColors(t *testing.T) {
	s, mem := newTestScreen(t, screen.Config{})

	ds := envdata.Dataset{
		Metric: envdata.Humidity,
		Label:  "Humidity",
		Unit:   "%",
		Values: []float64{90},
		Thresholds: [4]series.Reading{
			series.Value(20), series.Value(30), series.Value(60), series.Value(70),
		},
	}

	require.NoError(t, s.DrawGraph(ds, 0, 100))

	// The single value lands in the rightmost column, above the high
	// threshold, so it is drawn red.
	red := color.RGBA{R: 0xFF, A: 0xFF}
	assert.Equal(t, red, mem.Image().RGBAAt(lcdWidth-1, lcdHeight-1))
}

func TestDrawGraphHighSideOnlyThresholds(t *testing.T) {
	s, mem := newTestScreen(t, screen.Config{})

	// PM-style metric: no low thresholds, warn above 50.
	ds := envdata.Dataset{
		Metric: envdata.PM25,
		Label:  "PM2.5",
		Unit:   "ug/m3",
		Values: []float64{10},
		Thresholds: [4]series.Reading{
			series.Null(), series.Null(), series.Value(50), series.Value(100),
		},
	}

	require.NoError(t, s.DrawGraph(ds, 0, 100))
	green := color.RGBA{G: 0xFF, A: 0xFF}
	assert.Equal(t, green, mem.Image().RGBAAt(lcdWidth-1, lcdHeight-1), "below the warning limit is normal")

	ds.Values = []float64{90}
	require.NoError(t, s.DrawGraph(ds, 0, 100))
	red := color.RGBA{R: 0xFF, A: 0xFF}
	assert.Equal(t, red, mem.Image().RGBAAt(lcdWidth-1, lcdHeight-1), "above the warning limit is red")
}

func TestDrawGraphConvertedTemperatureKeepsBands(t *testing.T) {
	s, mem := newTestScreen(t, screen.Config{})

	// Normal-band Celsius readings converted to Fahrenheit as a whole.
	ds := envdata.Dataset{
		Metric: envdata.Temperature,
		Label:  "Temperature",
		Unit:   "C",
		Values: []float64{18, 19, 20, 21, 22},
		Thresholds: [4]series.Reading{
			series.Value(4), series.Value(18), series.Value(25), series.Value(35),
		},
	}
	converted, err := ds.ForDisplay(units.Fahrenheit, 1)
	require.NoError(t, err)

	lo, hi := converted.MinMax()
	require.NoError(t, s.DrawGraph(converted, lo, hi))

	img := mem.Image()
	green := color.RGBA{G: 0xFF, A: 0xFF}
	red := color.RGBA{R: 0xFF, A: 0xFF}

	// The rightmost column holds 22 C (71.6 F), inside the converted
	// 64.4..77 normal band: green, and scaled rather than saturated.
	assert.Equal(t, green, img.RGBAAt(lcdWidth-1, lcdHeight-1))
	assert.NotEqual(t, red, img.RGBAAt(lcdWidth-1, lcdHeight-1))
	topOfBand := 21 // first row below the header
	assert.Equal(t, color.RGBA{A: 0xFF}, img.RGBAAt(lcdWidth-3, topOfBand+1), "mid-range bars must not fill the whole band")
}

func TestSleepSkipsDrawing(t *testing.T) {
	s, mem := newTestScreen(t, screen.Config{Progress: true})
	require.NoError(t, s.Off())
	assert.True(t, s.Sleeping())

	require.NoError(t, s.DrawProgress(1.0))
	require.NoError(t, s.DrawMessage("hello"))
	require.NoError(t, s.DrawGraph(envdata.Dataset{Values: []float64{1}}, 0, 1))

	// Screen stays blanked.
	img := mem.Image()
	for _, y := range []int{0, 10, lcdHeight - 1} {
		assert.Equal(t, color.RGBA{A: 0xFF}, img.RGBAAt(5, y))
	}
}

func TestUpdateSleepTransitions(t *testing.T) {
	s, _ := newTestScreen(t, screen.Config{})

	require.NoError(t, s.UpdateSleep(true))
	assert.True(t, s.Sleeping())

	require.NoError(t, s.UpdateSleep(false))
	assert.False(t, s.Sleeping())
}

func TestDrawTextRendersSomething(t *testing.T) {
	s, mem := newTestScreen(t, screen.Config{})

	datasets := []envdata.Dataset{
		{
			Label:  "Temperature",
			Unit:   "C",
			Values: []float64{21.5},
			Thresholds: [4]series.Reading{
				series.Value(4), series.Value(18), series.Value(25), series.Value(35),
			},
		},
		{Label: "Pressure", Unit: "hPa", Values: []float64{1013}},
	}
	require.NoError(t, s.DrawText(datasets))

	// At least one non-background pixel was written.
	img := mem.Image()
	found := false
	for y := 0; y < lcdHeight && !found; y++ {
		for x := 0; x < lcdWidth && !found; x++ {
			if img.RGBAAt(x, y) != (color.RGBA{A: 0xFF}) && img.RGBAAt(x, y) != (color.RGBA{}) {
				found = true
			}
		}
	}
	assert.True(t, found, "text overview should paint pixels")
}

func countColors(img *image.RGBA, want color.RGBA) int {
	n := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.RGBAAt(x, y) == want {
				n++
			}
		}
	}

	return n
}

func TestDrawTextConvertedTemperatureStaysNormalBand(t *testing.T) {
	s, mem := newTestScreen(t, screen.Config{})

	ds := envdata.Dataset{
		Metric: envdata.Temperature,
		Label:  "Temperature",
		Unit:   "C",
		Values: []float64{20},
		Thresholds: [4]series.Reading{
			series.Value(4), series.Value(18), series.Value(25), series.Value(35),
		},
	}
	converted, err := ds.ForDisplay(units.Fahrenheit, 1)
	require.NoError(t, err)

	require.NoError(t, s.DrawText([]envdata.Dataset{converted}))

	// 20 C is 68 F: the converted thresholds keep it in the normal band,
	// so the row is drawn green, never in the danger color.
	img := mem.Image()
	green := color.RGBA{G: 0xFF, A: 0xFF}
	red := color.RGBA{R: 0xFF, A: 0xFF}
	assert.Positive(t, countColors(img, green))
	assert.Zero(t, countColors(img, red))
}

func TestDrawTextHighPollutionEscalates(t *testing.T) {
	s, mem := newTestScreen(t, screen.Config{})

	ds := envdata.Dataset{
		Metric: envdata.PM10,
		Label:  "PM10",
		Unit:   "ug/m3",
		Values: []float64{120},
		Thresholds: [4]series.Reading{
			series.Null(), series.Null(), series.Value(50), series.Value(100),
		},
	}

	require.NoError(t, s.DrawText([]envdata.Dataset{ds}))

	red := color.RGBA{R: 0xFF, A: 0xFF}
	assert.Positive(t, countColors(mem.Image(), red), "readings past the danger limit are drawn red")
}

func TestModesContainAllMetricsPlusExtras(t *testing.T) {
	modes := screen.Modes()
	assert.Len(t, modes, len(envdata.Metrics())+2)
	assert.Equal(t, screen.ModeText, modes[len(modes)-2])
	assert.Equal(t, screen.ModeSparkles, modes[len(modes)-1])
}
