package screen

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"math/rand"

	"codeberg.org/nfehr/enviroctl/internal/envdata"
	"codeberg.org/nfehr/enviroctl/internal/errors"
	"codeberg.org/nfehr/enviroctl/internal/units"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/conn/v3/display"
)

const (
	topBarHeight = 21 // px reserved for the graph header text
	labelMaxLen  = 5  // chars of the metric label shown in headers
	textLabelLen = 4  // chars of the metric label in the text overview
	textColumns  = 2

	fontAscent = 11 // basicfont.Face7x13

	sparklePercent = 0.1 // fraction of the screen that may sparkle
)

var (
	colorBlack  = color.RGBA{A: 0xFF}
	colorChrome = color.RGBA{R: 219, G: 226, B: 233, A: 0xFF} // default text
	colorBlue   = color.RGBA{B: 0xFF, A: 0xFF}
	colorCyan   = color.RGBA{G: 0xFF, B: 0xFF, A: 0xFF}
	colorGreen  = color.RGBA{G: 0xFF, A: 0xFF}
	colorYellow = color.RGBA{R: 0xFF, G: 0xFF, A: 0xFF}
	colorRed    = color.RGBA{R: 0xFF, A: 0xFF}

	// Band colors: dangerously low, low, normal, high, dangerously high.
	palette = [5]color.RGBA{colorBlue, colorCyan, colorGreen, colorYellow, colorRed}
)

// Screen owns the display state (rotation, mode, sleep) and composes
// frames in memory before pushing them through a display.Drawer. All
// rendering happens here; the drawer is only a pixel sink.
type Screen struct {
	drawer display.Drawer
	img    *image.RGBA

	width  int
	height int

	rotation int
	mode     Mode
	modes    []Mode
	progress bool
	sleeping bool

	rng *rand.Rand
}

// New wraps a drawer with the given initial state.
func New(d display.Drawer, cfg Config) (*Screen, error) {
	errFactory := errors.New()

	if !validRotation(cfg.Rotation) {
		return nil, errFactory.WithData(errors.ErrBadRotation, cfg.Rotation)
	}

	modes := Modes()
	mode := modes[0]
	if cfg.Mode != "" {
		m, err := ParseMode(string(cfg.Mode))
		if err != nil {
			return nil, err
		}
		mode = m
	}

	s := &Screen{
		drawer:   d,
		rotation: cfg.Rotation,
		mode:     mode,
		modes:    modes,
		progress: cfg.Progress,
		rng:      rand.New(rand.NewSource(0)),
	}
	s.initCanvas()

	return s, nil
}

// initCanvas sizes the drawing surface for the current rotation; a 90 or
// 270 degree rotation swaps the logical aspect ratio.
func (s *Screen) initCanvas() {
	b := s.drawer.Bounds()
	w, h := b.Dx(), b.Dy()
	if s.rotation == 90 || s.rotation == 270 {
		w, h = h, w
	}

	s.width, s.height = w, h
	s.img = image.NewRGBA(image.Rect(0, 0, w, h))
}

// Width returns the logical canvas width in pixels.
func (s *Screen) Width() int { return s.width }

// Height returns the logical canvas height in pixels.
func (s *Screen) Height() int { return s.height }

// Rotation returns the current rotation angle.
func (s *Screen) Rotation() int { return s.rotation }

// Mode returns the current display mode.
func (s *Screen) Mode() Mode { return s.mode }

// Sleeping reports whether the display is blanked.
func (s *Screen) Sleeping() bool { return s.sleeping }

// ProgressEnabled reports whether the progress bar row is reserved.
func (s *Screen) ProgressEnabled() bool { return s.progress }

// SetProgressEnabled toggles the progress bar row.
func (s *Screen) SetProgressEnabled(enabled bool) { s.progress = enabled }

// On wakes the display from sleep mode.
func (s *Screen) On() {
	s.sleeping = false
}

// Off blanks the display and enters sleep mode.
func (s *Screen) Off() error {
	if err := s.Blank(); err != nil {
		return err
	}
	s.sleeping = true

	return nil
}

// UpdateSleep transitions the sleep state to match idle.
func (s *Screen) UpdateSleep(idle bool) error {
	if idle && !s.sleeping {
		return s.Off()
	}
	if !idle && s.sleeping {
		s.On()
	}

	return nil
}

// SetRotation sets an absolute rotation angle and resizes the canvas.
func (s *Screen) SetRotation(angle int) error {
	if !validRotation(angle) {
		return errors.New().WithData(errors.ErrBadRotation, angle)
	}

	s.rotation = angle
	s.initCanvas()

	return nil
}

// Rotate steps the rotation 90 degrees; negative direction steps back.
// Rotating wakes the display.
func (s *Screen) Rotate(direction int) {
	if direction < 0 {
		if s.rotation == 0 {
			s.rotation = 270
		} else {
			s.rotation -= 90
		}
	} else {
		if s.rotation == 270 {
			s.rotation = 0
		} else {
			s.rotation += 90
		}
	}

	s.initCanvas()
	s.On()
}

// SetMode switches to a named display mode and wakes the display.
func (s *Screen) SetMode(m Mode) error {
	mode, err := ParseMode(string(m))
	if err != nil {
		return err
	}

	s.mode = mode
	s.On()

	return nil
}

// CycleMode steps to the next (or previous) display mode, wrapping
// around, and wakes the display.
func (s *Screen) CycleMode(direction int) Mode {
	idx := 0
	for i, m := range s.modes {
		if m == s.mode {
			idx = i
			break
		}
	}

	if direction < 0 {
		idx--
		if idx < 0 {
			idx = len(s.modes) - 1
		}
	} else {
		idx = (idx + 1) % len(s.modes)
	}

	s.mode = s.modes[idx]
	s.On()

	return s.mode
}

// Blank clears the whole display.
func (s *Screen) Blank() error {
	s.fill(s.img.Bounds(), colorBlack)

	return s.push()
}

// bodyTop returns the first row below the reserved progress bar.
func (s *Screen) bodyTop() int {
	if s.progress {
		return 2
	}

	return 0
}

// DrawGraph renders one metric's history as a bar chart with a header
// line showing the latest value. lo/hi set the vertical scale; equal
// values fall back to the dataset's own min/max.
func (s *Screen) DrawGraph(ds envdata.Dataset, lo, hi float64) error {
	if s.sleeping {
		return nil
	}

	if hi == lo {
		lo, hi = ds.MinMax()
	}

	// Use the last width samples, left-padded with zeros so short
	// histories appear to scroll in from the right.
	values := make([]float64, s.width)
	n := len(ds.Values)
	if n > s.width {
		copy(values, ds.Values[n-s.width:])
	} else {
		copy(values[s.width-n:], ds.Values)
	}

	yMin := topBarHeight + s.bodyTop()
	band := s.height - yMin

	s.fill(s.img.Bounds(), colorBlack)

	for x, v := range values {
		barHeight := 0
		if hi > lo {
			scaled := (v - lo) / (hi - lo) * float64(band)
			barHeight = int(units.Clamp(scaled, 0, float64(band)))
		}
		if barHeight > 0 {
			s.fill(image.Rect(x, s.height-barHeight, x+1, s.height), s.barColor(ds, v, lo, hi))
		}
	}

	label := ds.Label
	if len(label) > labelMaxLen {
		label = label[:labelMaxLen]
	}
	s.drawString(0, fontAscent+s.bodyTop(), fmt.Sprintf("%s: %.1f %s", label, ds.Latest(), ds.Unit), colorChrome)

	return s.push()
}

// barColor picks the column color: threshold bands when the metric has
// them, otherwise a red-to-blue HSV ramp over the visible range. Unset
// low thresholds never trip, so high-side-only metrics render green
// until they cross their warning limit.
func (s *Screen) barColor(ds envdata.Dataset, v, lo, hi float64) color.RGBA {
	if ds.HasThresholds() {
		switch {
		case ds.Thresholds[2].Valid && v > ds.Thresholds[2].Value:
			return colorRed
		case ds.Thresholds[1].Valid && v <= ds.Thresholds[1].Value:
			return colorCyan
		default:
			return colorGreen
		}
	}

	scaled := 0.0
	if hi > lo {
		scaled = units.Clamp((v-lo)/(hi-lo), 0, 1)
	}

	return hsvToRGB((1 - scaled) * 0.6)
}

// DrawText renders all metrics as short label/value rows in two columns.
func (s *Screen) DrawText(datasets []envdata.Dataset) error {
	if s.sleeping {
		return nil
	}

	s.fill(image.Rect(0, s.bodyTop(), s.width, s.height), colorBlack)

	rows := (len(datasets) + textColumns - 1) / textColumns
	if rows == 0 {
		return s.push()
	}

	for i, ds := range datasets {
		x := 1 + (s.width/textColumns)*(i/rows)
		y := 1 + (s.height/rows)*(i%rows) + s.bodyTop()

		label := ds.Label
		if len(label) > textLabelLen {
			label = label[:textLabelLen]
		}
		msg := fmt.Sprintf("%s: %.1f %s", label, ds.Latest(), ds.Unit)

		// Walk the ascending warning bands; an unset threshold always
		// escalates, so high-side-only metrics start from the normal band.
		c := colorChrome
		if ds.HasThresholds() {
			c = palette[0]
			for j, limit := range ds.Thresholds {
				if !limit.Valid || ds.Latest() > limit.Value {
					c = palette[j+1]
				}
			}
		}

		s.drawString(x, y+fontAscent, msg, c)
	}

	return s.push()
}

// DrawMessage renders a single line of text, vertically centered.
func (s *Screen) DrawMessage(msg string) error {
	if s.sleeping {
		return nil
	}

	s.fill(image.Rect(0, s.bodyTop(), s.width, s.height), colorBlack)
	y := (s.height-fontAscent)/2 + fontAscent
	s.drawString(1, y, msg, colorChrome)

	return s.push()
}

// DrawProgress marks fraction complete on the one-pixel top row.
func (s *Screen) DrawProgress(fraction float64) error {
	if s.sleeping || !s.progress {
		return nil
	}

	x := int(units.Clamp(fraction, 0, 1) * float64(s.width))
	s.fill(image.Rect(0, 0, s.width, 1), colorBlack)
	s.fill(image.Rect(0, 0, x, 1), colorCyan)

	return s.push()
}

// Sparkle adds one random colored pixel, occasionally clearing the
// screen so sparkles never cover more than a tenth of it.
func (s *Screen) Sparkle() error {
	if s.sleeping {
		return nil
	}

	maxSparkle := int(float64(s.width*s.height) * sparklePercent)
	if s.rng.Intn(maxSparkle) == 0 {
		s.fill(image.Rect(0, s.bodyTop(), s.width, s.height), colorBlack)

		return s.push()
	}

	x := s.rng.Intn(s.width)
	y := s.bodyTop() + s.rng.Intn(s.height-s.bodyTop())
	c := color.RGBA{
		R: uint8(s.rng.Intn(256)),
		G: uint8(s.rng.Intn(256)),
		B: uint8(s.rng.Intn(256)),
		A: 0xFF,
	}
	s.img.SetRGBA(x, y, c)

	return s.push()
}

// Halt blanks the display and releases the drawer.
func (s *Screen) Halt() error {
	if err := s.Blank(); err != nil {
		return err
	}

	return s.drawer.Halt()
}

func (s *Screen) fill(r image.Rectangle, c color.Color) {
	draw.Draw(s.img, r, image.NewUniform(c), image.Point{}, draw.Src)
}

func (s *Screen) drawString(x, baseline int, msg string, c color.Color) {
	d := font.Drawer{
		Dst:  s.img,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, baseline),
	}
	d.DrawString(msg)
}

// push rotates the composed frame to the panel orientation and hands it
// to the drawer.
func (s *Screen) push() error {
	frame := rotateImage(s.img, s.rotation)
	if err := s.drawer.Draw(s.drawer.Bounds(), frame, image.Point{}); err != nil {
		return errors.New().Wrap(errors.ErrDisplayUpdate, err)
	}

	return nil
}

// rotateImage returns src turned clockwise by angle degrees.
func rotateImage(src *image.RGBA, angle int) *image.RGBA {
	if angle == 0 {
		return src
	}

	b := src.Bounds()
	w, h := b.Dx(), b.Dy()

	switch angle {
	case 90:
		dst := image.NewRGBA(image.Rect(0, 0, h, w))
		for y := 0; y < w; y++ {
			for x := 0; x < h; x++ {
				dst.SetRGBA(x, y, src.RGBAAt(y, h-1-x))
			}
		}

		return dst
	case 270:
		dst := image.NewRGBA(image.Rect(0, 0, h, w))
		for y := 0; y < w; y++ {
			for x := 0; x < h; x++ {
				dst.SetRGBA(x, y, src.RGBAAt(w-1-y, x))
			}
		}

		return dst
	default: // 180
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				dst.SetRGBA(x, y, src.RGBAAt(w-1-x, h-1-y))
			}
		}

		return dst
	}
}

// hsvToRGB converts a hue in [0,1] at full saturation and value.
func hsvToRGB(hue float64) color.RGBA {
	h := hue * 6
	i := int(math.Floor(h)) % 6
	f := h - math.Floor(h)

	var r, g, b float64
	switch i {
	case 0:
		r, g, b = 1, f, 0
	case 1:
		r, g, b = 1-f, 1, 0
	case 2:
		r, g, b = 0, 1, f
	case 3:
		r, g, b = 0, 1-f, 1
	case 4:
		r, g, b = f, 0, 1
	default:
		r, g, b = 1, 0, 1-f
	}

	return color.RGBA{
		R: uint8(r * 255),
		G: uint8(g * 255),
		B: uint8(b * 255),
		A: 0xFF,
	}
}
