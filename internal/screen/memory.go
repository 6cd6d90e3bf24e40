package screen

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
)

// Memory is an in-process display.Drawer backing tests and headless
// runs when no LCD is attached.
type Memory struct {
	img *image.RGBA
}

// NewMemory creates an in-memory drawer with the given pixel geometry.
func NewMemory(width, height int) *Memory {
	return &Memory{
		img: image.NewRGBA(image.Rect(0, 0, width, height)),
	}
}

func (m *Memory) String() string {
	b := m.img.Bounds()

	return fmt.Sprintf("memdrawer{%dx%d}", b.Dx(), b.Dy())
}

// Halt implements conn.Resource.
func (m *Memory) Halt() error {
	draw.Draw(m.img, m.img.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)

	return nil
}

// ColorModel implements display.Drawer.
func (m *Memory) ColorModel() color.Model {
	return color.RGBAModel
}

// Bounds implements display.Drawer.
func (m *Memory) Bounds() image.Rectangle {
	return m.img.Bounds()
}

// Draw implements display.Drawer.
func (m *Memory) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	draw.Draw(m.img, r, src, sp, draw.Src)

	return nil
}

// Image exposes the current frame.
func (m *Memory) Image() *image.RGBA {
	return m.img
}
