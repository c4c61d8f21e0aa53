package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"

	"gocv.io/x/gocv"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Font defines the parameters for rendering text on an image using GoCV
type Font struct {
	Face      gocv.HersheyFont
	Scale     float64
	Color     color.RGBA
	Thickness int
	LineType  gocv.LineType
}

// DefaultFont returns default font settings
func DefaultFont() Font {
	return Font{
		Face:      gocv.FontHersheySimplex,
		Scale:     0.5,
		Color:     White,
		Thickness: 1,
		LineType:  gocv.LineAA,
	}
}

// StatusFont returns the font of the posture status line
func StatusFont() Font {
	return Font{
		Face:      gocv.FontHersheySimplex,
		Scale:     0.7,
		Color:     Green,
		Thickness: 2,
		LineType:  gocv.Line8,
	}
}

// AlertFont returns the font of the sit up straight alert
func AlertFont() Font {
	return Font{
		Face:      gocv.FontHersheySimplex,
		Scale:     1,
		Color:     Red,
		Thickness: 3,
		LineType:  gocv.Line8,
	}
}

// PutText writes text with its baseline starting at pt
func (f Font) PutText(img *gocv.Mat, text string, pt image.Point) {
	gocv.PutTextWithParams(img, text, pt, f.Face, f.Scale, f.Color, f.Thickness,
		f.LineType, false)
}

// TTFFont renders text with a TrueType/OpenType font face for glyphs the
// Hershey fonts lack
type TTFFont struct {
	face font.Face
}

// LoadTTF loads the font file at path with the given point size
func LoadTTF(path string, size float64) (*TTFFont, error) {

	fontBytes, err := os.ReadFile(path)

	if err != nil {
		return nil, fmt.Errorf("failed to load font: %w", err)
	}

	return ParseTTF(fontBytes, size)
}

// ParseTTF creates a font from TTF/OTF data with the given point size
func ParseTTF(data []byte, size float64) (*TTFFont, error) {

	f, err := opentype.Parse(data)

	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}

	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})

	if err != nil {
		return nil, fmt.Errorf("failed to create type face: %w", err)
	}

	return &TTFFont{face: face}, nil
}

// PutText writes text in clr with its baseline starting at pt.  The glyphs
// are drawn on a transparent layer which is then added onto img.
func (t *TTFFont) PutText(img *gocv.Mat, text string, pt image.Point,
	clr color.RGBA) error {

	rgba := image.NewRGBA(image.Rect(0, 0, img.Cols(), img.Rows()))
	draw.Draw(rgba, rgba.Bounds(), image.NewUniform(color.RGBA{0, 0, 0, 0}),
		image.Point{}, draw.Src)

	dr := &font.Drawer{
		Dst:  rgba,
		Src:  image.NewUniform(clr),
		Face: t.face,
		Dot: fixed.Point26_6{
			X: fixed.Int26_6(pt.X * 64),
			Y: fixed.Int26_6(pt.Y * 64),
		},
	}
	dr.DrawString(text)

	layer, err := gocv.NewMatFromBytes(rgba.Bounds().Dy(), rgba.Bounds().Dx(),
		gocv.MatTypeCV8UC4, rgba.Pix)

	if err != nil || layer.Empty() {
		return fmt.Errorf("error creating Mat from RGBA: %v", err)
	}

	defer layer.Close()

	gocv.CvtColor(layer, &layer, gocv.ColorRGBAToBGR)
	gocv.AddWeighted(*img, 1.0, layer, 1.0, 0, img)

	return nil
}

// Close releases the font face
func (t *TTFFont) Close() error {
	return t.face.Close()
}
