package charts

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
)

// Font is a TrueType font shared by every canvas so that text measured during
// layout has the same width in the SVG, PDF and PNG outputs.
type Font struct {
	Name string
	TTF  []byte

	parsed *truetype.Font
}

// DefaultFont returns the embedded Go Regular font.
func DefaultFont() *Font {
	f, err := ParseFont("Go", goregular.TTF)
	if err != nil {
		// embedded font data is fixed at build time
		panic(fmt.Sprintf("charts: embedded font: %v", err))
	}
	return f
}

// ParseFont parses TrueType data.
func ParseFont(name string, ttf []byte) (*Font, error) {
	parsed, err := truetype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font %s: %w", name, err)
	}
	return &Font{Name: name, TTF: ttf, parsed: parsed}, nil
}

// LoadFont reads a .ttf file. A leading "~" is expanded to the home directory.
func LoadFont(path string) (*Font, error) {
	expanded := expandPath(path)
	data, err := os.ReadFile(expanded)
	if err != nil {
		return nil, fmt.Errorf("failed to read font %s: %w", expanded, err)
	}
	name := strings.TrimSuffix(filepath.Base(expanded), filepath.Ext(expanded))
	return ParseFont(name, data)
}

func expandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(homeDir, path[1:])
		}
	}
	return path
}

func (f *Font) newFace(size float64) font.Face {
	return truetype.NewFace(f.parsed, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
}

// measurer caches faces per size. Faces keep glyph caches and are not safe
// for concurrent use, so each render owns its measurer.
type measurer struct {
	font  *Font
	faces map[float64]font.Face
}

func newMeasurer(f *Font) *measurer {
	return &measurer{font: f, faces: make(map[float64]font.Face)}
}

func (m *measurer) face(size float64) font.Face {
	if face, ok := m.faces[size]; ok {
		return face
	}
	face := m.font.newFace(size)
	m.faces[size] = face
	return face
}

// Width of s in points.
func (m *measurer) Width(s string, size float64) float64 {
	return fixedToFloat(font.MeasureString(m.face(size), s))
}

// Ascent above the baseline in points.
func (m *measurer) Ascent(size float64) float64 {
	return fixedToFloat(m.face(size).Metrics().Ascent)
}

// Descent below the baseline in points, positive.
func (m *measurer) Descent(size float64) float64 {
	return fixedToFloat(m.face(size).Metrics().Descent)
}

// Height is the extent of a single line of text.
func (m *measurer) Height(size float64) float64 {
	return m.Ascent(size) + m.Descent(size)
}

// centerBaseline returns the baseline that vertically centres a line on cy.
func (m *measurer) centerBaseline(cy, size float64) float64 {
	return cy + (m.Ascent(size)-m.Descent(size))/2
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
