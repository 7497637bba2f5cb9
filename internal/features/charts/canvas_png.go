package charts

import (
	"image/color"
	"io"
	"math"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
)

// pngCanvas rasterises with gg. Coordinates arrive in points and are scaled
// to pixels here; faces are built at pixel size so glyphs are not resampled.
type pngCanvas struct {
	dc    *gg.Context
	scale float64
	font  *Font
	faces map[float64]font.Face
}

func newPNGCanvas(width, height float64, f *Font, dpi float64) *pngCanvas {
	if dpi <= 0 {
		dpi = 100
	}
	scale := dpi / 72
	dc := gg.NewContext(int(math.Ceil(width*scale)), int(math.Ceil(height*scale)))
	dc.SetColor(color.White)
	dc.Clear()
	dc.SetLineJoin(gg.LineJoinRound)
	dc.SetLineCap(gg.LineCapButt)
	return &pngCanvas{dc: dc, scale: scale, font: f, faces: make(map[float64]font.Face)}
}

func (c *pngCanvas) SetLineStyle(s LineStyle) {
	c.dc.SetColor(s.Color)
	c.dc.SetLineWidth(s.Width * c.scale)
	dashes := make([]float64, len(s.Dash))
	for i, d := range s.Dash {
		dashes[i] = d * c.scale
	}
	c.dc.SetDash(dashes...)
}

func (c *pngCanvas) Line(x1, y1, x2, y2 float64) {
	s := c.scale
	c.dc.DrawLine(x1*s, y1*s, x2*s, y2*s)
	c.dc.Stroke()
}

func (c *pngCanvas) Polyline(xs, ys []float64) {
	if len(xs) == 0 {
		return
	}
	s := c.scale
	c.dc.MoveTo(xs[0]*s, ys[0]*s)
	for i := 1; i < len(xs); i++ {
		c.dc.LineTo(xs[i]*s, ys[i]*s)
	}
	c.dc.Stroke()
}

func (c *pngCanvas) StrokeRect(x, y, w, h float64) {
	s := c.scale
	c.dc.DrawRectangle(x*s, y*s, w*s, h*s)
	c.dc.Stroke()
}

func (c *pngCanvas) Text(str string, x, y, size float64, col color.RGBA, rotated bool) {
	px := size * c.scale
	face, ok := c.faces[px]
	if !ok {
		face = c.font.newFace(px)
		c.faces[px] = face
	}
	c.dc.SetFontFace(face)
	c.dc.SetColor(col)

	x, y = x*c.scale, y*c.scale
	if rotated {
		c.dc.Push()
		c.dc.RotateAbout(gg.Radians(-90), x, y)
		c.dc.DrawString(str, x, y)
		c.dc.Pop()
		return
	}
	c.dc.DrawString(str, x, y)
}

func (c *pngCanvas) Encode(w io.Writer) error {
	return c.dc.EncodePNG(w)
}
