package charts

import (
	"bytes"
	"fmt"
	"image/color"
	"io"
	"math"
	"strings"

	svg "github.com/ajstarks/svgo"
)

// svgScale subdivides a point so integer svgo coordinates keep 0.1pt precision.
const svgScale = 10

type svgCanvas struct {
	buf    bytes.Buffer
	doc    *svg.SVG
	family string
	stroke string
}

func newSVGCanvas(width, height float64, f *Font, meta Metadata) *svgCanvas {
	c := &svgCanvas{family: fmt.Sprintf("'%s', sans-serif", f.Name)}
	c.doc = svg.New(&c.buf)
	w, h := u(width), u(height)
	c.doc.Startunit(int(math.Ceil(width)), int(math.Ceil(height)), "pt",
		fmt.Sprintf(`viewBox="0 0 %d %d"`, w, h))
	if meta.Title != "" {
		c.doc.Title(meta.Title)
	}
	if meta.Author != "" || meta.Subject != "" {
		c.doc.Desc(strings.TrimSpace(meta.Subject + " " + meta.Author))
	}
	c.doc.Rect(0, 0, w, h, "fill:#ffffff;stroke:none")
	return c
}

func u(v float64) int {
	return int(math.Round(v * svgScale))
}

func (c *svgCanvas) SetLineStyle(s LineStyle) {
	style := fmt.Sprintf("fill:none;stroke:%s;stroke-width:%d;stroke-linejoin:round;stroke-linecap:butt", hexColor(s.Color), u(s.Width))
	if len(s.Dash) > 0 {
		parts := make([]string, len(s.Dash))
		for i, d := range s.Dash {
			parts[i] = fmt.Sprint(u(d))
		}
		style += ";stroke-dasharray:" + strings.Join(parts, ",")
	}
	c.stroke = style
}

func (c *svgCanvas) Line(x1, y1, x2, y2 float64) {
	c.doc.Line(u(x1), u(y1), u(x2), u(y2), c.stroke)
}

func (c *svgCanvas) Polyline(xs, ys []float64) {
	if len(xs) == 0 {
		return
	}
	px := make([]int, len(xs))
	py := make([]int, len(ys))
	for i := range xs {
		px[i] = u(xs[i])
		py[i] = u(ys[i])
	}
	c.doc.Polyline(px, py, c.stroke)
}

func (c *svgCanvas) StrokeRect(x, y, w, h float64) {
	c.doc.Rect(u(x), u(y), u(w), u(h), c.stroke)
}

func (c *svgCanvas) Text(s string, x, y, size float64, col color.RGBA, rotated bool) {
	style := fmt.Sprintf("font-family:%s;font-size:%dpx;fill:%s", c.family, u(size), hexColor(col))
	if rotated {
		c.doc.Text(u(x), u(y), s, style, fmt.Sprintf(`transform="rotate(-90 %d %d)"`, u(x), u(y)))
		return
	}
	c.doc.Text(u(x), u(y), s, style)
}

func (c *svgCanvas) Encode(w io.Writer) error {
	c.doc.End()
	_, err := w.Write(c.buf.Bytes())
	return err
}
