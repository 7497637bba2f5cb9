package charts

import (
	"image/color"
	"io"
	"testing"

	"polo-charts/internal/table"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrid(t *testing.T) {
	tests := []struct {
		n, rows, cols int
	}{
		{0, 1, 1},
		{1, 1, 1},
		{2, 1, 2},
		{3, 2, 2},
		{4, 2, 2},
		{5, 2, 3},
		{9, 3, 3},
	}
	for _, tt := range tests {
		rows, cols := Grid(tt.n)
		assert.Equal(t, tt.rows, rows, "rows for %d panels", tt.n)
		assert.Equal(t, tt.cols, cols, "cols for %d panels", tt.n)
	}
}

func TestPlainLabel(t *testing.T) {
	tests := map[string]string{
		"Total Loss":           "Total Loss",
		`$k$`:                  "k",
		`$f(\cdot)$`:           "f(·)",
		`Iteration ($k$)`:      "Iteration (k)",
		`Time ($t$) [ms]`:      "Time (t) [ms]",
		`$t$ [ms]`:             "t [ms]",
		`$\|x_{k}\|^2$`:        "‖xk‖2",
		`cost \$ per $\alpha$`: "cost $ per α",
	}
	for in, want := range tests {
		assert.Equal(t, want, plainLabel(in), "label %q", in)
	}
}

func TestNiceTicks(t *testing.T) {
	ticks := niceTicks(-0.1, 2.1, 5)
	require.NotEmpty(t, ticks)

	var labels []string
	for _, tk := range ticks {
		assert.GreaterOrEqual(t, tk.Value, -0.1)
		assert.LessOrEqual(t, tk.Value, 2.1)
		labels = append(labels, tk.Label)
	}
	assert.Equal(t, []string{"0.0", "0.5", "1.0", "1.5", "2.0"}, labels)

	big := niceTicks(0, 1000, 5)
	assert.Equal(t, "0", big[0].Label)
	assert.Equal(t, "1000", big[len(big)-1].Label)

	assert.Nil(t, niceTicks(0, 1, 1))
}

func TestDataRange(t *testing.T) {
	lo, hi := dataRange(nil, 0.05)
	assert.Equal(t, 0.0, lo)
	assert.Equal(t, 1.0, hi)

	lo, hi = dataRange([]float64{0, 10}, 0.05)
	assert.InDelta(t, -0.5, lo, 1e-9)
	assert.InDelta(t, 10.5, hi, 1e-9)

	lo, hi = dataRange([]float64{2, 2}, 0.05)
	assert.Less(t, lo, 2.0)
	assert.Greater(t, hi, 2.0)

	// values one ulp apart are widened like a constant series
	lo, hi = dataRange([]float64{0.3, 0.30000000000000004}, 0.05)
	assert.InDelta(t, 0.285, lo, 1e-9)
	assert.InDelta(t, 0.315, hi, 1e-9)
}

func TestNiceTicksBounded(t *testing.T) {
	ticks := niceTicks(0.3, 0.30000000000000004, 5)
	assert.LessOrEqual(t, len(ticks), maxTicks)

	ticks = niceTicks(1e15, 1e15+1, 5)
	assert.LessOrEqual(t, len(ticks), maxTicks)

	lo, hi := dataRange([]float64{0.3, 0.30000000000000004}, 0.05)
	ticks = niceTicks(lo, hi, 5)
	require.NotEmpty(t, ticks)
	assert.LessOrEqual(t, len(ticks), 10)
	for i := 1; i < len(ticks); i++ {
		assert.Greater(t, ticks[i].Value, ticks[i-1].Value)
	}
}

type textCall struct {
	s       string
	x, y    float64
	rotated bool
}

// recordingCanvas keeps the calls made by drawFigure.
type recordingCanvas struct {
	texts     []textCall
	polylines int
	rects     int
}

func (c *recordingCanvas) SetLineStyle(LineStyle) {}
func (c *recordingCanvas) Line(x1, y1, x2, y2 float64) {}
func (c *recordingCanvas) Polyline(xs, ys []float64) { c.polylines++ }
func (c *recordingCanvas) StrokeRect(x, y, w, h float64) { c.rects++ }
func (c *recordingCanvas) Encode(io.Writer) error { return nil }
func (c *recordingCanvas) Text(s string, x, y, _ float64, _ color.RGBA, rotated bool) {
	c.texts = append(c.texts, textCall{s: s, x: x, y: y, rotated: rotated})
}

func (c *recordingCanvas) count(s string) int {
	n := 0
	for _, tc := range c.texts {
		if tc.s == s {
			n++
		}
	}
	return n
}

func fourVariantFigure() (Figure, []XY) {
	fig := VariantFigure("logistic", []string{"momentum", "nesterov", "adagrad", "adam"}, Panel{
		X:      table.Column{Index: 0, Kind: table.Int},
		Y:      table.Column{Index: 2},
		XLabel: `$k$`,
		YLabel: `$f(\cdot)$`,
	}, "")
	data := []XY{
		{X: []float64{0, 1, 2}, Y: []float64{3, 2, 1}},
		{X: []float64{0, 1, 2}, Y: []float64{4, 2, 1}},
		{X: []float64{0, 1, 2}, Y: []float64{5, 1, 0.5}},
		{X: []float64{0, 1, 2}, Y: []float64{6, 3, 0.1}},
	}
	return fig, data
}

func TestLayoutSharedY(t *testing.T) {
	fig, data := fourVariantFigure()
	m := newMeasurer(DefaultFont())
	style := DefaultStyle()

	fl := layoutFigure(fig, data, m, style, DefaultHeightIn*72)
	require.Len(t, fl.Panels, 4)
	assert.InDelta(t, fl.Width, fl.Height, 1e-9, "2x2 figures are square")

	for i, p := range fl.Panels {
		assert.Equal(t, fl.Panels[0].YMin, p.YMin, "panel %d shares y range", i)
		assert.Equal(t, fl.Panels[0].YMax, p.YMax, "panel %d shares y range", i)
		assert.Equal(t, i%2 == 0, p.ShowYTicks, "panel %d y ticks", i)
		if i%2 == 0 {
			assert.Equal(t, "f(·)", p.YLabel)
		} else {
			assert.Empty(t, p.YLabel)
		}
		assert.Equal(t, fig.Panels[i].Title, p.Title)

		// axes stay inside the figure with room for decorations
		assert.Greater(t, p.X, style.Pad)
		assert.Greater(t, p.Y, style.Pad)
		assert.Less(t, p.X+p.W, fl.Width-style.Pad)
		assert.Less(t, p.Y+p.H, fl.Height-style.Pad)
	}

	// neighbouring panels do not overlap
	assert.Less(t, fl.Panels[0].X+fl.Panels[0].W, fl.Panels[1].X)
	assert.Less(t, fl.Panels[0].Y+fl.Panels[0].H, fl.Panels[2].Y)

	rc := &recordingCanvas{}
	drawFigure(rc, fl, m)
	assert.Equal(t, 2, rc.count("f(·)"), "y label drawn once per row, on the left column")
	assert.Equal(t, 4, rc.count("k"))
	for _, v := range []string{"momentum", "nesterov", "adagrad", "adam"} {
		assert.Equal(t, 1, rc.count(v), "title %s", v)
	}
	assert.Equal(t, 4, rc.polylines)
	assert.Equal(t, 4, rc.rects)
}

func TestLayoutDecorationsFit(t *testing.T) {
	fig := Figure{
		Name:   "logger",
		Input:  "logger.csv",
		ShareY: true,
		Panels: []Panel{
			{X: table.Column{Index: 0, Kind: table.Int}, Y: table.Column{Index: 2}, XLabel: `$k$`, YLabel: `$f(\cdot)$`},
			{X: table.Column{Index: 1}, Y: table.Column{Index: 2}, XLabel: `$t$ [ms]`},
		},
	}
	data := []XY{
		{X: []float64{0, 1, 2}, Y: []float64{1000, 500, 250}},
		{X: []float64{0, 5.2, 9.9}, Y: []float64{1000, 500, 250}},
	}
	m := newMeasurer(DefaultFont())
	style := DefaultStyle()
	fl := layoutFigure(fig, data, m, style, DefaultHeightIn*72)

	assert.InDelta(t, 2*fl.Height, fl.Width, 1e-9, "1x2 figures use aspect 0.5")

	rc := &recordingCanvas{}
	drawFigure(rc, fl, m)
	for _, tc := range rc.texts {
		assert.GreaterOrEqual(t, tc.x, 0.0, "text %q clipped on the left", tc.s)
		assert.LessOrEqual(t, tc.y, fl.Height, "text %q clipped at the bottom", tc.s)
		if tc.rotated {
			assert.Greater(t, tc.x-m.Ascent(style.FontSize), 0.0, "rotated %q clipped", tc.s)
		} else {
			assert.LessOrEqual(t, tc.x+m.Width(tc.s, style.FontSize), fl.Width, "text %q clipped on the right", tc.s)
		}
	}
	assert.Equal(t, 1, rc.count("f(·)"))
}

func TestLayoutEmptySeries(t *testing.T) {
	fig := Figure{Name: "empty", Input: "x.csv", Panels: []Panel{{X: table.Column{Index: 0}, Y: table.Column{Index: 2}}}}
	m := newMeasurer(DefaultFont())
	fl := layoutFigure(fig, []XY{{X: []float64{}, Y: []float64{}}}, m, DefaultStyle(), DefaultHeightIn*72)

	p := fl.Panels[0]
	assert.Equal(t, 0.0, p.XMin)
	assert.Equal(t, 1.0, p.XMax)

	rc := &recordingCanvas{}
	drawFigure(rc, fl, m)
	assert.Equal(t, 0, rc.polylines)
	assert.Equal(t, 1, rc.rects)
}
