package charts

import (
	"math"

	logging "polo-charts/internal/infra/log"

	"go.uber.org/zap"
)

// XY is the pair of series bound to one panel.
type XY struct {
	X []float64
	Y []float64
}

type panelLayout struct {
	// axes box, top-left origin
	X, Y, W, H float64

	XMin, XMax float64
	YMin, YMax float64
	XTicks     []tick
	YTicks     []tick

	XLabel     string
	YLabel     string
	Title      string
	ShowYTicks bool

	Data XY
}

// mapX converts a data value to a canvas coordinate.
func (p *panelLayout) mapX(v float64) float64 {
	return p.X + (v-p.XMin)/(p.XMax-p.XMin)*p.W
}

func (p *panelLayout) mapY(v float64) float64 {
	return p.Y + p.H - (v-p.YMin)/(p.YMax-p.YMin)*p.H
}

type figureLayout struct {
	Width  float64
	Height float64
	Style  Style
	Panels []panelLayout
}

// minAxesSize keeps a panel drawable when decorations would eat the whole cell.
const minAxesSize = 24.0

// layoutFigure places every panel so that tick labels, axis labels and titles
// fit without overlapping: each grid column gets the widest left and right
// decorations of its panels, each row the tallest top and bottom ones, and
// the remaining space is split evenly between the axes.
func layoutFigure(fig Figure, data []XY, m *measurer, style Style, heightPt float64) *figureLayout {
	rows, cols := fig.grid()
	fl := &figureLayout{
		Width:  heightPt * float64(cols) / float64(rows),
		Height: heightPt,
		Style:  style,
		Panels: make([]panelLayout, len(fig.Panels)),
	}

	var sharedYMin, sharedYMax float64
	sharedYLabel := ""
	if fig.ShareY {
		var all []float64
		for _, d := range data {
			all = append(all, d.Y...)
		}
		sharedYMin, sharedYMax = dataRange(all, style.Margin)
		for _, p := range fig.Panels {
			if p.YLabel != "" {
				sharedYLabel = p.YLabel
				break
			}
		}
	}

	left := make([]float64, cols)
	right := make([]float64, cols)
	top := make([]float64, rows)
	bottom := make([]float64, rows)

	lineH := m.Height(style.FontSize)
	for i, p := range fig.Panels {
		row, col := i/cols, i%cols
		pl := &fl.Panels[i]
		pl.Data = data[i]
		pl.XMin, pl.XMax = dataRange(data[i].X, style.Margin)
		pl.XLabel = plainLabel(p.XLabel)
		pl.Title = plainLabel(p.Title)

		if fig.ShareY {
			pl.YMin, pl.YMax = sharedYMin, sharedYMax
			pl.ShowYTicks = col == 0
			if col == 0 {
				label := p.YLabel
				if label == "" {
					label = sharedYLabel
				}
				pl.YLabel = plainLabel(label)
			}
		} else {
			pl.YMin, pl.YMax = dataRange(data[i].Y, style.Margin)
			pl.ShowYTicks = true
			pl.YLabel = plainLabel(p.YLabel)
		}
		pl.XTicks = niceTicks(pl.XMin, pl.XMax, style.Ticks)
		pl.YTicks = niceTicks(pl.YMin, pl.YMax, style.Ticks)

		var l, r, t, b float64
		if pl.ShowYTicks && len(pl.YTicks) > 0 {
			widest := 0.0
			for _, tk := range pl.YTicks {
				widest = math.Max(widest, m.Width(tk.Label, style.FontSize))
			}
			l = style.TickLength + style.TickPad + widest
			t = lineH / 2
		} else if len(pl.YTicks) > 0 {
			l = style.TickLength
		}
		if pl.YLabel != "" {
			l += style.LabelPad + lineH
		}
		if n := len(pl.XTicks); n > 0 {
			b = style.TickLength + style.TickPad + lineH
			l = math.Max(l, m.Width(pl.XTicks[0].Label, style.FontSize)/2)
			r = m.Width(pl.XTicks[n-1].Label, style.FontSize) / 2
		}
		if pl.XLabel != "" {
			b += style.LabelPad + lineH
		}
		if pl.Title != "" {
			t = math.Max(t, style.TitlePad+m.Height(style.TitleSize))
		}

		left[col] = math.Max(left[col], l)
		right[col] = math.Max(right[col], r)
		top[row] = math.Max(top[row], t)
		bottom[row] = math.Max(bottom[row], b)
	}

	pad := style.Pad
	axesW := (fl.Width - 2*pad - sum(left) - sum(right) - float64(cols-1)*pad) / float64(cols)
	axesH := (fl.Height - 2*pad - sum(top) - sum(bottom) - float64(rows-1)*pad) / float64(rows)
	if axesW < minAxesSize || axesH < minAxesSize {
		logging.LogWarn("Figure too small for its decorations, axes clamped",
			zap.String("figure", fig.Name),
			zap.Float64("axes_width", axesW),
			zap.Float64("axes_height", axesH))
		axesW = math.Max(axesW, minAxesSize)
		axesH = math.Max(axesH, minAxesSize)
	}

	colX := make([]float64, cols)
	x := pad
	for c := 0; c < cols; c++ {
		x += left[c]
		colX[c] = x
		x += axesW + right[c] + pad
	}
	rowY := make([]float64, rows)
	y := pad
	for r := 0; r < rows; r++ {
		y += top[r]
		rowY[r] = y
		y += axesH + bottom[r] + pad
	}

	for i := range fl.Panels {
		pl := &fl.Panels[i]
		pl.X, pl.Y = colX[i%cols], rowY[i/cols]
		pl.W, pl.H = axesW, axesH
	}

	logging.LogDebug("Figure layout computed",
		zap.String("figure", fig.Name),
		zap.Int("rows", rows),
		zap.Int("cols", cols),
		zap.Float64("width_pt", fl.Width),
		zap.Float64("height_pt", fl.Height),
		zap.Float64("axes_width", axesW),
		zap.Float64("axes_height", axesH))

	return fl
}

func sum(vals []float64) float64 {
	total := 0.0
	for _, v := range vals {
		total += v
	}
	return total
}
