package charts

// drawFigure paints a laid-out figure onto c.
func drawFigure(c Canvas, fl *figureLayout, m *measurer) {
	for i := range fl.Panels {
		drawPanel(c, &fl.Panels[i], fl.Style, m)
	}
}

func drawPanel(c Canvas, p *panelLayout, s Style, m *measurer) {
	// grid below the data
	c.SetLineStyle(LineStyle{Color: s.GridColor, Width: s.GridWidth})
	for _, tk := range p.XTicks {
		x := p.mapX(tk.Value)
		c.Line(x, p.Y, x, p.Y+p.H)
	}
	for _, tk := range p.YTicks {
		y := p.mapY(tk.Value)
		c.Line(p.X, y, p.X+p.W, y)
	}

	if n := len(p.Data.X); n > 0 {
		xs := make([]float64, n)
		ys := make([]float64, n)
		for i := 0; i < n; i++ {
			xs[i] = p.mapX(p.Data.X[i])
			ys[i] = p.mapY(p.Data.Y[i])
		}
		c.SetLineStyle(LineStyle{Color: s.LineColor, Width: s.LineWidth})
		c.Polyline(xs, ys)
	}

	c.SetLineStyle(LineStyle{Color: s.AxesColor, Width: s.AxesWidth})
	c.StrokeRect(p.X, p.Y, p.W, p.H)

	bottom := p.Y + p.H
	for _, tk := range p.XTicks {
		x := p.mapX(tk.Value)
		c.Line(x, bottom, x, bottom+s.TickLength)
	}
	for _, tk := range p.YTicks {
		y := p.mapY(tk.Value)
		c.Line(p.X-s.TickLength, y, p.X, y)
	}

	fs := s.FontSize
	lineH := m.Height(fs)
	ascent := m.Ascent(fs)

	labelTop := bottom + s.TickLength + s.TickPad
	for _, tk := range p.XTicks {
		w := m.Width(tk.Label, fs)
		c.Text(tk.Label, p.mapX(tk.Value)-w/2, labelTop+ascent, fs, s.TextColor, false)
	}

	yLabelRight := p.X
	if p.ShowYTicks && len(p.YTicks) > 0 {
		widest := 0.0
		right := p.X - s.TickLength - s.TickPad
		for _, tk := range p.YTicks {
			w := m.Width(tk.Label, fs)
			if w > widest {
				widest = w
			}
			c.Text(tk.Label, right-w, m.centerBaseline(p.mapY(tk.Value), fs), fs, s.TextColor, false)
		}
		yLabelRight = right - widest
	}

	if p.XLabel != "" {
		w := m.Width(p.XLabel, fs)
		top := bottom
		if len(p.XTicks) > 0 {
			top = labelTop + lineH
		}
		c.Text(p.XLabel, p.X+(p.W-w)/2, top+s.LabelPad+ascent, fs, s.TextColor, false)
	}

	if p.YLabel != "" {
		// rotated: the baseline runs upward, glyphs extend to its left by the ascent
		w := m.Width(p.YLabel, fs)
		baseX := yLabelRight - s.LabelPad - m.Descent(fs)
		c.Text(p.YLabel, baseX, p.Y+(p.H+w)/2, fs, s.TextColor, true)
	}

	if p.Title != "" {
		ts := s.TitleSize
		w := m.Width(p.Title, ts)
		c.Text(p.Title, p.X+(p.W-w)/2, p.Y-s.TitlePad-m.Descent(ts), ts, s.TextColor, false)
	}
}
