package charts

import "image/color"

// Style holds sizes in points and colours used when drawing a figure.
type Style struct {
	FontSize  float64
	TitleSize float64

	LineWidth float64
	AxesWidth float64
	GridWidth float64

	TickLength float64
	TickPad    float64
	LabelPad   float64
	TitlePad   float64
	// Pad separates the figure edge from decorations and panels from each other.
	Pad float64
	// Margin widens each data range by this fraction on both sides.
	Margin float64
	// Ticks is the preferred number of ticks per axis.
	Ticks int

	LineColor color.RGBA
	GridColor color.RGBA
	AxesColor color.RGBA
	TextColor color.RGBA
}

// DefaultStyle matches matplotlib's default line plot look.
func DefaultStyle() Style {
	return Style{
		FontSize:   10,
		TitleSize:  12,
		LineWidth:  1.5,
		AxesWidth:  0.8,
		GridWidth:  0.8,
		TickLength: 3.5,
		TickPad:    3.5,
		LabelPad:   4,
		TitlePad:   6,
		Pad:        10.8,
		Margin:     0.05,
		Ticks:      5,
		LineColor:  color.RGBA{0x1f, 0x77, 0xb4, 0xff},
		GridColor:  color.RGBA{0xb0, 0xb0, 0xb0, 0xff},
		AxesColor:  color.RGBA{0x00, 0x00, 0x00, 0xff},
		TextColor:  color.RGBA{0x00, 0x00, 0x00, 0xff},
	}
}

func (s Style) withDefaults() Style {
	d := DefaultStyle()
	if s.FontSize <= 0 {
		s.FontSize = d.FontSize
	}
	if s.TitleSize <= 0 {
		s.TitleSize = s.FontSize * d.TitleSize / d.FontSize
	}
	if s.LineWidth <= 0 {
		s.LineWidth = d.LineWidth
	}
	if s.AxesWidth <= 0 {
		s.AxesWidth = d.AxesWidth
	}
	if s.GridWidth <= 0 {
		s.GridWidth = d.GridWidth
	}
	if s.TickLength <= 0 {
		s.TickLength = d.TickLength
	}
	if s.TickPad <= 0 {
		s.TickPad = d.TickPad
	}
	if s.LabelPad <= 0 {
		s.LabelPad = d.LabelPad
	}
	if s.TitlePad <= 0 {
		s.TitlePad = d.TitlePad
	}
	if s.Pad <= 0 {
		s.Pad = d.Pad
	}
	if s.Margin < 0 {
		s.Margin = d.Margin
	}
	if s.Ticks < 2 {
		s.Ticks = d.Ticks
	}
	if s.LineColor.A == 0 {
		s.LineColor = d.LineColor
	}
	if s.GridColor.A == 0 {
		s.GridColor = d.GridColor
	}
	if s.AxesColor.A == 0 {
		s.AxesColor = d.AxesColor
	}
	if s.TextColor.A == 0 {
		s.TextColor = d.TextColor
	}
	return s
}
