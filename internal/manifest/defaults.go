package manifest

// Variants compared in the serial logistic regression examples.
var DefaultVariants = []string{"momentum", "nesterov", "adagrad", "adam"}

// DefaultManifest declares the figures of the getting-started and serial
// examples: two logger plots against iteration and time, and two variant grids.
func DefaultManifest() *Manifest {
	stepVsTime := func(xk, xt, y string) []PanelSpec {
		return []PanelSpec{
			{X: 0, Y: 2, XKind: "int", XLabel: xk, YLabel: y},
			{X: 1, Y: 2, XLabel: xt},
		}
	}
	variantPanel := func(x, y string) *PanelSpec {
		return &PanelSpec{X: 0, Y: 2, XKind: "int", XLabel: x, YLabel: y}
	}
	return &Manifest{Figures: []FigureSpec{
		{
			Name:   "logger",
			Input:  "logger.csv",
			ShareY: true,
			Panels: stepVsTime(`$k$`, `$t$ [ms]`, `$f(\cdot)$`),
		},
		{
			Name:   "terminator",
			Input:  "terminator.csv",
			ShareY: true,
			Panels: stepVsTime(`Iteration ($k$)`, `Time ($t$) [ms]`, `Total Loss`),
		},
		{
			Name:     "logistic",
			Variants: DefaultVariants,
			Panel:    variantPanel(`$k$`, `$f(\cdot)$`),
		},
		{
			Name:     "logistic-l1-l2",
			Variants: DefaultVariants,
			Panel:    variantPanel(`Iteration ($k$)`, `Total Loss`),
		},
	}}
}
