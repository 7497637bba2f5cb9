package charts

import (
	"math"
	"strconv"
)

type tick struct {
	Value float64
	Label string
}

// dataRange returns the padded axis limits for values. Empty data gives
// [0, 1]; a constant series is widened around its value.
func dataRange(values []float64, margin float64) (lo, hi float64) {
	if len(values) == 0 {
		return 0, 1
	}
	lo, hi = values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return padRange(lo, hi, margin)
}

// padRange widens [lo, hi] by margin. A span that is zero, or too small to
// tell apart from rounding noise at this magnitude, is treated as constant.
func padRange(lo, hi, margin float64) (float64, float64) {
	span := hi - lo
	if span <= minRelSpan*math.Max(math.Abs(lo), math.Abs(hi)) {
		mid := lo + span/2
		d := math.Abs(mid) * 0.05
		if d == 0 {
			d = 0.5
		}
		return mid - d, mid + d
	}
	return lo - span*margin, hi + span*margin
}

const (
	minRelSpan = 1e-9
	maxTicks   = 1000
)

// niceTicks picks about n ticks inside [lo, hi] with steps of 1, 2, 2.5 or 5
// times a power of ten.
func niceTicks(lo, hi float64, n int) []tick {
	if n < 2 || math.IsNaN(lo) || math.IsNaN(hi) {
		return nil
	}
	if hi <= lo {
		hi = lo + 1
	}
	span := hi - lo
	mag := math.Pow(10, math.Floor(math.Log10(span/float64(n-1))))
	bestStep := mag
	bestScore := math.MaxFloat64
	for _, c := range []float64{1, 2, 2.5, 5, 10} {
		step := c * mag
		count := math.Floor(hi/step) - math.Ceil(lo/step) + 1
		score := math.Abs(count - float64(n))
		if score < bestScore {
			bestScore = score
			bestStep = step
		}
	}

	decimals := stepDecimals(bestStep)
	first := math.Ceil(lo/bestStep - 1e-9)
	last := math.Floor(hi/bestStep + 1e-9)
	count := last - first + 1
	if math.IsNaN(count) || math.IsInf(count, 0) || count < 1 || count > maxTicks {
		return nil
	}
	ticks := make([]tick, 0, int(count))
	for k := 0; k < int(count); k++ {
		v := (first + float64(k)) * bestStep
		ticks = append(ticks, tick{Value: v, Label: formatTick(v, decimals)})
	}
	return ticks
}

// stepDecimals is the number of fractional digits needed to tell ticks apart.
func stepDecimals(step float64) int {
	for d := 0; d < 12; d++ {
		scaled := step * math.Pow(10, float64(d))
		if math.Abs(scaled-math.Round(scaled)) < 1e-6*scaled {
			return d
		}
	}
	return 12
}

func formatTick(v float64, decimals int) string {
	av := math.Abs(v)
	if av < 1e-12 {
		v = 0
	}
	if av >= 1e6 || decimals > 5 {
		return strconv.FormatFloat(v, 'g', 3, 64)
	}
	return strconv.FormatFloat(v, 'f', decimals, 64)
}
