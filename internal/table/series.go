package table

// Standard column layout written by the optimizer loggers.
const (
	ColStep    = 0 // k, iteration index
	ColElapsed = 1 // t, wall time in milliseconds
	ColValue   = 2 // f, loss or objective value
)

// LoggerColumns are the three columns of a logger file with their kinds.
var LoggerColumns = []Column{
	{Index: ColStep, Kind: Int},
	{Index: ColElapsed, Kind: Float},
	{Index: ColValue, Kind: Float},
}

// Series is a logger file as three parallel sequences of equal length.
type Series struct {
	K []int
	T []float64
	F []float64
}

// Len is the number of samples.
func (s Series) Len() int { return len(s.K) }

// LoadSeries reads a logger file (step, elapsed ms, value).
func LoadSeries(path string) (Series, error) {
	t, err := Load(path, LoggerColumns)
	if err != nil {
		return Series{}, err
	}
	return SeriesOf(t), nil
}

// SeriesOf extracts the logger columns from a table read with LoggerColumns.
func SeriesOf(t *Table) Series {
	return Series{
		K: t.Ints(ColStep),
		T: t.Column(ColElapsed),
		F: t.Column(ColValue),
	}
}
