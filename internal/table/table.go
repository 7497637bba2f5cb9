// Package table reads delimited numeric logs: one header line followed by
// rows whose designated columns are parsed as integers or floats.
package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Kind selects how a column is parsed.
type Kind int

const (
	Float Kind = iota
	Int
)

func (k Kind) String() string {
	if k == Int {
		return "int"
	}
	return "float"
}

// ParseKind accepts "int" or "float"; empty means float.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "float":
		return Float, nil
	case "int":
		return Int, nil
	}
	return Float, fmt.Errorf("unknown column kind %q", s)
}

// Column designates one input column by zero-based index.
type Column struct {
	Index int
	Kind  Kind
}

// Table holds the parsed values of the requested columns, in file order.
// Every column is available as float64 for plotting; Int columns also keep
// their exact int64 values.
type Table struct {
	Header []string
	rows   int
	cols   map[int][]float64
	ints   map[int][]int64
}

// Len is the number of data rows.
func (t *Table) Len() int { return t.rows }

// Column returns the values of column i, or nil if it was not requested.
func (t *Table) Column(i int) []float64 { return t.cols[i] }

// Ints returns column i as integers. Int columns are returned exactly; a
// Float column is truncated.
func (t *Table) Ints(i int) []int {
	if exact, ok := t.ints[i]; ok {
		out := make([]int, len(exact))
		for j, v := range exact {
			out[j] = int(v)
		}
		return out
	}
	vals := t.cols[i]
	if vals == nil {
		return nil
	}
	out := make([]int, len(vals))
	for j, v := range vals {
		out[j] = int(v)
	}
	return out
}

// Int64s returns the exact values of Int column i, or nil for other columns.
func (t *Table) Int64s(i int) []int64 { return t.ints[i] }

// Load opens path and reads it with Read. Files ending in .xlsx are read from
// their first worksheet.
func Load(path string, cols []Column) (*Table, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return loadWorkbook(path, cols)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInputNotFound, path, err)
	}
	defer f.Close()

	t, err := Read(f, cols)
	if err != nil {
		var mre *MalformedRowError
		if errors.As(err, &mre) {
			mre.Path = path
		}
		return nil, err
	}
	return t, nil
}

// Read consumes a header line and then every data row of r.
// Extra columns are ignored; blank lines are skipped.
func Read(r io.Reader, cols []Column) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, malformedFromCSV(err)
	}

	cols = uniqueColumns(cols)
	t := newTable(append([]string(nil), header...), cols)
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, malformedFromCSV(err)
		}
		line, _ := cr.FieldPos(0)
		if err := t.appendRow(record, cols, line); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// uniqueColumns drops repeated indexes; a column requested as Int anywhere is parsed as Int.
func uniqueColumns(cols []Column) []Column {
	out := make([]Column, 0, len(cols))
	pos := make(map[int]int, len(cols))
	for _, c := range cols {
		if i, ok := pos[c.Index]; ok {
			if c.Kind == Int {
				out[i].Kind = Int
			}
			continue
		}
		pos[c.Index] = len(out)
		out = append(out, c)
	}
	return out
}

func newTable(header []string, cols []Column) *Table {
	t := &Table{Header: header, cols: make(map[int][]float64, len(cols)), ints: make(map[int][]int64)}
	for _, c := range cols {
		t.cols[c.Index] = []float64{}
		if c.Kind == Int {
			t.ints[c.Index] = []int64{}
		}
	}
	return t
}

// appendRow parses every requested column before storing any of them so a
// failing row leaves the table unchanged.
func (t *Table) appendRow(record []string, cols []Column, line int) error {
	values := make([]float64, len(cols))
	exact := make([]int64, len(cols))
	for i, c := range cols {
		if c.Index < 0 || c.Index >= len(record) {
			return &MalformedRowError{Line: line, Column: c.Index, Err: errMissingField}
		}
		raw := strings.TrimSpace(record[c.Index])
		v, n, err := parseValue(raw, c.Kind)
		if err != nil {
			return &MalformedRowError{Line: line, Column: c.Index, Value: raw, Err: err}
		}
		values[i], exact[i] = v, n
	}
	for i, c := range cols {
		t.cols[c.Index] = append(t.cols[c.Index], values[i])
		if c.Kind == Int {
			t.ints[c.Index] = append(t.ints[c.Index], exact[i])
		}
	}
	t.rows++
	return nil
}

// parseValue returns the plotting value and, for Int columns, the exact integer.
func parseValue(raw string, kind Kind) (float64, int64, error) {
	if kind == Int {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return 0, 0, err
		}
		return float64(n), n, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, 0, fmt.Errorf("non-finite value %q", raw)
	}
	return v, 0, nil
}

func malformedFromCSV(err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &MalformedRowError{Line: pe.Line, Column: -1, Err: pe.Err}
	}
	return fmt.Errorf("failed to read input: %w", err)
}
