package table

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRead(t *testing.T) {
	t.Run("LoggerScenario", func(t *testing.T) {
		tbl, err := Read(strings.NewReader("k,t,f\n0,0.0,1.0\n1,5.2,0.5\n2,9.9,0.25\n"), LoggerColumns)
		require.NoError(t, err)

		assert.Equal(t, []string{"k", "t", "f"}, tbl.Header)
		assert.Equal(t, 3, tbl.Len())
		assert.Equal(t, []int{0, 1, 2}, tbl.Ints(ColStep))
		assert.Equal(t, []float64{0.0, 5.2, 9.9}, tbl.Column(ColElapsed))
		assert.Equal(t, []float64{1.0, 0.5, 0.25}, tbl.Column(ColValue))
	})

	t.Run("HeaderOnly", func(t *testing.T) {
		tbl, err := Read(strings.NewReader("k,t,f\n"), LoggerColumns)
		require.NoError(t, err)
		assert.Equal(t, 0, tbl.Len())
		assert.Empty(t, tbl.Column(ColValue))
		assert.NotNil(t, tbl.Column(ColValue))
	})

	t.Run("EmptyInput", func(t *testing.T) {
		_, err := Read(strings.NewReader(""), LoggerColumns)
		assert.ErrorIs(t, err, ErrNoHeader)
	})

	t.Run("ExtraColumnsAndSpaces", func(t *testing.T) {
		tbl, err := Read(strings.NewReader("k, t, f, extra\n0, 1.5, 2.5, x\n\n1, 2.5, 3.5, y\n"), LoggerColumns)
		require.NoError(t, err)
		assert.Equal(t, 2, tbl.Len())
		assert.Equal(t, []float64{2.5, 3.5}, tbl.Column(ColValue))
	})

	t.Run("UnrequestedColumn", func(t *testing.T) {
		tbl, err := Read(strings.NewReader("a,b\n1,2\n"), []Column{{Index: 1}})
		require.NoError(t, err)
		assert.Nil(t, tbl.Column(0))
		assert.Nil(t, tbl.Ints(0))
	})

	t.Run("RepeatedColumn", func(t *testing.T) {
		tbl, err := Read(strings.NewReader("a,b\n1,2\n3,4\n"), []Column{{Index: 0}, {Index: 0, Kind: Int}})
		require.NoError(t, err)
		assert.Equal(t, []float64{1, 3}, tbl.Column(0))
	})
}

func TestReadMalformed(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		line   int
		column int
	}{
		{"NonNumericValue", "k,t,f\n0,0.0,1.0\n1,5.2,abc\n", 3, 2},
		{"FloatInIntColumn", "k,t,f\n0.5,0.0,1.0\n", 2, 0},
		{"MissingField", "k,t,f\n0,0.0\n", 2, 2},
		{"EmptyField", "k,t,f\n0,,1\n", 2, 1},
		{"NotFinite", "k,t,f\n0,0,NaN\n", 2, 2},
		{"BareQuote", "k,t,f\n0,\"1,2\n", 2, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.input), LoggerColumns)
			require.Error(t, err)

			var mre *MalformedRowError
			require.True(t, errors.As(err, &mre), "expected MalformedRowError, got %T: %v", err, err)
			assert.Equal(t, tt.column, mre.Column)
			if tt.column >= 0 {
				assert.Equal(t, tt.line, mre.Line)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	t.Run("Missing", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.csv"), LoggerColumns)
		assert.ErrorIs(t, err, ErrInputNotFound)
	})

	t.Run("MalformedCarriesPath", func(t *testing.T) {
		path := writeFile(t, "bad.csv", "k,t,f\nx,1,2\n")
		_, err := Load(path, LoggerColumns)

		var mre *MalformedRowError
		require.True(t, errors.As(err, &mre))
		assert.Equal(t, path, mre.Path)
		assert.Contains(t, err.Error(), path+":2")
	})

	t.Run("SeriesLengthsMatchRows", func(t *testing.T) {
		var b strings.Builder
		b.WriteString("k,t,f\n")
		for i := 0; i < 50; i++ {
			b.WriteString(strings.Join([]string{strconv.Itoa(i), strconv.Itoa(i * 3), strconv.Itoa(100 - i)}, ","))
			b.WriteString("\n")
		}
		s, err := LoadSeries(writeFile(t, "log.csv", b.String()))
		require.NoError(t, err)

		assert.Equal(t, 50, s.Len())
		assert.Len(t, s.T, 50)
		assert.Len(t, s.F, 50)
		for i := range s.K {
			assert.Equal(t, i, s.K[i])
			assert.Equal(t, float64(100-i), s.F[i])
		}
	})
}

func TestLoadWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"k", "t", "f"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{0, 0.0, 1.0}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]interface{}{1, 5.2, 0.5}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	s, err := LoadSeries(path)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, s.K)
	assert.Equal(t, []float64{1.0, 0.5}, s.F)
}

func TestLoadWorkbookMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "none.xlsx"), LoggerColumns)
	assert.ErrorIs(t, err, ErrInputNotFound)
}

func TestParseKind(t *testing.T) {
	for in, want := range map[string]Kind{"": Float, "float": Float, " INT ": Int} {
		got, err := ParseKind(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseKind("complex")
	assert.Error(t, err)
}

func TestReadLargeStepIndexes(t *testing.T) {
	// 2^53+1 is not representable as float64
	in := "k,t,f\n9007199254740993,0.5,1.0\n9007199254740994,1.0,0.5\n"
	tbl, err := Read(strings.NewReader(in), LoggerColumns)
	require.NoError(t, err)

	assert.Equal(t, []int64{9007199254740993, 9007199254740994}, tbl.Int64s(ColStep))
	assert.Nil(t, tbl.Int64s(ColValue))
	assert.Len(t, tbl.Column(ColStep), 2)
}
