package stream

import (
	"testing"
	"time"

	"github.com/minor-industries/streamagg/schema"
	"github.com/stretchr/testify/require"
)

func samples(values ...float64) []schema.Value {
	t0 := time.Unix(1700000000, 0)
	result := make([]schema.Value, len(values))
	for i, v := range values {
		result[i] = schema.Value{
			Timestamp: t0.Add(time.Duration(i) * time.Second),
			Value:     v,
		}
	}
	return result
}

func outValues(t *testing.T, op Operator, in []schema.Value) []float64 {
	t.Helper()
	out := op.ProcessNewValues(in)
	result := make([]float64, len(out))
	for i, v := range out {
		result[i] = v.Value
	}
	return result
}

func TestParseIdentity(t *testing.T) {
	series, op, err := NewParser().Parse("hr")
	require.NoError(t, err)
	require.Equal(t, "hr", series)
	require.IsType(t, Identity{}, op)
}

func TestParseSum(t *testing.T) {
	series, op, err := NewParser().Parse("hr | sum 3")
	require.NoError(t, err)
	require.Equal(t, "hr", series)
	require.Equal(t, 3, op.(WindowSized).WindowSize())

	require.Equal(t,
		[]float64{1, 3, 6, 9, 12},
		outValues(t, op, samples(1, 2, 3, 4, 5)))
}

func TestParseMaxWithAlgorithm(t *testing.T) {
	for _, algo := range []string{"recalc", "twostacks", "daba", "soe", "reactive"} {
		_, op, err := NewParser().Parse("hr | max 2 " + algo)
		require.NoError(t, err)
		require.Equal(t,
			[]float64{5, 5, 1, 4, 4},
			outValues(t, op, samples(5, 1, 1, 4, 2)))
	}
}

func TestParseAvg(t *testing.T) {
	_, op, err := NewParser().Parse("hr | avg 2")
	require.NoError(t, err)
	require.Equal(t,
		[]float64{2, 3, 5},
		outValues(t, op, samples(2, 4, 6)))
}

func TestParseChain(t *testing.T) {
	_, op, err := NewParser().Parse("hr | sum 2 | gt 5 | add 1")
	require.NoError(t, err)
	// sums: 1, 3, 7, 9 -> gt 5 keeps 7, 9 -> add 1
	require.Equal(t,
		[]float64{8, 10},
		outValues(t, op, samples(1, 2, 5, 4)))
}

func TestParseErrors(t *testing.T) {
	parser := NewParser()

	for _, bad := range []string{
		"",
		"a b",
		"hr | frobnicate 3",
		"hr | sum",
		"hr | sum x",
		"hr | sum 0",
		"hr | sum 3 bogus",
		"hr | gt",
	} {
		_, _, err := parser.Parse(bad)
		require.Error(t, err, "input %q", bad)
	}
}
