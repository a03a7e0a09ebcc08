package window

import (
	"math"
	"math/rand"
	"strconv"
	"testing"

	"github.com/gammazero/deque"
	"github.com/minor-industries/streamagg/agg"
	"github.com/stretchr/testify/require"
)

var allAlgorithms = []Algorithm{
	AlgoReCalc,
	AlgoTwoStacks,
	AlgoDABA,
	AlgoSoE,
	AlgoReactive,
}

func newSumWindow(t *testing.T, algo Algorithm) FifoWindow[int64] {
	t.Helper()
	w, err := New[int64](algo, agg.Sum[int64]{})
	require.NoError(t, err)
	return w
}

func synthesize(rng *rand.Rand, size int) []int64 {
	values := make([]int64, size)
	for i := range values {
		values[i] = int64(rng.Intn(4)) + 1 // [1, 5)
	}
	return values
}

func foldSum(values []int64) int64 {
	var sum int64
	for _, v := range values {
		sum += v
	}
	return sum
}

func TestEmptyWindowIdentity(t *testing.T) {
	for _, algo := range allAlgorithms {
		t.Run(string(algo), func(t *testing.T) {
			require.Equal(t, int64(0), newSumWindow(t, algo).Query())

			w, err := New[int64](algo, agg.MaxInt64())
			require.NoError(t, err)
			require.Equal(t, int64(math.MinInt64), w.Query())
		})
	}
}

func TestBasicSum(t *testing.T) {
	for _, algo := range allAlgorithms {
		t.Run(string(algo), func(t *testing.T) {
			w := newSumWindow(t, algo)

			require.Equal(t, int64(0), w.Query())

			w.Push(1)
			require.Equal(t, int64(1), w.Query())

			w.Push(2)
			require.Equal(t, int64(3), w.Query())

			w.Push(3)
			require.Equal(t, int64(6), w.Query())
			require.Equal(t, 3, w.Len())

			w.Pop()
			require.Equal(t, int64(5), w.Query())
			require.Equal(t, 2, w.Len())
		})
	}
}

func TestPushPopRegression(t *testing.T) {
	// push 1,2,3; pop; push 4; push 5 once tripped the stack transfer
	// bookkeeping in the original implementation.
	for _, algo := range allAlgorithms {
		t.Run(string(algo), func(t *testing.T) {
			w := newSumWindow(t, algo)
			w.Push(1)
			w.Push(2)
			w.Push(3)
			w.Pop()
			w.Push(4)
			w.Push(5)
			require.Equal(t, int64(14), w.Query())
		})
	}
}

func TestOverPop(t *testing.T) {
	for _, algo := range allAlgorithms {
		t.Run(string(algo), func(t *testing.T) {
			w := newSumWindow(t, algo)
			w.Push(0)
			w.Push(0)
			w.Pop()
			w.Pop()
			w.Pop()
			w.Pop()
			require.Equal(t, int64(0), w.Query())
			require.Equal(t, 0, w.Len())

			// still usable after over-popping
			w.Push(7)
			require.Equal(t, int64(7), w.Query())
		})
	}
}

func TestRandomSumRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	values := synthesize(rng, 1000)
	sum := foldSum(values)

	for _, algo := range allAlgorithms {
		t.Run(string(algo), func(t *testing.T) {
			w := newSumWindow(t, algo)
			for _, v := range values {
				w.Push(v)
			}
			require.Equal(t, sum, w.Query())

			for range values {
				w.Pop()
			}
			require.Equal(t, int64(0), w.Query())
		})
	}
}

func TestRandomMax(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	values := synthesize(rng, 1000)

	expected := int64(math.MinInt64)
	for _, v := range values {
		if v > expected {
			expected = v
		}
	}

	for _, algo := range allAlgorithms {
		t.Run(string(algo), func(t *testing.T) {
			w, err := New[int64](algo, agg.MaxInt64())
			require.NoError(t, err)

			for _, v := range values {
				w.Push(v)
			}
			require.Equal(t, expected, w.Query())

			for range values {
				w.Pop()
			}
			require.Equal(t, int64(math.MinInt64), w.Query())
		})
	}
}

func TestSteadyStateChurn(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	values := synthesize(rng, 1000)
	sum := foldSum(values)

	for _, algo := range allAlgorithms {
		t.Run(string(algo), func(t *testing.T) {
			w := newSumWindow(t, algo)
			for _, v := range values {
				w.Push(v)
			}

			// push/pop/query at a steady window size; each cycle replaces
			// the oldest element with an equal newest one
			for i, v := range values {
				w.Push(v)
				w.Pop()
				w.Query()
				require.Equal(t, sum, w.Query(), "cycle %d", i)
			}
		})
	}
}

func TestRandomWorkloadAgainstReference(t *testing.T) {
	op := agg.Sum[int64]{}

	for _, algo := range allAlgorithms {
		t.Run(string(algo), func(t *testing.T) {
			rng := rand.New(rand.NewSource(4))
			w := newSumWindow(t, algo)
			ref := deque.New[int64]()

			for i := 0; i < 1000; i++ {
				if ref.Len() == 0 || rng.Intn(2) == 0 {
					v := int64(rng.Intn(100))
					ref.PushBack(v)
					w.Push(v)
				} else {
					ref.PopFront()
					w.Pop()
				}

				expected := op.Identity()
				for j := 0; j < ref.Len(); j++ {
					expected = op.Combine(expected, ref.At(j))
				}
				require.Equal(t, expected, w.Query(), "op %d", i)
				require.Equal(t, ref.Len(), w.Len(), "op %d", i)
			}
		})
	}
}

// TestConcatOrdering runs a non-commutative operator through a churny
// workload; any algorithm that combines segments in the wrong order fails
// here even though the numeric tests pass.
func TestConcatOrdering(t *testing.T) {
	for _, algo := range allAlgorithms {
		t.Run(string(algo), func(t *testing.T) {
			rng := rand.New(rand.NewSource(5))
			w, err := New[string](algo, agg.Concat{})
			require.NoError(t, err)
			ref := deque.New[string]()

			next := 0
			for i := 0; i < 500; i++ {
				if ref.Len() == 0 || rng.Intn(3) > 0 {
					v := strconv.Itoa(next) + "."
					next++
					ref.PushBack(v)
					w.Push(v)
				} else {
					ref.PopFront()
					w.Pop()
				}

				expected := ""
				for j := 0; j < ref.Len(); j++ {
					expected += ref.At(j)
				}
				require.Equal(t, expected, w.Query(), "op %d", i)
			}
		})
	}
}

func TestQueryHasNoSideEffects(t *testing.T) {
	for _, algo := range allAlgorithms {
		t.Run(string(algo), func(t *testing.T) {
			w := newSumWindow(t, algo)
			w.Push(3)
			w.Push(4)
			for i := 0; i < 10; i++ {
				require.Equal(t, int64(7), w.Query())
			}
		})
	}
}

func TestNewUnknownAlgorithm(t *testing.T) {
	_, err := New[int64]("bogus", agg.Sum[int64]{})
	require.Error(t, err)

	names := Algorithms()
	for _, algo := range allAlgorithms {
		require.True(t, names.Has(algo))
	}
	require.False(t, names.Has("bogus"))
}
