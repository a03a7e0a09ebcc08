package agg

import (
	"math"

	"golang.org/x/exp/constraints"
)

type Number interface {
	constraints.Integer | constraints.Float
}

// Sum aggregates by addition. Identity is zero.
type Sum[T Number] struct{}

func (Sum[T]) Identity() T {
	var zero T
	return zero
}

func (Sum[T]) Combine(a, b T) T { return a + b }

// Max aggregates to the largest value seen. Lowest is the identity and must
// compare less than or equal to every value pushed (e.g. math.MinInt64).
type Max[T constraints.Ordered] struct {
	Lowest T
}

func MaxInt64() Max[int64] { return Max[int64]{Lowest: math.MinInt64} }
func MaxFloat64() Max[float64] { return Max[float64]{Lowest: math.Inf(-1)} }

func (m Max[T]) Identity() T { return m.Lowest }

func (Max[T]) Combine(a, b T) T {
	if a > b {
		return a
	}
	return b
}

// Min is the mirror of Max; Greatest is the identity.
type Min[T constraints.Ordered] struct {
	Greatest T
}

func MinInt64() Min[int64] { return Min[int64]{Greatest: math.MaxInt64} }
func MinFloat64() Min[float64] { return Min[float64]{Greatest: math.Inf(1)} }

func (m Min[T]) Identity() T { return m.Greatest }

func (Min[T]) Combine(a, b T) T {
	if a < b {
		return a
	}
	return b
}

// Concat joins strings in window order. Associative but not commutative,
// which makes it useful for catching ordering mistakes.
type Concat struct{}

func (Concat) Identity() string { return "" }
func (Concat) Combine(a, b string) string { return a + b }
