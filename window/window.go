package window

import (
	"github.com/chrispappas/golang-generics-set/set"
	"github.com/minor-industries/streamagg/agg"
	"github.com/pkg/errors"
)

// FifoWindow maintains an aggregate over a FIFO sequence of elements: Push
// appends at the newest end, Pop removes the oldest, and Query returns the
// combine-fold of the current elements oldest to newest.
//
// All implementations share the same observable behavior and differ only in
// cost: a fresh window queries to the operator identity, Pop on an empty
// window is a no-op, and Query never mutates. None of the operations can
// fail. Instances are not safe for concurrent use.
type FifoWindow[V any] interface {
	Push(v V)
	Pop()
	Query() V
	Len() int
}

// Algorithm selects one of the window implementations at runtime.
type Algorithm string

const (
	AlgoReCalc    Algorithm = "recalc"
	AlgoTwoStacks Algorithm = "twostacks"
	AlgoDABA      Algorithm = "daba"
	AlgoSoE       Algorithm = "soe"
	AlgoReactive  Algorithm = "reactive"
)

// Algorithms returns the set of known algorithm names.
func Algorithms() set.Set[Algorithm] {
	return set.FromSlice([]Algorithm{
		AlgoReCalc,
		AlgoTwoStacks,
		AlgoDABA,
		AlgoSoE,
		AlgoReactive,
	})
}

// New constructs a window for the named algorithm. Compile-time selection can
// use the typed constructors directly.
func New[V any](algo Algorithm, op agg.Op[V]) (FifoWindow[V], error) {
	switch algo {
	case AlgoReCalc:
		return NewReCalc[V](op), nil
	case AlgoTwoStacks:
		return NewTwoStacks[V](op), nil
	case AlgoDABA:
		return NewDABA[V](op), nil
	case AlgoSoE:
		return NewSoE[V](op), nil
	case AlgoReactive:
		return NewReactive[V](op), nil
	default:
		return nil, errors.Errorf("unknown window algorithm: %q", algo)
	}
}
