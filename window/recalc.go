package window

import (
	"github.com/gammazero/deque"
	"github.com/minor-industries/streamagg/agg"
)

// ReCalc stores the window contents and recomputes the fold on every Query.
// O(n) query, no auxiliary state. It is the ground truth the smarter
// algorithms are validated against, and a fine choice for tiny windows.
type ReCalc[V any] struct {
	op   agg.Op[V]
	vals *deque.Deque[V]
}

func NewReCalc[V any](op agg.Op[V]) *ReCalc[V] {
	return &ReCalc[V]{
		op:   op,
		vals: deque.New[V](),
	}
}

func (w *ReCalc[V]) Push(v V) {
	w.vals.PushBack(v)
}

func (w *ReCalc[V]) Pop() {
	if w.vals.Len() == 0 {
		return
	}
	w.vals.PopFront()
}

func (w *ReCalc[V]) Query() V {
	acc := w.op.Identity()
	for i := 0; i < w.vals.Len(); i++ {
		acc = w.op.Combine(acc, w.vals.At(i))
	}
	return acc
}

func (w *ReCalc[V]) Len() int {
	return w.vals.Len()
}
