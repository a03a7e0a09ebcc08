package window

import (
	"github.com/gammazero/deque"
	"github.com/minor-industries/streamagg/agg"
)

// DABA is the de-amortized two-stack aggregator: the same front/back
// decomposition as TwoStacks, but the stack transfer is spread across every
// operation instead of bursting when the front runs dry, giving worst-case
// O(1) Push, Pop and Query.
//
// Elements live in vals; aggs carries one cached aggregate per element. The
// cursors l <= r <= a <= b partition the queue:
//
//	[0, l)  front, fixed: aggs[i] = v[i] ⊕ ... ⊕ v[b-1]
//	[l, r)  front, todo:  aggs[i] = v[i] ⊕ ... ⊕ v[r-1]
//	[r, a)  front, unmigrated prefixes: aggs[i] = v[r] ⊕ ... ⊕ v[i]
//	[a, b)  front, migrated: aggs[i] = v[i] ⊕ ... ⊕ v[b-1]
//	[b, n)  back prefixes: aggs[i] = v[b] ⊕ ... ⊕ v[i]
//
// Each operation performs one migration step: first [r, a) is rewritten into
// suffix aggregates right to left, then the todo entries are extended across
// the migrated tail left to right. As soon as the front is fully fixed the
// back flips in as the new front's todo/unmigrated regions. At every flip the
// new back is no larger than the remaining front, so one step per operation
// finishes a migration strictly before pops can reach an unmigrated entry.
type DABA[V any] struct {
	op   agg.Op[V]
	vals *deque.Deque[V]
	aggs *deque.Deque[V]

	l, r, a, b int
}

func NewDABA[V any](op agg.Op[V]) *DABA[V] {
	return &DABA[V]{
		op:   op,
		vals: deque.New[V](),
		aggs: deque.New[V](),
	}
}

func (w *DABA[V]) Push(v V) {
	if w.b < w.aggs.Len() {
		w.aggs.PushBack(w.op.Combine(w.aggs.Back(), v))
	} else {
		w.aggs.PushBack(v)
	}
	w.vals.PushBack(v)
	w.fixup()
}

func (w *DABA[V]) Pop() {
	if w.vals.Len() == 0 {
		return
	}
	w.vals.PopFront()
	w.aggs.PopFront()
	if w.l > 0 {
		w.l--
	}
	if w.r > 0 {
		w.r--
	}
	if w.a > 0 {
		w.a--
	}
	if w.b > 0 {
		w.b--
	}
	w.fixup()
}

func (w *DABA[V]) Query() V {
	return w.op.Combine(w.frontAgg(), w.backAgg())
}

func (w *DABA[V]) Len() int {
	return w.vals.Len()
}

// frontAgg is the aggregate of [0, b), answerable mid-migration from the
// region boundaries.
func (w *DABA[V]) frontAgg() V {
	if w.b == 0 {
		return w.op.Identity()
	}
	if w.l > 0 {
		return w.aggs.At(0)
	}
	acc := w.op.Identity()
	if w.r > 0 {
		acc = w.aggs.At(0) // v[0..r)
	}
	if w.a > w.r {
		acc = w.op.Combine(acc, w.aggs.At(w.a-1)) // v[r..a)
	}
	if w.a < w.b {
		acc = w.op.Combine(acc, w.aggs.At(w.a)) // v[a..b)
	}
	return acc
}

func (w *DABA[V]) backAgg() V {
	if w.b == w.aggs.Len() {
		return w.op.Identity()
	}
	return w.aggs.Back()
}

func (w *DABA[V]) fixup() {
	n := w.aggs.Len()

	if w.l == w.r && w.r == w.a {
		// front fully fixed; flip the back in as the new front
		if w.b == n {
			return
		}
		w.l = 0
		w.r = w.b
		w.a = n
		w.b = n
	}

	if w.a > w.r {
		// migrate the newest prefix entry into a suffix aggregate
		w.a--
		if w.a+1 < w.b {
			w.aggs.Set(w.a, w.op.Combine(w.vals.At(w.a), w.aggs.At(w.a+1)))
		} else {
			w.aggs.Set(w.a, w.vals.At(w.a))
		}
	} else if w.l < w.r {
		// extend the oldest todo suffix across the migrated tail
		if w.a < w.b {
			w.aggs.Set(w.l, w.op.Combine(w.aggs.At(w.l), w.aggs.At(w.a)))
		}
		w.l++
	}
}
