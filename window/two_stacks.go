package window

import (
	"github.com/minor-industries/streamagg/agg"
)

type stackEntry[V any] struct {
	val V
	agg V
}

// TwoStacks splits the window into a front stack (departure order, each entry
// caching the combine of itself and everything below it, so the top holds the
// aggregate of the whole stack) and a back stack (arrival order, caching
// running prefixes the same way). Push and Query are O(1); Pop transfers the
// whole back stack when the front runs dry, which amortizes to O(1) because
// each element is transferred at most once.
//
// Query combines front before back: the front holds the older segment, and
// the operator is not assumed commutative.
type TwoStacks[V any] struct {
	op    agg.Op[V]
	front []stackEntry[V]
	back  []stackEntry[V]
}

func NewTwoStacks[V any](op agg.Op[V]) *TwoStacks[V] {
	return &TwoStacks[V]{op: op}
}

func (w *TwoStacks[V]) Push(v V) {
	w.back = append(w.back, stackEntry[V]{
		val: v,
		agg: w.op.Combine(w.topAgg(w.back), v),
	})
}

func (w *TwoStacks[V]) Pop() {
	if len(w.front) == 0 {
		if len(w.back) == 0 {
			return
		}
		w.transfer()
	}
	w.front = w.front[:len(w.front)-1]
}

func (w *TwoStacks[V]) Query() V {
	return w.op.Combine(w.topAgg(w.front), w.topAgg(w.back))
}

func (w *TwoStacks[V]) Len() int {
	return len(w.front) + len(w.back)
}

// transfer reverses the back stack onto the front stack, recomputing the
// front's running aggregates as it grows. The newest element lands at the
// bottom, so each new top aggregates an older element in front of everything
// already moved.
func (w *TwoStacks[V]) transfer() {
	for i := len(w.back) - 1; i >= 0; i-- {
		w.front = append(w.front, stackEntry[V]{
			val: w.back[i].val,
			agg: w.op.Combine(w.back[i].val, w.topAgg(w.front)),
		})
	}
	w.back = w.back[:0]
}

func (w *TwoStacks[V]) topAgg(s []stackEntry[V]) V {
	if len(s) == 0 {
		return w.op.Identity()
	}
	return s[len(s)-1].agg
}
