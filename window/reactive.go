package window

import (
	"github.com/minor-industries/streamagg/agg"
)

const reactiveMinCap = 4

// Reactive keeps a complete binary combining tree over a circular buffer of
// leaves: every internal node caches the combine of its two children, and a
// mutation repairs only the path from the touched leaf to the root before
// refreshing a cached top-level aggregate. Query reads the cache, O(1).
//
// The leaf buffer grows by doubling and shrinks by halving; each rebuild is
// paid for by the mutations that moved the size, keeping updates amortized
// O(1) tree paths. Every cache is derivable purely from the elements below
// it, so a rebuild is always safe.
type Reactive[V any] struct {
	op       agg.Op[V]
	tree     []V // 1-based, len 2*capacity; leaves at [capacity, 2*capacity)
	capacity int
	head     int // leaf index of the oldest element
	size     int
	top      V
}

func NewReactive[V any](op agg.Op[V]) *Reactive[V] {
	return &Reactive[V]{
		op:  op,
		top: op.Identity(),
	}
}

func (w *Reactive[V]) Push(v V) {
	if w.size == w.capacity {
		w.rebuild(max(reactiveMinCap, 2*w.capacity))
	}
	w.setLeaf((w.head+w.size)%w.capacity, v)
	w.size++
	w.refreshTop()
}

func (w *Reactive[V]) Pop() {
	if w.size == 0 {
		return
	}
	w.setLeaf(w.head, w.op.Identity())
	w.head = (w.head + 1) % w.capacity
	w.size--
	if w.capacity > reactiveMinCap && w.size <= w.capacity/4 {
		w.rebuild(max(reactiveMinCap, w.capacity/2))
	}
	w.refreshTop()
}

func (w *Reactive[V]) Query() V {
	return w.top
}

func (w *Reactive[V]) Len() int {
	return w.size
}

// setLeaf writes one leaf and repairs the caches on the path to the root.
func (w *Reactive[V]) setLeaf(leaf int, v V) {
	pos := w.capacity + leaf
	w.tree[pos] = v
	for pos >>= 1; pos >= 1; pos >>= 1 {
		w.tree[pos] = w.op.Combine(w.tree[2*pos], w.tree[2*pos+1])
	}
}

// rebuild rewrites the tree at a new capacity with the window left-aligned,
// so head starts over at leaf zero.
func (w *Reactive[V]) rebuild(capacity int) {
	tree := make([]V, 2*capacity)
	for i := range tree {
		tree[i] = w.op.Identity()
	}
	for j := 0; j < w.size; j++ {
		tree[capacity+j] = w.tree[w.capacity+(w.head+j)%w.capacity]
	}
	for pos := capacity - 1; pos >= 1; pos-- {
		tree[pos] = w.op.Combine(tree[2*pos], tree[2*pos+1])
	}
	w.tree = tree
	w.capacity = capacity
	w.head = 0
}

// refreshTop re-derives the cached aggregate. The window may wrap the leaf
// buffer; the older segment is combined strictly before the wrapped one.
func (w *Reactive[V]) refreshTop() {
	if w.size == 0 {
		w.top = w.op.Identity()
		return
	}
	end := w.head + w.size
	if end <= w.capacity {
		w.top = w.rangeAgg(w.head, end)
		return
	}
	w.top = w.op.Combine(
		w.rangeAgg(w.head, w.capacity),
		w.rangeAgg(0, end-w.capacity),
	)
}

// rangeAgg combines the leaves in [lo, hi) in leaf order, accumulating left
// and right partials separately so the operator never needs commutativity.
func (w *Reactive[V]) rangeAgg(lo, hi int) V {
	left := w.op.Identity()
	right := w.op.Identity()
	for l, r := lo+w.capacity, hi+w.capacity; l < r; l, r = l>>1, r>>1 {
		if l&1 == 1 {
			left = w.op.Combine(left, w.tree[l])
			l++
		}
		if r&1 == 1 {
			r--
			right = w.op.Combine(w.tree[r], right)
		}
	}
	return w.op.Combine(left, right)
}
