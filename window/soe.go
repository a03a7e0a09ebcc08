package window

import (
	"github.com/gammazero/deque"
	"github.com/minor-industries/streamagg/agg"
)

// soeBlockCap bounds how many elements a block may hold. The constant trades
// pop-time recompute cost against block-chain length; it does not affect
// observable behavior.
const soeBlockCap = 16

type soeBlock[V any] struct {
	vals *deque.Deque[V]
	agg  V // combine of the block's current elements
	pre  V // back group: combine of all earlier back blocks (fixed at creation)
	link V // group aggregate through this block (suffix in front, prefix in back)
}

// SoE partitions the window into bounded blocks, each caching the aggregate
// of its run. The blocks themselves follow the two-stack discipline: older
// blocks carry suffix aggregates so the oldest block links to the combine of
// the whole front group, newer blocks carry prefix aggregates. A running
// total maintained after every mutation makes Query O(1).
//
// Pop touches only the oldest block: its cached aggregate is recomputed from
// the at most soeBlockCap elements remaining in it, and drained blocks are
// discarded. The whole-group transfer when the front runs out amortizes the
// same way the element-level two-stack transfer does.
type SoE[V any] struct {
	op    agg.Op[V]
	front []*soeBlock[V] // stack, oldest block last
	back  []*soeBlock[V] // arrival order, newest block last
	count int
	total V
}

func NewSoE[V any](op agg.Op[V]) *SoE[V] {
	return &SoE[V]{
		op:    op,
		total: op.Identity(),
	}
}

func (w *SoE[V]) Push(v V) {
	b := w.openBlock()
	b.vals.PushBack(v)
	b.agg = w.op.Combine(b.agg, v)
	b.link = w.op.Combine(b.pre, b.agg)
	w.count++
	w.retotal()
}

func (w *SoE[V]) Pop() {
	if w.count == 0 {
		return
	}
	if len(w.front) == 0 {
		w.transfer()
	}

	oldest := w.front[len(w.front)-1]
	oldest.vals.PopFront()

	if oldest.vals.Len() == 0 {
		w.front = w.front[:len(w.front)-1]
	} else {
		// bounded rescan of just this block
		acc := w.op.Identity()
		for i := 0; i < oldest.vals.Len(); i++ {
			acc = w.op.Combine(acc, oldest.vals.At(i))
		}
		oldest.agg = acc
		oldest.link = w.op.Combine(acc, w.linkBelow())
	}
	w.count--
	w.retotal()
}

func (w *SoE[V]) Query() V {
	return w.total
}

func (w *SoE[V]) Len() int {
	return w.count
}

// openBlock returns the newest back block, starting a fresh one when the
// window is empty of back blocks or the newest is full.
func (w *SoE[V]) openBlock() *soeBlock[V] {
	if n := len(w.back); n > 0 && w.back[n-1].vals.Len() < soeBlockCap {
		return w.back[n-1]
	}
	pre := w.op.Identity()
	if n := len(w.back); n > 0 {
		pre = w.back[n-1].link
	}
	b := &soeBlock[V]{
		vals: deque.New[V](),
		agg:  w.op.Identity(),
		pre:  pre,
		link: pre,
	}
	w.back = append(w.back, b)
	return b
}

// transfer moves every back block onto the front stack, newest first, so the
// oldest block ends up on top with a suffix aggregate covering the group.
func (w *SoE[V]) transfer() {
	for i := len(w.back) - 1; i >= 0; i-- {
		b := w.back[i]
		b.link = w.op.Combine(b.agg, w.topLink(w.front))
		w.front = append(w.front, b)
	}
	w.back = w.back[:0]
}

// linkBelow is the suffix aggregate of the front group minus its oldest
// block.
func (w *SoE[V]) linkBelow() V {
	if len(w.front) < 2 {
		return w.op.Identity()
	}
	return w.front[len(w.front)-2].link
}

func (w *SoE[V]) topLink(group []*soeBlock[V]) V {
	if len(group) == 0 {
		return w.op.Identity()
	}
	return group[len(group)-1].link
}

func (w *SoE[V]) retotal() {
	frontAgg := w.topLink(w.front)
	backAgg := w.op.Identity()
	if n := len(w.back); n > 0 {
		backAgg = w.back[n-1].link
	}
	w.total = w.op.Combine(frontAgg, backAgg)
}
