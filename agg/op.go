package agg

// Op defines the value domain a window aggregates over: an identity element
// and an associative combine. Combine is not assumed commutative or
// invertible, which is what makes "subtract the evicted value" illegal and
// the window algorithms necessary.
//
// Associativity and the identity laws are caller preconditions; nothing here
// checks them at runtime.
type Op[V any] interface {
	Identity() V
	Combine(a, b V) V
}

// Func adapts an (identity, combine) pair into an Op.
type Func[V any] struct {
	identity V
	combine  func(a, b V) V
}

func NewFunc[V any](identity V, combine func(a, b V) V) Func[V] {
	return Func[V]{
		identity: identity,
		combine:  combine,
	}
}

func (f Func[V]) Identity() V      { return f.identity }
func (f Func[V]) Combine(a, b V) V { return f.combine(a, b) }
