package stream

import (
	"github.com/minor-industries/streamagg/schema"
)

// Operator transforms a batch of incoming samples into a batch of output
// samples. Stateful operators carry their window state across calls.
type Operator interface {
	ProcessNewValues(values []schema.Value) []schema.Value
}

// WindowSized is implemented by operators that maintain a count-based
// sliding window.
type WindowSized interface {
	WindowSize() int
}

type Identity struct{}

func (i Identity) ProcessNewValues(values []schema.Value) []schema.Value {
	return values
}

type chain struct {
	ops []Operator
}

func (c chain) ProcessNewValues(values []schema.Value) []schema.Value {
	for _, op := range c.ops {
		values = op.ProcessNewValues(values)
	}
	return values
}
