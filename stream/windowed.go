package stream

import (
	"github.com/minor-industries/streamagg/schema"
	"github.com/minor-industries/streamagg/window"
)

// Windowed feeds samples through a FIFO aggregation window holding the most
// recent size values and emits the window aggregate for every input sample.
// Which algorithm maintains the aggregate is the caller's choice; they are
// interchangeable.
type Windowed struct {
	win  window.FifoWindow[float64]
	size int
	mean bool
}

func NewWindowed(win window.FifoWindow[float64], size int) *Windowed {
	return &Windowed{
		win:  win,
		size: size,
	}
}

// NewMeanWindowed divides a sum window's aggregate by the element count,
// turning it into a sliding average.
func NewMeanWindowed(win window.FifoWindow[float64], size int) *Windowed {
	return &Windowed{
		win:  win,
		size: size,
		mean: true,
	}
}

func (c *Windowed) WindowSize() int {
	return c.size
}

func (c *Windowed) ProcessNewValues(values []schema.Value) []schema.Value {
	result := make([]schema.Value, 0, len(values))

	for _, v := range values {
		c.win.Push(v.Value)
		for c.win.Len() > c.size {
			c.win.Pop()
		}

		out := c.win.Query()
		if c.mean {
			out /= float64(c.win.Len())
		}

		result = append(result, schema.Value{
			Timestamp: v.Timestamp,
			Value:     out,
		})
	}

	return result
}
