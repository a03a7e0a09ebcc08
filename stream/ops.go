package stream

import (
	"github.com/minor-industries/streamagg/schema"
)

type OpGt struct {
	X float64
}

func (o OpGt) ProcessNewValues(values []schema.Value) []schema.Value {
	result := make([]schema.Value, 0, len(values))
	for _, value := range values {
		if value.Value > o.X {
			result = append(result, value)
		}
	}
	return result
}

type OpAdd struct {
	X float64
}

func (o OpAdd) ProcessNewValues(values []schema.Value) []schema.Value {
	result := make([]schema.Value, len(values))
	for idx, value := range values {
		result[idx] = schema.Value{
			Timestamp: value.Timestamp,
			Value:     value.Value + o.X,
		}
	}
	return result
}
