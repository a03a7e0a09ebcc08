package schema

import "time"

type Value struct {
	Timestamp time.Time
	Value     float64
}

// Series is a single named sample flowing through the broker.
type Series struct {
	SeriesName string
	Timestamp  time.Time
	Value      float64
}

func (s *Series) Name() string {
	return "series"
}
