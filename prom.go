package streamagg

import (
	"github.com/minor-industries/streamagg/schema"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

func (e *Engine) publishPrometheusMetrics() {
	gauge := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "streamagg_series_value",
		Help: "most recent value published for each series",
	}, []string{"series"})

	if err := prometheus.Register(gauge); err != nil {
		e.errCh <- errors.Wrap(err, "register prometheus metric")
		return
	}

	dropped := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "streamagg_broker_dropped_messages",
		Help: "messages dropped due to slow subscribers",
	}, func() float64 {
		return float64(e.broker.DropCount())
	})

	if err := prometheus.Register(dropped); err != nil {
		e.errCh <- errors.Wrap(err, "register prometheus metric")
		return
	}

	msgCh := e.broker.Subscribe()

	for message := range msgCh {
		switch m := message.(type) {
		case *schema.Series:
			gauge.WithLabelValues(m.SeriesName).Set(m.Value)
		}
	}
}
