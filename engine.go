package streamagg

import (
	"fmt"
	"sync"
	"time"

	"github.com/chrispappas/golang-generics-set/set"
	"github.com/gin-gonic/gin"
	"github.com/minor-industries/streamagg/broker"
	"github.com/minor-industries/streamagg/database"
	"github.com/minor-industries/streamagg/schema"
	"github.com/minor-industries/streamagg/stream"
	"github.com/minor-industries/streamagg/window"
	"github.com/pkg/errors"
)

// ComputedReq asks the engine to maintain a windowed aggregate over an input
// series. Size is the window length in samples; Algorithm is optional and
// defaults to twostacks.
type ComputedReq struct {
	SeriesName string
	Function   string
	Size       int
	Algorithm  window.Algorithm
}

func (req *ComputedReq) OutputSeriesName() string {
	return fmt.Sprintf("%s_%s_%d", req.SeriesName, req.Function, req.Size)
}

func (req *ComputedReq) spec() string {
	algo := req.Algorithm
	if algo == "" {
		algo = window.AlgoTwoStacks
	}
	return fmt.Sprintf("%s | %s %d %s", req.SeriesName, req.Function, req.Size, algo)
}

// Engine ingests samples, maintains the requested windowed aggregates, and
// fans everything out to the recorder, the prometheus publisher, and any
// websocket subscribers.
type Engine struct {
	backend     *database.Backend
	broker      *broker.Broker
	errCh       chan error
	server      *gin.Engine
	knownSeries set.Set[string]

	mu     sync.Mutex
	latest map[string]float64
}

func New(
	dbPath string,
	errCh chan error,
	seriesNames []string,
	computed []ComputedReq,
) (*Engine, error) {
	db, err := database.Get(dbPath)
	if err != nil {
		return nil, errors.Wrap(err, "get database")
	}

	backend := database.NewBackend(db, errCh)

	allNames := make([]string, 0, len(seriesNames)+len(computed))
	allNames = append(allNames, seriesNames...)
	for i := range computed {
		allNames = append(allNames, computed[i].OutputSeriesName())
	}
	if err := backend.CreateSeries(allNames); err != nil {
		return nil, errors.Wrap(err, "create series")
	}

	br := broker.NewBroker()
	e := &Engine{
		backend:     backend,
		broker:      br,
		errCh:       errCh,
		server:      gin.Default(),
		knownSeries: set.FromSlice(seriesNames),
		latest:      map[string]float64{},
	}

	if err := e.setupServer(); err != nil {
		return nil, errors.Wrap(err, "setup server")
	}

	go br.Start()
	go backend.RunWriter()
	go e.computeDerivedSeries(computed)
	go e.publishPrometheusMetrics()
	go e.trackLatest()

	return e, nil
}

func (e *Engine) GetEngine() *gin.Engine {
	return e.server
}

// CreateValue ingests one sample: it is queued for recording and published
// to every subscriber.
func (e *Engine) CreateValue(
	seriesName string,
	timestamp time.Time,
	value float64,
) error {
	if !e.knownSeries.Has(seriesName) {
		return fmt.Errorf("unknown series: %s", seriesName)
	}

	e.backend.InsertValue(seriesName, timestamp, value)
	e.broker.Publish(&schema.Series{
		SeriesName: seriesName,
		Timestamp:  timestamp,
		Value:      value,
	})

	return nil
}

type derived struct {
	op         stream.Operator
	outputName string
}

func (e *Engine) computeDerivedSeries(reqs []ComputedReq) {
	msgCh := e.broker.Subscribe()
	defer e.broker.Unsubscribe(msgCh)

	parser := stream.NewParser()
	computedMap := map[string][]derived{}
	for i := range reqs {
		req := &reqs[i]
		inputName, op, err := parser.Parse(req.spec())
		if err != nil {
			e.errCh <- errors.Wrap(err, "parse computed series")
			return
		}
		computedMap[inputName] = append(computedMap[inputName], derived{
			op:         op,
			outputName: req.OutputSeriesName(),
		})
	}

	for msg := range msgCh {
		m, ok := msg.(*schema.Series)
		if !ok {
			continue
		}

		for _, d := range computedMap[m.SeriesName] {
			out := d.op.ProcessNewValues([]schema.Value{{
				Timestamp: m.Timestamp,
				Value:     m.Value,
			}})

			for _, v := range out {
				e.backend.InsertValue(d.outputName, v.Timestamp, v.Value)
				e.broker.Publish(&schema.Series{
					SeriesName: d.outputName,
					Timestamp:  v.Timestamp,
					Value:      v.Value,
				})
			}
		}
	}
}

func (e *Engine) trackLatest() {
	msgCh := e.broker.Subscribe()
	defer e.broker.Unsubscribe(msgCh)

	for msg := range msgCh {
		if m, ok := msg.(*schema.Series); ok {
			e.mu.Lock()
			e.latest[m.SeriesName] = m.Value
			e.mu.Unlock()
		}
	}
}

func (e *Engine) snapshot() map[string]float64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	result := make(map[string]float64, len(e.latest))
	for k, v := range e.latest {
		result[k] = v
	}
	return result
}
