package database

import (
	"crypto/rand"
	"crypto/sha256"
	"time"

	"github.com/chrispappas/golang-generics-set/set"
	"github.com/glebarez/sqlite"
	"github.com/minor-industries/streamagg/schema"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

func Get(filename string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(filename), &gorm.Config{})
	if err != nil {
		return nil, errors.Wrap(err, "open")
	}

	for _, table := range []any{
		&Series{},
		&Value{},
	} {
		err = db.AutoMigrate(table)
		if err != nil {
			return nil, errors.Wrap(err, "migrate")
		}
	}

	return db, nil
}

func RandomID() []byte {
	var result [16]byte
	_, err := rand.Read(result[:])
	if err != nil {
		panic(err)
	}
	return result[:]
}

func HashedID(s string) []byte {
	var result [16]byte
	h := sha256.New()
	h.Write([]byte(s))
	sum := h.Sum(nil)
	copy(result[:], sum[:16])
	return result[:]
}

// Backend records samples and aggregates emitted by the engine. Writes go
// through a channel to the batching writer goroutine.
type Backend struct {
	db      *gorm.DB
	objects chan any
	errCh   chan error
	seen    set.Set[string]
}

func NewBackend(db *gorm.DB, errCh chan error) *Backend {
	return &Backend{
		db:      db,
		objects: make(chan any, 64),
		errCh:   errCh,
		seen:    set.FromSlice([]string{}),
	}
}

func (b *Backend) GetORM() *gorm.DB {
	return b.db
}

// CreateSeries registers names, skipping those already present.
func (b *Backend) CreateSeries(seriesNames []string) error {
	var existing []*Series
	tx := b.db.Find(&existing)
	if tx.Error != nil {
		return errors.Wrap(tx.Error, "find")
	}
	for _, s := range existing {
		b.seen.Add(s.Name)
	}

	for _, name := range seriesNames {
		if b.seen.Has(name) {
			continue
		}
		tx := b.db.Create(&Series{
			ID:   HashedID(name),
			Name: name,
		})
		if tx.Error != nil {
			return errors.Wrap(tx.Error, "create series")
		}
		b.seen.Add(name)
	}

	return nil
}

// InsertValue enqueues one sample for the writer goroutine.
func (b *Backend) InsertValue(seriesName string, timestamp time.Time, value float64) {
	b.objects <- &Value{
		ID:        RandomID(),
		Timestamp: timestamp,
		Value:     value,
		SeriesID:  HashedID(seriesName),
	}
}

func (b *Backend) LoadDataAfter(
	seriesName string,
	start time.Time,
) ([]schema.Value, error) {
	var rows []Value

	tx := b.db.Where(
		"series_id = ? and timestamp >= ?",
		HashedID(seriesName),
		start,
	).Order("timestamp asc").Find(&rows)
	if tx.Error != nil {
		return nil, errors.Wrap(tx.Error, "find")
	}

	result := make([]schema.Value, len(rows))
	for idx, row := range rows {
		result[idx] = schema.Value{
			Timestamp: row.Timestamp,
			Value:     row.Value,
		}
	}

	return result, nil
}
