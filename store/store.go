package store

import (
	"sort"
	"sync"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/text/cases"

	"github.com/elastic/hey-wdi/metric"
	"github.com/elastic/hey-wdi/models"
	"github.com/elastic/hey-wdi/out"
)

// ErrNotFound is returned when no record exists for a country and indicator code pair
var ErrNotFound = errors.New("indicator not found")

// Loader builds a dataset from its source, eg. a CSV file.
type Loader func() (models.Dataset, error)

// Stats describes the current state of a store
type Stats struct {
	Loaded  bool  // Whether a dataset is currently loaded
	Records int   // Number of records in the loaded dataset
	Loads   int64 // Number of successful loads since the store was created
}

// Store serves lookups over a dataset that is loaded on first access.
// The loader runs at most once regardless of how many goroutines trigger that first access; afterwards the
// dataset is only replaced by an explicit Reload or dropped by Invalidate.
type Store struct {
	loader  Loader
	logger  *out.Logger
	metrics *metric.Metrics

	loadMu sync.Mutex // serializes loader invocations

	mu      sync.RWMutex // protects the fields below
	dataset models.Dataset
	loaded  bool
	loads   int64
}

type Option func(*Store)

func WithLogger(logger *out.Logger) Option {
	return func(st *Store) {
		st.logger = logger
	}
}

func WithMetrics(m *metric.Metrics) Option {
	return func(st *Store) {
		st.metrics = m
	}
}

// New creates a store that will populate itself with `loader`.
func New(loader Loader, opts ...Option) *Store {
	st := &Store{
		loader: loader,
		logger: out.Discard(),
	}
	for _, opt := range opts {
		opt(st)
	}
	return st
}

func (st *Store) current() (models.Dataset, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.dataset, st.loaded
}

// Load returns the dataset, loading it if needed.
// Concurrent callers wait for a single loader invocation and all observe its result.
// A failed load is not remembered: the next call tries again.
func (st *Store) Load() (models.Dataset, error) {
	if ds, ok := st.current(); ok {
		return ds, nil
	}
	st.loadMu.Lock()
	defer st.loadMu.Unlock()
	// someone else might have loaded it while we were waiting
	if ds, ok := st.current(); ok {
		return ds, nil
	}
	return st.load()
}

// Reload replaces the dataset with a fresh copy from the loader.
// If the loader fails the previous dataset, if any, is kept.
func (st *Store) Reload() error {
	st.loadMu.Lock()
	defer st.loadMu.Unlock()
	_, err := st.load()
	return err
}

// Invalidate drops the dataset so that the next access loads it again.
func (st *Store) Invalidate() {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.dataset, st.loaded = nil, false
	if st.metrics != nil {
		st.metrics.DatasetRecords.Set(0)
	}
}

// must be called with loadMu held
func (st *Store) load() (models.Dataset, error) {
	start := time.Now()
	ds, err := st.loader()
	if err != nil {
		st.observeLoad("error")
		st.logger.Errorf("loading dataset: %v", err)
		return nil, errors.Wrap(err, "loading dataset")
	}
	if ds == nil {
		ds = make(models.Dataset)
	}

	st.mu.Lock()
	st.dataset, st.loaded = ds, true
	st.loads++
	st.mu.Unlock()

	st.observeLoad("ok")
	if st.metrics != nil {
		st.metrics.DatasetRecords.Set(float64(len(ds)))
	}
	st.logger.Infof("loaded %d records in %s", len(ds), time.Since(start).Round(time.Millisecond))
	return ds, nil
}

func (st *Store) observeLoad(status string) {
	if st.metrics != nil {
		st.metrics.DatasetLoads.WithLabelValues(status).Inc()
	}
}

// Lookup returns the record for the given country and indicator codes.
// It returns ErrNotFound if there is no such record, or the load error if the dataset can't be loaded.
func (st *Store) Lookup(countryCode, indicatorCode string) (models.IndicatorRecord, error) {
	ds, err := st.Load()
	if err != nil {
		return models.IndicatorRecord{}, err
	}
	r, ok := ds.Get(countryCode, indicatorCode)
	if !ok {
		return models.IndicatorRecord{}, ErrNotFound
	}
	return r, nil
}

// MeanOf returns the arithmetic mean of all the yearly values of the records matching the country name and
// indicator code, ignoring case.
// ok is false when there is nothing to average: no record matches, matching records have no values,
// or the dataset can't be loaded.
func (st *Store) MeanOf(countryName, indicatorCode string) (mean float64, ok bool) {
	ds, err := st.Load()
	if err != nil {
		return 0, false
	}

	// a Caser is stateful, don't share it between goroutines
	fold := cases.Fold()
	name, code := fold.String(countryName), fold.String(indicatorCode)

	matches := make([]models.IndicatorRecord, 0, 1)
	for _, r := range ds {
		if fold.String(r.IndicatorCode) == code && fold.String(r.CountryName) == name {
			matches = append(matches, r)
		}
	}
	// sum always in the same order so that the result doesn't depend on map iteration
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Key() < matches[j].Key()
	})

	var sum float64
	var n int
	for _, r := range matches {
		for _, year := range r.Years() {
			sum += r.Values[year]
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// Stats returns a snapshot of the store state.
func (st *Store) Stats() Stats {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return Stats{
		Loaded:  st.loaded,
		Records: len(st.dataset),
		Loads:   st.loads,
	}
}
