package models

import (
	"golang.org/x/exp/slices"
)

// separates the country code and the indicator code in a composite key
const keySeparator = "_"

// Key builds the composite key addressing one record in a Dataset.
func Key(countryCode, indicatorCode string) string {
	return countryCode + keySeparator + indicatorCode
}

// Dataset maps composite keys to records.
// It is populated once by a loader and only read afterwards, so it can be shared between goroutines
// without synchronization.
type Dataset map[string]IndicatorRecord

// Add stores a record under its composite key, replacing any previous record with the same key.
func (ds Dataset) Add(r IndicatorRecord) {
	ds[r.Key()] = r
}

// Get returns the record for the given country and indicator codes.
func (ds Dataset) Get(countryCode, indicatorCode string) (IndicatorRecord, bool) {
	r, ok := ds[Key(countryCode, indicatorCode)]
	return r, ok
}

// Keys returns all the composite keys, sorted.
func (ds Dataset) Keys() []string {
	keys := make([]string, 0, len(ds))
	for k := range ds {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
