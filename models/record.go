package models

import (
	"golang.org/x/exp/slices"
)

// IndicatorRecord holds the yearly observations of one indicator for one country.
// Records are identified by the pair (CountryCode, IndicatorCode) and must not be modified once
// they are part of a Dataset.
type IndicatorRecord struct {
	// Full name of the country, eg. "Brazil"
	CountryName string `json:"country_name"`
	// ISO-3 country code, eg. "BRA"
	CountryCode string `json:"country_code"`
	// Human readable indicator name, eg. "Population, total"
	IndicatorName string `json:"indicator_name"`
	// World Bank indicator code, eg. "SP.POP.TOTL"
	IndicatorCode string `json:"indicator_code"`
	// Observed value per year, missing observations are stored as 0
	Values map[int]float64 `json:"values"`
}

// NewIndicatorRecord returns a record owning a copy of `values`.
func NewIndicatorRecord(countryName, countryCode, indicatorName, indicatorCode string, values map[int]float64) IndicatorRecord {
	copied := make(map[int]float64, len(values))
	for year, v := range values {
		copied[year] = v
	}
	return IndicatorRecord{
		CountryName:   countryName,
		CountryCode:   countryCode,
		IndicatorName: indicatorName,
		IndicatorCode: indicatorCode,
		Values:        copied,
	}
}

// Key returns the composite key of the record in a Dataset.
func (r IndicatorRecord) Key() string {
	return Key(r.CountryCode, r.IndicatorCode)
}

// Value returns the observation for the given year, if any.
func (r IndicatorRecord) Value(year int) (float64, bool) {
	v, ok := r.Values[year]
	return v, ok
}

// Years returns all the years with an observation, in ascending order.
func (r IndicatorRecord) Years() []int {
	years := make([]int, 0, len(r.Values))
	for year := range r.Values {
		years = append(years, year)
	}
	slices.Sort(years)
	return years
}

// Span returns the first and last year with an observation.
// ok is false for a record without observations.
func (r IndicatorRecord) Span() (first, last int, ok bool) {
	years := r.Years()
	if len(years) == 0 {
		return 0, 0, false
	}
	return years[0], years[len(years)-1], true
}
