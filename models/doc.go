package models

/*
Package `models` describes the World Development Indicators dataset served by hey-wdi.

An `IndicatorRecord` holds every yearly observation of one indicator (eg. population) for one country.
A `Dataset` indexes records by the composite key `<country code>_<indicator code>`.

The JSON codec in record_easyjson.go is generated with `easyjson record.go`.
*/
