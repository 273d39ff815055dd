package models

import (
	"encoding/json"
	"testing"

	"github.com/mailru/easyjson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func brazil() IndicatorRecord {
	return NewIndicatorRecord("Brazil", "BRA", "Population, total", "SP.POP.TOTL",
		map[int]float64{2001: 177196054, 2000: 174790340, 1999: 0})
}

func TestKey(t *testing.T) {
	assert.Equal(t, "BRA_SP.POP.TOTL", Key("BRA", "SP.POP.TOTL"))
	assert.Equal(t, "BRA_SP.POP.TOTL", brazil().Key())
	assert.Equal(t, "_", Key("", ""))
}

func TestRecordCopiesValues(t *testing.T) {
	values := map[int]float64{2000: 1}
	r := NewIndicatorRecord("a", "b", "c", "d", values)
	values[2000] = 2
	v, ok := r.Value(2000)
	assert.True(t, ok)
	assert.Equal(t, float64(1), v)
}

func TestYearsAndSpan(t *testing.T) {
	r := brazil()
	assert.Equal(t, []int{1999, 2000, 2001}, r.Years())

	first, last, ok := r.Span()
	assert.True(t, ok)
	assert.Equal(t, 1999, first)
	assert.Equal(t, 2001, last)

	_, _, ok = IndicatorRecord{}.Span()
	assert.False(t, ok)
	assert.Empty(t, IndicatorRecord{}.Years())
}

func TestValue(t *testing.T) {
	r := brazil()
	v, ok := r.Value(2000)
	assert.True(t, ok)
	assert.Equal(t, 174790340.0, v)

	// zero filled values are present
	v, ok = r.Value(1999)
	assert.True(t, ok)
	assert.Equal(t, 0.0, v)

	_, ok = r.Value(1800)
	assert.False(t, ok)
}

func TestDataset(t *testing.T) {
	ds := make(Dataset)
	ds.Add(brazil())
	ds.Add(NewIndicatorRecord("Chile", "CHL", "Population, total", "SP.POP.TOTL", nil))

	r, ok := ds.Get("BRA", "SP.POP.TOTL")
	assert.True(t, ok)
	assert.Equal(t, "Brazil", r.CountryName)

	_, ok = ds.Get("BRA", "NY.GDP.MKTP.CD")
	assert.False(t, ok)

	assert.Equal(t, []string{"BRA_SP.POP.TOTL", "CHL_SP.POP.TOTL"}, ds.Keys())

	// last one wins
	ds.Add(NewIndicatorRecord("Brasil", "BRA", "Population, total", "SP.POP.TOTL", nil))
	r, _ = ds.Get("BRA", "SP.POP.TOTL")
	assert.Equal(t, "Brasil", r.CountryName)
	assert.Len(t, ds, 2)
}

func TestRecordJSON(t *testing.T) {
	r := NewIndicatorRecord("Brazil", "BRA", "Population, total", "SP.POP.TOTL", map[int]float64{2000: 174790340.5})

	bs, err := easyjson.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"country_name": "Brazil",
		"country_code": "BRA",
		"indicator_name": "Population, total",
		"indicator_code": "SP.POP.TOTL",
		"values": {"2000": 174790340.5}
	}`, string(bs))

	// encoding/json goes through the same codec
	std, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Equal(t, string(bs), string(std))

	var decoded IndicatorRecord
	require.NoError(t, easyjson.Unmarshal(bs, &decoded))
	assert.Equal(t, r, decoded)
}

func TestRecordJSONUnknownFields(t *testing.T) {
	var r IndicatorRecord
	err := easyjson.Unmarshal([]byte(`{"country_code":"BRA","extra":[1,2,{"a":null}],"values":null}`), &r)
	require.NoError(t, err)
	assert.Equal(t, "BRA", r.CountryCode)
	assert.Nil(t, r.Values)

	assert.Error(t, easyjson.Unmarshal([]byte(`{"country_code":`), &r))
}
