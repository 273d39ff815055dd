package commands

import (
	"fmt"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/elastic/hey-wdi/models"
	"github.com/elastic/hey-wdi/out"
	"github.com/elastic/hey-wdi/store"
)

type mockStore struct {
	records models.Dataset
	err     error
	panics  bool
}

func (ms mockStore) Lookup(countryCode, indicatorCode string) (models.IndicatorRecord, error) {
	if ms.panics {
		panic("boom")
	}
	if ms.err != nil {
		return models.IndicatorRecord{}, ms.err
	}
	r, ok := ms.records.Get(countryCode, indicatorCode)
	if !ok {
		return r, store.ErrNotFound
	}
	return r, nil
}

func (ms mockStore) MeanOf(countryName, indicatorCode string) (float64, bool) {
	var sum float64
	var n int
	for _, r := range ms.records {
		if strings.EqualFold(r.CountryName, countryName) && strings.EqualFold(r.IndicatorCode, indicatorCode) {
			for _, v := range r.Values {
				sum += v
				n++
			}
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

func testStore() mockStore {
	ds := make(models.Dataset)
	ds.Add(models.NewIndicatorRecord("Brazil", "BRA", "Population, total", "SP.POP.TOTL",
		map[int]float64{1999: 100, 2000: 174790340, 2001: 0}))
	ds.Add(models.NewIndicatorRecord("Chile", "CHL", "Population, total", "SP.POP.TOTL", nil))
	ds.Add(models.NewIndicatorRecord("Peru", "PER", "Inflation", "FP.CPI.TOTL", map[int]float64{2000: 2, 2001: 3}))
	return mockStore{records: ds}
}

func exec(line string, st Store) Result {
	return Execute(Parse(line), st, out.Discard())
}

func TestExecuteQuery(t *testing.T) {
	st := testStore()
	for _, test := range []struct {
		line, reply string
	}{
		{"q;BRA;SP.POP.TOTL;2000", "country -> Brazil has Population, total had 174790340.0 in year 2000"},
		{"q;BRA;SP.POP.TOTL;1800", "country -> Brazil has Population, total had no value in year 1800"},
		{"q;PER;FP.CPI.TOTL;2001", "country -> Peru has Inflation had 3.0 in year 2001"},
		{"q;ARG;SP.POP.TOTL;2000", "No data found for ARG;SP.POP.TOTL"},
		{"q;BRA;SP.POP.TOTL;abc", "Error;Bad Command"},
		{"q;BRA", "Wrong number of arguments"},
	} {
		res := exec(test.line, st)
		assert.Equal(t, test.reply, res.Reply, test.line)
		assert.Equal(t, Continue, res.Action, test.line)
	}
}

func TestExecuteReport(t *testing.T) {
	st := testStore()
	for _, test := range []struct {
		line, reply string
	}{
		{"r;PER;FP.CPI.TOTL", "country -> Peru has Inflation with mean average of 2.5 over the years 2000-2001"},
		{"r;BRA;SP.POP.TOTL", "country -> Brazil has Population, total with mean average of 58263480.0 over the years 1999-2001"},
		// no values, no mean
		{"r;CHL;SP.POP.TOTL", "country -> Chile has Population, total with mean average of 0 over the years n/a"},
		{"r;ARG;SP.POP.TOTL", "No data found for ARG;SP.POP.TOTL"},
		{"r;BRA", "Wrong number of arguments"},
	} {
		res := exec(test.line, st)
		assert.Equal(t, test.reply, res.Reply, test.line)
		assert.Equal(t, Continue, res.Action, test.line)
	}
}

func TestExecuteSessionCommands(t *testing.T) {
	st := testStore()

	res := exec("z", st)
	assert.Equal(t, Result{"Server Stopped", StopServer}, res)

	res = exec("e", st)
	assert.Equal(t, Result{"Goodbye!", CloseSession}, res)
}

func TestExecuteUnknown(t *testing.T) {
	st := testStore()
	for _, verb := range []string{"x", "help", "Q", "", "zz", "ée"} {
		for _, line := range []string{verb, verb + ";", verb + ";a;b"} {
			res := exec(line, st)
			assert.Equal(t, Result{Reply: "Unknown command: " + verb}, res, line)
		}
	}
}

func TestExecuteStoreError(t *testing.T) {
	bw := out.NewBufferWriter()
	st := mockStore{err: errors.Wrap(errors.New("no such file"), "loading dataset")}

	res := Execute(Parse("q;BRA;SP.POP.TOTL;2000"), st, out.NewLogger(bw, false))
	assert.Equal(t, Result{Reply: "Error: loading dataset: no such file"}, res)
	assert.Contains(t, bw.String(), "[error] looking up BRA_SP.POP.TOTL: loading dataset: no such file")
}

func TestExecuteRecoversPanics(t *testing.T) {
	bw := out.NewBufferWriter()
	res := Execute(Parse("r;BRA;SP.POP.TOTL"), mockStore{panics: true}, out.NewLogger(bw, false))
	assert.Equal(t, Result{Reply: "Error: boom"}, res)
	assert.Contains(t, bw.String(), `[error] executing "r": boom`)
}

func TestExecuteWithStore(t *testing.T) {
	ds := testStore().records
	st := store.New(func() (models.Dataset, error) { return ds, nil })

	res := exec("q;BRA;SP.POP.TOTL;2000", st)
	assert.Equal(t, "country -> Brazil has Population, total had 174790340.0 in year 2000", res.Reply)

	res = exec("r;PER;FP.CPI.TOTL", st)
	assert.Equal(t, "country -> Peru has Inflation with mean average of 2.5 over the years 2000-2001", res.Reply)

	res = exec("r;ARG;FP.CPI.TOTL", st)
	assert.Equal(t, NotFound("ARG", "FP.CPI.TOTL"), res.Reply)
}

func TestActionString(t *testing.T) {
	assert.Equal(t, "continue", fmt.Sprint(Continue))
	assert.Equal(t, "close", CloseSession.String())
	assert.Equal(t, "stop", StopServer.String())
}
