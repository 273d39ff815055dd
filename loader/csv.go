package loader

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"io"
	"math"
	"strconv"
	s "strings"

	"github.com/pkg/errors"

	"github.com/elastic/hey-wdi/models"
)

// first column holding a yearly value; the previous ones describe the record
const firstYearColumn = 4

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadCSV parses a World Development Indicators CSV export.
// The header row holds year labels from the 5th column onward, and every other row holds the country name,
// country code, indicator name and indicator code followed by one value per year. Empty cells are read as 0.
func ReadCSV(r io.Reader) (models.Dataset, error) {
	reader := csv.NewReader(skipBOM(r))
	// rows may be shorter than the header, missing trailing years are not stored
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.New("empty csv, expected a header row")
	}
	if err != nil {
		return nil, errors.Wrap(err, "reading csv header")
	}
	years, err := parseHeader(header)
	if err != nil {
		return nil, err
	}

	ds := make(models.Dataset)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			return ds, nil
		}
		if err != nil {
			return nil, errors.Wrap(err, "reading csv")
		}
		line, _ := reader.FieldPos(0)
		record, err := parseRow(years, row)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", line)
		}
		ds.Add(record)
	}
}

func parseHeader(header []string) ([]int, error) {
	if len(header) < firstYearColumn {
		return nil, errors.Errorf("csv header has %d columns, expected at least %d", len(header), firstYearColumn)
	}
	years := make([]int, 0, len(header)-firstYearColumn)
	for _, label := range header[firstYearColumn:] {
		year, err := strconv.Atoi(s.TrimSpace(label))
		if err != nil {
			return nil, errors.Wrapf(err, "csv header: bad year label %q", label)
		}
		years = append(years, year)
	}
	return years, nil
}

func parseRow(years []int, row []string) (models.IndicatorRecord, error) {
	if len(row) < firstYearColumn {
		return models.IndicatorRecord{}, errors.Errorf("%d columns, expected at least %d", len(row), firstYearColumn)
	}
	if len(row) > firstYearColumn+len(years) {
		return models.IndicatorRecord{}, errors.Errorf("%d columns but only %d years in the header", len(row), len(years))
	}
	values := make(map[int]float64, len(row)-firstYearColumn)
	for idx, cell := range row[firstYearColumn:] {
		year := years[idx]
		var value float64
		if cell = s.TrimSpace(cell); cell != "" {
			var err error
			if value, err = strconv.ParseFloat(cell, 64); err != nil {
				return models.IndicatorRecord{}, errors.Wrapf(err, "year %d", year)
			}
			// can't be written as JSON nor averaged
			if math.IsNaN(value) || math.IsInf(value, 0) {
				return models.IndicatorRecord{}, errors.Errorf("year %d: %q is not a finite number", year, cell)
			}
		}
		values[year] = value
	}
	return models.NewIndicatorRecord(row[0], row[1], row[2], row[3], values), nil
}

// Excel exports start with a byte order mark that would otherwise stick to the first header cell
func skipBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if prefix, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(prefix, utf8BOM) {
		br.Discard(len(utf8BOM))
	}
	return br
}
