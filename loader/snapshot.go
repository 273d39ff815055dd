package loader

import (
	"bufio"
	"io"

	"github.com/mailru/easyjson"
	"github.com/pkg/errors"

	"github.com/elastic/hey-wdi/models"
)

const maxSnapshotLine = 1 << 20

// WriteSnapshot writes the dataset as newline delimited JSON, one record per line, sorted by key.
func WriteSnapshot(w io.Writer, ds models.Dataset) (int, error) {
	bw := bufio.NewWriter(w)
	var written int
	for _, key := range ds.Keys() {
		n, err := easyjson.MarshalToWriter(ds[key], bw)
		written += n
		if err == nil {
			err = bw.WriteByte('\n')
			written++
		}
		if err != nil {
			return written, errors.Wrapf(err, "writing %s", key)
		}
	}
	return written, bw.Flush()
}

// ReadSnapshot reads a dataset written by WriteSnapshot. Blank lines are ignored.
func ReadSnapshot(r io.Reader) (models.Dataset, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxSnapshotLine)
	ds := make(models.Dataset)
	var line int
	for scanner.Scan() {
		line++
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var record models.IndicatorRecord
		if err := easyjson.Unmarshal(scanner.Bytes(), &record); err != nil {
			return nil, errors.Wrapf(err, "snapshot line %d", line)
		}
		if record.CountryCode == "" || record.IndicatorCode == "" {
			return nil, errors.Errorf("snapshot line %d: missing country or indicator code", line)
		}
		ds.Add(models.NewIndicatorRecord(record.CountryName, record.CountryCode,
			record.IndicatorName, record.IndicatorCode, record.Values))
	}
	return ds, errors.Wrap(scanner.Err(), "reading snapshot")
}
