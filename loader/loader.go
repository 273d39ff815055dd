package loader

import (
	"os"
	"path/filepath"
	s "strings"

	"github.com/pkg/errors"

	"github.com/elastic/hey-wdi/models"
)

// Load reads the dataset stored at `path`.
// Files ending in .json or .ndjson are read as snapshots, anything else as a CSV export.
func Load(path string) (models.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening dataset")
	}
	defer f.Close()

	var ds models.Dataset
	if IsSnapshot(path) {
		ds, err = ReadSnapshot(f)
	} else {
		ds, err = ReadCSV(f)
	}
	return ds, errors.Wrap(err, path)
}

// IsSnapshot returns true if `path` names a snapshot file rather than a CSV export.
func IsSnapshot(path string) bool {
	switch s.ToLower(filepath.Ext(path)) {
	case ".json", ".ndjson":
		return true
	}
	return false
}

// FromFile returns a function that loads the dataset at `path` every time it is invoked.
func FromFile(path string) func() (models.Dataset, error) {
	return func() (models.Dataset, error) {
		return Load(path)
	}
}
