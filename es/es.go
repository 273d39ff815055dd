package es

import (
	"context"
	"strings"

	"github.com/olivere/elastic"
	"github.com/pkg/errors"

	"github.com/elastic/hey-wdi/models"
)

const (
	local   = "http://localhost:9200"
	docType = "_doc"
	// documents per bulk request
	batchSize = 1000
)

// Connection holds an elasticsearch client plus URL and credentials strings
type Connection struct {
	*elastic.Client
	Url      string
	username string
	password string
}

// NewConnection returns a client for the ElasticSearch node at `url`, with credentials `auth` ("username:password")
// "local" is short for http://localhost:9200
func NewConnection(url, auth string) (Connection, error) {
	if url == "local" {
		url = local
	}

	username, password := auth, ""
	if sep := strings.IndexRune(auth, ':'); sep >= 0 {
		username, password = auth[:sep], auth[sep+1:]
	}

	client, err := elastic.NewClient(
		elastic.SetURL(url),
		elastic.SetBasicAuth(username, password),
		elastic.SetSniff(false),
		elastic.SetHealthcheck(false),
	)
	return Connection{client, url, username, password}, errors.Wrapf(err, "connecting to %s", url)
}

// Export indexes every record of the dataset in `index`, using its composite key as document id, so exporting the
// same dataset twice doesn't duplicate documents.
// It returns the number of indexed documents.
func Export(ctx context.Context, conn Connection, index string, ds models.Dataset) (int, error) {
	var indexed int
	keys := ds.Keys()
	for start := 0; start < len(keys); start += batchSize {
		end := start + batchSize
		if end > len(keys) {
			end = len(keys)
		}

		bulk := conn.Bulk()
		for _, key := range keys[start:end] {
			bulk.Add(elastic.NewBulkIndexRequest().
				Index(index).
				Type(docType).
				Id(key).
				Doc(ds[key]))
		}
		resp, err := bulk.Do(ctx)
		if err != nil {
			return indexed, errors.Wrapf(err, "indexing in %s", index)
		}
		if failed := resp.Failed(); len(failed) > 0 {
			return indexed + end - start - len(failed), bulkError(failed)
		}
		indexed += end - start
	}

	_, err := conn.Refresh(index).Do(ctx)
	return indexed, errors.Wrapf(err, "refreshing %s", index)
}

func bulkError(failed []*elastic.BulkResponseItem) error {
	first := failed[0]
	reason := "unknown error"
	if first.Error != nil {
		reason = first.Error.Type + ": " + first.Error.Reason
	}
	return errors.Errorf("%d documents failed to index, %s: %s", len(failed), first.Id, reason)
}

// Count returns the number of documents in the given index.
func Count(ctx context.Context, conn Connection, index string) (int64, error) {
	n, err := conn.Client.Count(index).Do(ctx)
	return n, errors.Wrapf(err, "counting documents in %s", index)
}
