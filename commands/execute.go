package commands

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/elastic/hey-wdi/conv"
	"github.com/elastic/hey-wdi/models"
	"github.com/elastic/hey-wdi/out"
	"github.com/elastic/hey-wdi/store"
)

// Action tells the connection what to do after sending a reply.
type Action int

const (
	// Continue reading commands from the connection
	Continue Action = iota
	// CloseSession closes the connection
	CloseSession
	// StopServer closes the connection and shuts the server down
	StopServer
)

func (a Action) String() string {
	switch a {
	case CloseSession:
		return "close"
	case StopServer:
		return "stop"
	default:
		return "continue"
	}
}

// Result is the outcome of executing one command.
type Result struct {
	// single line to send back, without line terminator
	Reply string
	Action Action
}

// Store gives read access to the dataset.
type Store interface {
	Lookup(countryCode, indicatorCode string) (models.IndicatorRecord, error)
	MeanOf(countryName, indicatorCode string) (float64, bool)
}

// Execute evaluates a command against the store.
// It always returns a reply: lookup misses, store failures and even panics are turned into text for the client,
// the last two are logged as well.
func Execute(cmd Command, st Store, logger *out.Logger) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("executing %q: %v", cmd.Verb(), r)
			res = Result{Reply: fmt.Sprintf("Error: %v", r)}
		}
	}()

	switch c := cmd.(type) {
	case Query:
		return Result{Reply: query(c, st, logger)}
	case Report:
		return Result{Reply: report(c, st, logger)}
	case Stop:
		return Result{Reply: StopReply, Action: StopServer}
	case Disconnect:
		return Result{Reply: DisconnectReply, Action: CloseSession}
	case Invalid:
		return Result{Reply: c.Reason}
	case Malformed:
		return Result{Reply: unknown(c.RawVerb)}
	default:
		return Result{Reply: unknown(cmd.Verb())}
	}
}

func query(q Query, st Store, logger *out.Logger) string {
	r, err := st.Lookup(q.CountryCode, q.IndicatorCode)
	if err != nil {
		return lookupFailed(q.CountryCode, q.IndicatorCode, err, logger)
	}
	value := NoValue
	if v, ok := r.Value(q.Year); ok {
		value = conv.FormatValue(v)
	}
	return fmt.Sprintf("country -> %s has %s had %s in year %d", r.CountryName, r.IndicatorName, value, q.Year)
}

func report(rq Report, st Store, logger *out.Logger) string {
	r, err := st.Lookup(rq.CountryCode, rq.IndicatorCode)
	if err != nil {
		return lookupFailed(rq.CountryCode, rq.IndicatorCode, err, logger)
	}
	mean := NoMean
	if m, ok := st.MeanOf(r.CountryName, r.IndicatorCode); ok {
		mean = conv.FormatValue(m)
	}
	years := "n/a"
	if first, last, ok := r.Span(); ok {
		years = fmt.Sprintf("%d-%d", first, last)
	}
	return fmt.Sprintf("country -> %s has %s with mean average of %s over the years %s",
		r.CountryName, r.IndicatorName, mean, years)
}

func lookupFailed(countryCode, indicatorCode string, err error, logger *out.Logger) string {
	if errors.Cause(err) == store.ErrNotFound {
		return NotFound(countryCode, indicatorCode)
	}
	logger.Errorf("looking up %s: %v", models.Key(countryCode, indicatorCode), err)
	return "Error: " + err.Error()
}

// NotFound is the reply to a query or report for a record that doesn't exist.
func NotFound(countryCode, indicatorCode string) string {
	return fmt.Sprintf("No data found for %s%s%s", countryCode, Delimiter, indicatorCode)
}

func unknown(verb string) string {
	return "Unknown command: " + verb
}
