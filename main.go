package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	s "strings"
	"syscall"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	"github.com/struCoder/pidusage"

	"github.com/elastic/hey-wdi/commands"
	"github.com/elastic/hey-wdi/config"
	"github.com/elastic/hey-wdi/conv"
	"github.com/elastic/hey-wdi/es"
	"github.com/elastic/hey-wdi/loader"
	"github.com/elastic/hey-wdi/metric"
	"github.com/elastic/hey-wdi/models"
	"github.com/elastic/hey-wdi/out"
	"github.com/elastic/hey-wdi/server"
	"github.com/elastic/hey-wdi/store"
)

const exportTimeout = 5 * time.Minute

func newFlagSet(name string) *flag.FlagSet {
	defaults := config.Default()
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	fs.String("config", "", "YAML config file, flags take precedence over it")
	fs.String("addr", defaults.Addr, "address to listen on")
	fs.String("data", defaults.Data, "dataset file, either a World Bank CSV export or a JSON snapshot")
	fs.Duration("read-timeout", defaults.ReadTimeout, "close connections idle for longer than this, 0 disables it")
	fs.Duration("shutdown-grace", defaults.ShutdownGrace, "time given to open connections to finish after a stop request")
	fs.Int("max-connections", defaults.MaxConnections, "maximum number of connections served at the same time, 0 means no limit")
	fs.String("metrics-addr", defaults.MetricsAddr, "address to serve Prometheus metrics on, disabled if empty")
	fs.Bool("invalidate-after-request", defaults.InvalidateAfterRequest, "read the dataset again for every query and report")
	fs.Bool("debug", defaults.Debug, "log every command and reply")
	fs.String("es-url", defaults.Elasticsearch.URL, "elasticsearch node to export the dataset to, \"local\" is short for http://localhost:9200")
	fs.String("es-auth", "", "elasticsearch credentials, as username:password")
	fs.String("es-index", defaults.Elasticsearch.Index, "elasticsearch index to export the dataset to")
	fs.String("dump", "", "write the dataset as a JSON snapshot to this file and exit")
	fs.String("describe", "", "print the record for <country code>;<indicator code> and exit")
	return fs
}

func flagValue(fs *flag.FlagSet, name string) string {
	return fs.Lookup(name).Value.String()
}

// loads the config file, if any, and overrides it with the flags explicitly set
func loadConfig(fs *flag.FlagSet) (config.Config, error) {
	cfg := config.Default()
	if path := flagValue(fs, "config"); path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return cfg, err
		}
	}

	fs.Visit(func(f *flag.Flag) {
		v := f.Value.(flag.Getter).Get()
		switch f.Name {
		case "addr":
			cfg.Addr = v.(string)
		case "data":
			cfg.Data = v.(string)
		case "read-timeout":
			cfg.ReadTimeout = v.(time.Duration)
		case "shutdown-grace":
			cfg.ShutdownGrace = v.(time.Duration)
		case "max-connections":
			cfg.MaxConnections = v.(int)
		case "metrics-addr":
			cfg.MetricsAddr = v.(string)
		case "invalidate-after-request":
			cfg.InvalidateAfterRequest = v.(bool)
		case "debug":
			cfg.Debug = v.(bool)
		case "es-url":
			cfg.Elasticsearch.URL = v.(string)
		case "es-auth":
			cfg.Elasticsearch.Username, cfg.Elasticsearch.Password = splitAuth(v.(string))
		case "es-index":
			cfg.Elasticsearch.Index = v.(string)
		}
	})
	return cfg, errors.Wrap(cfg.Validate(), "invalid configuration")
}

func splitAuth(auth string) (username, password string) {
	if sep := s.IndexRune(auth, ':'); sep >= 0 {
		return auth[:sep], auth[sep+1:]
	}
	return auth, ""
}

func joinAuth(esCfg config.ElasticsearchConfig) string {
	if esCfg.Password == "" {
		return esCfg.Username
	}
	return esCfg.Username + ":" + esCfg.Password
}

func logMemory(logger *out.Logger) {
	info, err := pidusage.GetStat(os.Getpid())
	if err != nil {
		logger.Debugf("reading memory usage: %v", err)
		return
	}
	logger.Infof("memory usage: %s", conv.ByteCountDecimal(int64(info.Memory)))
}

func export(logger *out.Logger, esCfg config.ElasticsearchConfig, ds models.Dataset) {
	conn, err := es.NewConnection(esCfg.URL, joinAuth(esCfg))
	if err != nil {
		logger.Errorf("%v", err)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), exportTimeout)
	defer cancel()

	start := time.Now()
	n, err := es.Export(ctx, conn, esCfg.Index, ds)
	if err != nil {
		logger.Errorf("exporting to %s after %d records: %v", conn.Url, n, err)
		return
	}
	count, err := es.Count(ctx, conn, esCfg.Index)
	if err != nil {
		logger.Errorf("%v", err)
	}
	logger.Infof("exported %d records to %s/%s in %s, the index has %d documents",
		n, conn.Url, esCfg.Index, time.Since(start).Round(time.Millisecond), count)
}

// writes the dataset as a snapshot to `filename`
func dump(filename string, ds models.Dataset) (int, error) {
	f, err := os.Create(filename)
	if err != nil {
		return 0, errors.Wrap(err, "creating snapshot")
	}
	n, err := loader.WriteSnapshot(f, ds)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return n, err
}

// prints all the details of a record, `key` is <country code>;<indicator code>
func describe(w io.Writer, st *store.Store, key string) error {
	codes := s.Split(key, commands.Delimiter)
	if len(codes) != 2 {
		return errors.Errorf("expected <country code>%s<indicator code>, got %q", commands.Delimiter, key)
	}
	r, err := st.Lookup(codes[0], codes[1])
	if err != nil {
		return errors.Wrap(err, key)
	}
	cfg := spew.ConfigState{Indent: "  ", SortKeys: true, DisablePointerAddresses: true}
	cfg.Fdump(w, r)
	return nil
}

func serveMetrics(logger *out.Logger, addr string, m *metric.Metrics) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		logger.Infof("serving metrics on %s/metrics", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Errorf("serving metrics: %v", err)
		}
	}()
	return srv
}

func main() {
	fs := newFlagSet(os.Args[0])
	fs.Parse(os.Args[1:])

	cfg, err := loadConfig(fs)
	logger := out.NewLogger(os.Stderr, cfg.Debug)
	if err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}

	metrics := metric.NewMetrics()
	st := store.New(loader.FromFile(cfg.Data), store.WithLogger(logger), store.WithMetrics(metrics))
	ds, err := st.Load()
	if err != nil {
		logger.Errorf("can't start without a dataset: %v", err)
		os.Exit(1)
	}
	logMemory(logger)

	if cfg.Elasticsearch.URL != "" {
		export(logger, cfg.Elasticsearch, ds)
	}

	if key := flagValue(fs, "describe"); key != "" {
		if err := describe(os.Stdout, st, key); err != nil {
			logger.Errorf("%v", err)
			os.Exit(1)
		}
		return
	}
	if filename := flagValue(fs, "dump"); filename != "" {
		n, err := dump(filename, ds)
		if err != nil {
			logger.Errorf("dumping dataset: %v", err)
			os.Exit(1)
		}
		fmt.Printf("%s written to %s\n", conv.ByteCountDecimal(int64(n)), filename)
		return
	}

	if cfg.MetricsAddr != "" {
		metricsSrv := serveMetrics(logger, cfg.MetricsAddr, metrics)
		defer metricsSrv.Close()
	}

	srv := server.New(server.Config{
		Addr:                   cfg.Addr,
		ReadTimeout:            cfg.ReadTimeout,
		ShutdownGrace:          cfg.ShutdownGrace,
		MaxConnections:         cfg.MaxConnections,
		InvalidateAfterRequest: cfg.InvalidateAfterRequest,
	}, st, logger, metrics)
	if err := srv.Listen(); err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}

	// stop on signal, reload the dataset on SIGHUP
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	go func() {
		for sig := range c {
			if sig == syscall.SIGHUP {
				logger.Infof("caught %s, reloading %s", sig, cfg.Data)
				if err := st.Reload(); err == nil {
					logMemory(logger)
				}
				continue
			}
			logger.Infof("caught %s, stopping", sig)
			srv.Shutdown()
		}
	}()

	if err := srv.Serve(); err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
	logger.Infof("bye")
}
