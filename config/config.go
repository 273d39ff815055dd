package config

import (
	"io/ioutil"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config holds the hey-wdi settings, as read from a YAML file.
type Config struct {
	// host:port the command server listens on
	Addr string `yaml:"addr"`
	// path to the dataset, a World Bank CSV export or a JSON snapshot
	Data string `yaml:"data"`
	// idle time after which a connection is closed, 0 disables it
	ReadTimeout time.Duration `yaml:"read_timeout"`
	// time given to open connections to finish after a stop request
	ShutdownGrace time.Duration `yaml:"shutdown_grace"`
	// 0 means no limit
	MaxConnections int `yaml:"max_connections"`
	// host:port of the Prometheus endpoint, disabled if empty
	MetricsAddr string `yaml:"metrics_addr"`
	// reads the dataset again for every query and report
	InvalidateAfterRequest bool                `yaml:"invalidate_after_request"`
	Debug                  bool                `yaml:"debug"`
	Elasticsearch          ElasticsearchConfig `yaml:"elasticsearch"`
}

// ElasticsearchConfig describes where to export the dataset to. Export is disabled if URL is empty.
type ElasticsearchConfig struct {
	URL      string `yaml:"url"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Index    string `yaml:"index"`
}

func Default() Config {
	return Config{
		Addr:          ":8080",
		Data:          "WDIData.csv",
		ShutdownGrace: 5 * time.Second,
		Elasticsearch: ElasticsearchConfig{
			Index: "wdi",
		},
	}
}

// Load reads the YAML file at `path` on top of the defaults.
// Keys missing from the file keep their default value.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "reading config file")
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parsing %s", path)
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	switch {
	case c.Addr == "":
		return errors.New("addr is required")
	case c.Data == "":
		return errors.New("data is required")
	case c.ReadTimeout < 0:
		return errors.Errorf("read_timeout can't be negative, got %s", c.ReadTimeout)
	case c.ShutdownGrace < 0:
		return errors.Errorf("shutdown_grace can't be negative, got %s", c.ShutdownGrace)
	case c.MaxConnections < 0:
		return errors.Errorf("max_connections can't be negative, got %d", c.MaxConnections)
	case c.Elasticsearch.URL != "" && c.Elasticsearch.Index == "":
		return errors.New("elasticsearch.index is required to export")
	}
	return nil
}
