// Package config loads the YAML replay configuration and builds the data
// loader and the strategies from it.
package config

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/c9s/barfeed/pkg/cache"
	"github.com/c9s/barfeed/pkg/loader"
	"github.com/c9s/barfeed/pkg/service"
	"github.com/c9s/barfeed/pkg/strategy"
	"github.com/c9s/barfeed/pkg/types"
)

const (
	SourceCSV   = "csv"
	SourceSQL   = "sql"
	SourceRedis = "redis"
)

type Stash map[string]interface{}

type ReplayConfig struct {
	Symbols []types.Symbol `json:"symbols" yaml:"symbols"`

	// StartDate moves the first replayed date forward, it never moves it before the common start date
	StartDate types.BarDate `json:"startDate,omitempty" yaml:"startDate,omitempty"`
	EndDate   types.BarDate `json:"endDate,omitempty" yaml:"endDate,omitempty"`
}

type CSVSourceConfig struct {
	Dir string `json:"dir" yaml:"dir"`
}

type SQLSourceConfig struct {
	Driver string `json:"driver" yaml:"driver"`
	DSN    string `json:"dsn" yaml:"dsn"`
	Table  string `json:"table,omitempty" yaml:"table,omitempty"`
}

type CacheConfig struct {
	Dir    string        `json:"dir,omitempty" yaml:"dir,omitempty"`
	Expiry time.Duration `json:"expiry,omitempty" yaml:"expiry,omitempty"`
}

type SourceConfig struct {
	Driver string `json:"driver" yaml:"driver"`

	CSV   *CSVSourceConfig    `json:"csv,omitempty" yaml:"csv,omitempty"`
	SQL   *SQLSourceConfig    `json:"sql,omitempty" yaml:"sql,omitempty"`
	Redis *loader.RedisConfig `json:"redis,omitempty" yaml:"redis,omitempty"`

	// Cache wraps the loader with the JSON file cache when set, the default directory is cache.Dir()
	Cache *CacheConfig `json:"cache,omitempty" yaml:"cache,omitempty"`
}

type Config struct {
	Replay ReplayConfig `json:"replay" yaml:"replay"`
	Source SourceConfig `json:"source" yaml:"source"`

	Strategies []strategy.Strategy `json:"-" yaml:"-"`
}

func Load(configFile string) (*Config, error) {
	content, err := os.ReadFile(configFile)
	if err != nil {
		return nil, err
	}

	return LoadFromBytes(content)
}

func LoadFromBytes(content []byte) (*Config, error) {
	var config Config
	if err := yaml.Unmarshal(content, &config); err != nil {
		return nil, err
	}

	stash := make(Stash)
	if err := yaml.Unmarshal(content, stash); err != nil {
		return nil, err
	}

	strategies, err := loadStrategies(stash)
	if err != nil {
		return nil, err
	}

	config.Strategies = strategies
	config.Source.Driver = strings.ToLower(config.Source.Driver)
	if config.Source.Driver == "" {
		config.Source.Driver = SourceCSV
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func loadStrategies(stash Stash) (strategies []strategy.Strategy, err error) {
	strategiesConf, ok := stash["strategies"]
	if !ok {
		return nil, nil
	}

	configList, ok := strategiesConf.([]interface{})
	if !ok {
		return nil, errors.New("expecting list in strategies")
	}

	for _, entry := range configList {
		configStash, ok := entry.(map[string]interface{})
		if !ok {
			return nil, errors.Errorf("strategy config should be a map, given: %T %+v", entry, entry)
		}

		for id, conf := range configStash {
			st, err := strategy.NewFromMap(id, conf)
			if err != nil {
				return nil, err
			}

			strategies = append(strategies, st)
		}
	}

	return strategies, nil
}

// Validate collects every configuration error.
func (c *Config) Validate() (err error) {
	if len(c.Replay.Symbols) == 0 {
		err = multierr.Append(err, errors.New("replay.symbols: at least one symbol is required"))
	}

	if !c.Replay.StartDate.IsZero() && !c.Replay.EndDate.IsZero() && c.Replay.EndDate.Before(c.Replay.StartDate) {
		err = multierr.Append(err, errors.Errorf("replay.endDate %s is before replay.startDate %s", c.Replay.EndDate, c.Replay.StartDate))
	}

	switch c.Source.Driver {
	case SourceCSV:
		if c.Source.CSV == nil || c.Source.CSV.Dir == "" {
			err = multierr.Append(err, errors.New("source.csv.dir is required"))
		}

	case SourceSQL:
		if c.Source.SQL == nil || c.Source.SQL.Driver == "" || c.Source.SQL.DSN == "" {
			err = multierr.Append(err, errors.New("source.sql.driver and source.sql.dsn are required"))
		}

	case SourceRedis:
		if c.Source.Redis == nil || c.Source.Redis.Host == "" {
			err = multierr.Append(err, errors.New("source.redis.host is required"))
		}

	default:
		err = multierr.Append(err, errors.Errorf("unsupported source driver %q", c.Source.Driver))
	}

	for _, st := range c.Strategies {
		if validator, ok := st.(strategy.Validator); ok {
			if verr := validator.Validate(); verr != nil {
				err = multierr.Append(err, errors.Wrapf(verr, "strategy %s", st.ID()))
			}
		}
	}

	return err
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// NewLoader builds the data loader of the configured source. The returned
// closer releases the database or redis connection.
func (c *Config) NewLoader(ctx context.Context) (loader.DataLoader, io.Closer, error) {
	var dataLoader loader.DataLoader
	var closer io.Closer = nopCloser{}

	switch c.Source.Driver {
	case SourceCSV:
		dataLoader = loader.NewCSVLoader(c.Source.CSV.Dir)

	case SourceSQL:
		db := service.NewDatabaseService(c.Source.SQL.Driver, c.Source.SQL.DSN)
		if err := db.Connect(ctx); err != nil {
			return nil, nil, errors.Wrapf(err, "unable to connect to %s database", c.Source.SQL.Driver)
		}

		if err := db.Upgrade(ctx); err != nil {
			_ = db.Close()
			return nil, nil, errors.Wrapf(err, "unable to upgrade %s database", c.Source.SQL.Driver)
		}

		sqlLoader := loader.NewSQLLoader(db.DB, c.Source.SQL.Table)
		sqlLoader.Source = db.DSN
		sqlLoader.Until = c.Replay.EndDate
		dataLoader = sqlLoader
		closer = closerFunc(db.Close)

	case SourceRedis:
		redisLoader := loader.NewRedisLoader(c.Source.Redis)
		dataLoader = redisLoader
		closer = closerFunc(redisLoader.Close)

	default:
		return nil, nil, fmt.Errorf("unsupported source driver %q", c.Source.Driver)
	}

	if c.Source.Cache != nil {
		dir := c.Source.Cache.Dir
		if dir == "" {
			dir = cache.Dir()
		}

		cachedLoader := loader.NewCachedLoader(dataLoader, dir)
		if c.Source.Cache.Expiry > 0 {
			cachedLoader.Expiry = c.Source.Cache.Expiry
		}
		dataLoader = cachedLoader
	}

	log.Infof("using %s bar source", c.Source.Driver)
	return dataLoader, closer, nil
}
