package loader

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"strings"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/c9s/barfeed/pkg/types"
)

var redisLogger = log.WithFields(log.Fields{
	"loader": "redis",
})

type RedisConfig struct {
	Host      string `yaml:"host" json:"host" env:"REDIS_HOST"`
	Port      string `yaml:"port" json:"port" env:"REDIS_PORT"`
	Password  string `yaml:"password,omitempty" json:"password,omitempty" env:"REDIS_PASSWORD"`
	DB        int    `yaml:"db" json:"db" env:"REDIS_DB"`
	Namespace string `yaml:"namespace" json:"namespace" env:"REDIS_NAMESPACE"`
}

var _ DataLoader = (*RedisLoader)(nil)

// RedisLoader reads the bars of a symbol stored as a JSON array under
// <namespace>:bars:<SYMBOL>.
type RedisLoader struct {
	redis     redis.UniversalClient
	namespace string
	addr      string
}

func NewRedisLoader(config *RedisConfig) *RedisLoader {
	client := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(config.Host, config.Port),
		Password: config.Password,
		DB:       config.DB,
	})

	loader := NewRedisLoaderWithClient(client, config.Namespace)
	loader.addr = fmt.Sprintf("%s/%d", client.Options().Addr, config.DB)
	return loader
}

func NewRedisLoaderWithClient(client redis.UniversalClient, namespace string) *RedisLoader {
	return &RedisLoader{redis: client, namespace: namespace}
}

func (l *RedisLoader) CacheKey() string {
	return fmt.Sprintf("redis:%s:%s", l.addr, l.namespace)
}

func (l *RedisLoader) Key(symbol types.Symbol) string {
	var parts []string
	if l.namespace != "" {
		parts = append(parts, l.namespace)
	}

	parts = append(parts, "bars", symbol.String())
	return strings.Join(parts, ":")
}

func (l *RedisLoader) Load(ctx context.Context, symbol types.Symbol) ([]types.Bar, error) {
	key := l.Key(symbol)
	data, err := l.redis.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.Wrapf(types.ErrSymbolNotFound, "redis loader: %s", key)
		}

		return nil, errors.Wrapf(err, "redis loader: %s", key)
	}

	// skip null data
	if len(data) == 0 || string(data) == "null" {
		return nil, errors.Wrapf(types.ErrSymbolNotFound, "redis loader: %s", key)
	}

	var bars []types.Bar
	if err := json.Unmarshal(data, &bars); err != nil {
		return nil, errors.Wrapf(err, "redis loader: %s", key)
	}

	redisLogger.Debugf("[redis] get key %q, %d bars", key, len(bars))
	return bars, nil
}

// Save replaces the stored bars of the symbol.
func (l *RedisLoader) Save(ctx context.Context, symbol types.Symbol, bars []types.Bar) error {
	data, err := json.Marshal(bars)
	if err != nil {
		return err
	}

	key := l.Key(symbol)
	redisLogger.Debugf("[redis] set key %q, %d bars", key, len(bars))
	return l.redis.Set(ctx, key, data, 0).Err()
}

func (l *RedisLoader) Close() error {
	return l.redis.Close()
}
