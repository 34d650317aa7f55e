package loader

import (
	"context"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/c9s/barfeed/pkg/cache"
	"github.com/c9s/barfeed/pkg/types"
)

var _ DataLoader = (*CachedLoader)(nil)

// CachedLoader keeps a JSON copy of every loaded history under Dir.
type CachedLoader struct {
	Loader DataLoader
	Dir    string
	Prefix string
	Expiry time.Duration
}

func NewCachedLoader(loader DataLoader, dir string) *CachedLoader {
	return &CachedLoader{
		Loader: loader,
		Dir:    dir,
		Prefix: "bars",
		Expiry: cache.DefaultExpiry,
	}
}

// sourceKey identifies the wrapped loader and its settings. Loaders without a
// CacheKey method are identified by their type.
func (l *CachedLoader) sourceKey() string {
	if keyer, ok := l.Loader.(CacheKeyer); ok {
		return keyer.CacheKey()
	}

	return fmt.Sprintf("%T", l.Loader)
}

// key is <prefix>-<SYMBOL>-<hash of the source key>, the hash keeps DSNs and
// paths out of the file name.
func (l *CachedLoader) key(symbol types.Symbol) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(l.sourceKey()))
	key := fmt.Sprintf("%s-%016x", symbol, h.Sum64())
	if l.Prefix == "" {
		return key
	}

	return l.Prefix + "-" + key
}

func (l *CachedLoader) Load(ctx context.Context, symbol types.Symbol) (bars []types.Bar, err error) {
	c := cache.New(l.Dir, l.Expiry)
	err = cache.WithCache(c, l.key(symbol), &bars, func() ([]types.Bar, error) {
		return l.Loader.Load(ctx, symbol)
	})
	return bars, err
}
