package gist

import (
	"context"
	"errors"
	"time"

	"gistsync-api/internal/core/cache"
)

// CachedFetcher 用 Redis 缓存文件列表；未知 gist（空列表）不缓存
type CachedFetcher struct {
	Next  Fetcher
	Cache *cache.Cache
	TTL   time.Duration
}

func (f *CachedFetcher) FetchFiles(ctx context.Context, id string) ([]string, error) {
	if id == "" {
		return []string{}, nil
	}
	files, err := cache.GetOrLoadJSON(f.Cache, ctx, "gist:"+id, f.TTL, func(ctx context.Context) ([]string, error) {
		files, err := f.Next.FetchFiles(ctx, id)
		if err != nil {
			return nil, err
		}
		if len(files) == 0 {
			return nil, errUnknown
		}
		return files, nil
	})
	if errors.Is(err, errUnknown) {
		return []string{}, nil
	}
	return files, err
}

var errUnknown = errors.New("unknown gist")
