package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

type Cache struct {
	RDB    *redis.Client
	Prefix string

	loadTimeout time.Duration
	sf          singleflight.Group
}

type Options struct {
	Addr        string
	Password    string
	DB          int
	Prefix      string        // key 前缀，如 "gistsync:"
	DialTimeout time.Duration // 缓存只是加速，超时要短
	LoadTimeout time.Duration // 回源上限，与发起请求的 ctx 无关
}

func New(o Options) *Cache {
	dt := o.DialTimeout
	if dt <= 0 {
		dt = 500 * time.Millisecond
	}
	lt := o.LoadTimeout
	if lt <= 0 {
		lt = 10 * time.Second
	}
	return &Cache{
		RDB: redis.NewClient(&redis.Options{
			Addr:         o.Addr,
			Password:     o.Password,
			DB:           o.DB,
			DialTimeout:  dt,
			ReadTimeout:  dt,
			WriteTimeout: dt,
			MaxRetries:   -1, // 单次尝试，失败直接回源
		}),
		Prefix:      o.Prefix,
		loadTimeout: lt,
	}
}

func (c *Cache) Close() error { return c.RDB.Close() }

// GetOrLoad 缓存不可用时退化为直接回源
// 回源被多个请求共享，不能跟随第一个请求的 ctx 取消；调用方各自按自己的 ctx 放弃等待
func (c *Cache) GetOrLoad(ctx context.Context, key string, ttl time.Duration, load func(context.Context) ([]byte, error)) ([]byte, error) {
	key = c.Prefix + key
	if b, err := c.RDB.Get(ctx, key).Bytes(); err == nil {
		return b, nil
	}
	// single flight 合并回源
	ch := c.sf.DoChan(key, func() (any, error) {
		lctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.loadTimeout)
		defer cancel()
		b, e := load(lctx)
		if e != nil {
			return nil, e
		}
		_ = c.RDB.Set(lctx, key, b, ttl).Err()
		return b, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return nil, r.Err
		}
		return r.Val.([]byte), nil
	}
}
