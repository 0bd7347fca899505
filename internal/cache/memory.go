package cache

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

type memoryItem struct {
	data      []byte
	expiresAt time.Time
}

// MemoryCache 进程内 LRU 缓存，未配置 Redis 时的兜底实现
type MemoryCache struct {
	lruCache *lru.Cache[string, memoryItem]
}

func NewMemory(size int) (*MemoryCache, error) {
	if size <= 0 {
		size = 500
	}
	l, err := lru.New[string, memoryItem](size)
	if err != nil {
		return nil, err
	}
	return &MemoryCache{lruCache: l}, nil
}

func (c *MemoryCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	item, ok := c.lruCache.Get(key)
	if !ok {
		return false, nil
	}
	if time.Now().After(item.expiresAt) {
		c.lruCache.Remove(key)
		return false, nil
	}
	if err := unmarshal(item.data, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := marshal(value)
	if err != nil {
		return err
	}
	c.lruCache.Add(key, memoryItem{data: data, expiresAt: time.Now().Add(ttl)})
	return nil
}

func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.lruCache.Remove(key)
	return nil
}
