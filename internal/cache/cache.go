package cache

import (
	"context"
	"encoding/json"
	"time"
)

// Cache 简单的键值缓存抽象，值以 JSON 编码存储
type Cache interface {
	// Get 读取 key 并反序列化到 dest，返回是否命中
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Remember 缓存旁路辅助函数：命中直接返回，未命中调用 loader 并回填。
// 缓存读写失败只降级为直接加载，不向调用方冒泡。
func Remember[T any](ctx context.Context, c Cache, key string, ttl time.Duration, loader func() (T, error)) (T, error) {
	var cached T
	if ok, err := c.Get(ctx, key, &cached); err == nil && ok {
		return cached, nil
	}

	fresh, err := loader()
	if err != nil {
		return fresh, err
	}
	_ = c.Set(ctx, key, fresh, ttl)
	return fresh, nil
}

func marshal(value interface{}) ([]byte, error) {
	return json.Marshal(value)
}

func unmarshal(data []byte, dest interface{}) error {
	return json.Unmarshal(data, dest)
}
