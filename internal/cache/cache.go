package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Cache 进程内缓存，测试中可替换或清空
type Cache interface {
	Get(key string) (interface{}, bool)
	Set(key string, value interface{}, ttl time.Duration)
	Clear()
}

type memoryCache struct {
	store *gocache.Cache
}

// NewMemoryCache 创建内存缓存，cleanupInterval 为过期条目的清理周期
func NewMemoryCache(cleanupInterval time.Duration) Cache {
	return &memoryCache{store: gocache.New(gocache.NoExpiration, cleanupInterval)}
}

func (m *memoryCache) Get(key string) (interface{}, bool) {
	return m.store.Get(key)
}

func (m *memoryCache) Set(key string, value interface{}, ttl time.Duration) {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	m.store.Set(key, value, ttl)
}

func (m *memoryCache) Clear() {
	m.store.Flush()
}
