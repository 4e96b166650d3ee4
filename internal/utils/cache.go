package utils

import (
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/patrickmn/go-cache"
)

// Cache 全局缓存实例（热门推荐等短期结果）
var Cache *cache.Cache

var cacheMu sync.Mutex

// InitCache 初始化缓存
func InitCache() {
	// 默认过期时间1分钟，清理间隔5分钟
	Cache = cache.New(1*time.Minute, 5*time.Minute)
}

// ensureCache 未显式初始化时惰性初始化，访问器不因调用顺序崩溃
func ensureCache() *cache.Cache {
	cacheMu.Lock()
	defer cacheMu.Unlock()
	if Cache == nil {
		InitCache()
	}
	return Cache
}

// CacheGet 获取缓存值
func CacheGet(key string) (interface{}, bool) {
	return ensureCache().Get(key)
}

// CacheSet 设置缓存值
func CacheSet(key string, value interface{}, duration time.Duration) {
	ensureCache().Set(key, value, duration)
}

// CacheDelete 删除缓存
func CacheDelete(key string) {
	ensureCache().Delete(key)
}

// CacheItem 包装实际的数据，增加过期时间
type CacheItem[T any] struct {
	Value     T
	ExpiredAt time.Time
}

// LookupCache 查询结果缓存封装（电影详情等按 key 查询的结果）
type LookupCache[T any] struct {
	storage *lru.Cache[string, CacheItem[T]]
	ttl     time.Duration
}

// NewLookupCache 初始化，size 是最大缓存条数（如 1000），ttl 是数据有效期（如 10分钟）
func NewLookupCache[T any](size int, ttl time.Duration) *LookupCache[T] {
	// lru.New 是线程安全的
	c, _ := lru.New[string, CacheItem[T]](size)
	return &LookupCache[T]{
		storage: c,
		ttl:     ttl,
	}
}

// Set 写入缓存（LRU 中 Add 会自动处理更新）
func (c *LookupCache[T]) Set(key string, value T) {
	item := CacheItem[T]{
		Value:     value,
		ExpiredAt: time.Now().Add(c.ttl),
	}
	c.storage.Add(key, item)
}

// Get 读取缓存（带过期检查）
func (c *LookupCache[T]) Get(key string) (T, bool) {
	var zero T // 泛型零值
	item, ok := c.storage.Get(key)
	if !ok {
		return zero, false
	}

	// 检查是否过期
	if time.Now().After(item.ExpiredAt) {
		c.storage.Remove(key) // 过期删除
		return zero, false
	}

	return item.Value, true
}

// Delete 删除缓存
func (c *LookupCache[T]) Delete(key string) {
	c.storage.Remove(key)
}

// Len 当前缓存条数
func (c *LookupCache[T]) Len() int {
	return c.storage.Len()
}
