package utils

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// CacheItem 包装实际的数据，增加过期时间
type CacheItem[T any] struct {
	Value     T
	ExpiredAt time.Time
}

// ResultCache LLM 分类结果缓存封装
// 同一部电影的简介不会变化，分类结果可以安全复用，避免重复请求模型
type ResultCache[T any] struct {
	storage *lru.Cache[string, CacheItem[T]]
	ttl     time.Duration
}

// NewResultCache 初始化，size 是最大缓存条数，ttl 是数据有效期
func NewResultCache[T any](size int, ttl time.Duration) *ResultCache[T] {
	// lru.New 是线程安全的
	c, _ := lru.New[string, CacheItem[T]](size)
	return &ResultCache[T]{
		storage: c,
		ttl:     ttl,
	}
}

// Set 写入缓存（LRU 中 Add 会自动处理更新）
func (c *ResultCache[T]) Set(key string, value T) {
	item := CacheItem[T]{
		Value:     value,
		ExpiredAt: time.Now().Add(c.ttl),
	}
	c.storage.Add(key, item)
}

// Get 读取缓存（带过期检查）
func (c *ResultCache[T]) Get(key string) (T, bool) {
	var zero T
	item, ok := c.storage.Get(key)
	if !ok {
		return zero, false
	}

	// 检查是否过期
	if time.Now().After(item.ExpiredAt) {
		c.storage.Remove(key)
		return zero, false
	}

	return item.Value, true
}

// Delete 删除指定缓存
func (c *ResultCache[T]) Delete(key string) {
	c.storage.Remove(key)
}

// Clear 清空所有缓存
func (c *ResultCache[T]) Clear() {
	c.storage.Purge()
}

// Len 获取当前缓存条数
func (c *ResultCache[T]) Len() int {
	return c.storage.Len()
}
