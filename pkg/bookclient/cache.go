package bookclient

import (
	"sync"
)

// 缓存tag
const (
	TagBooks   = "books"   // 全部图书列表
	TagMyBooks = "myBooks" // 我的图书列表
	TagBook    = "book"    // 单本图书详情
)

// Cache 查询缓存
// 每个条目带若干tag，写操作成功后按tag整体失效，下次读取重新请求
type Cache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	value interface{}
	tags  []string
}

// NewCache 创建缓存
func NewCache() *Cache {
	return &Cache{entries: make(map[string]cacheEntry)}
}

// Get 读取缓存
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	return e.value, true
}

// Set 写入缓存
func (c *Cache) Set(key string, value interface{}, tags ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{value: value, tags: tags}
}

// Invalidate 删除带有任一tag的条目，返回删除数量
func (c *Cache) Invalidate(tags ...string) int {
	want := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		want[t] = struct{}{}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for key, e := range c.entries {
		for _, t := range e.tags {
			if _, ok := want[t]; ok {
				delete(c.entries, key)
				n++
				break
			}
		}
	}
	return n
}

// Len 条目数量
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// getTyped 带类型的读取
func getTyped[T any](c *Cache, key string) (T, bool) {
	var zero T
	v, ok := c.Get(key)
	if !ok {
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}
