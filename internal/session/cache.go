package session

import "sync"

// Cache はidentityに紐づくアプリケーションキャッシュを抽象化する。
// サインアウト時とUID切り替え時に全消去される。
type Cache interface {
	Clear()
}

// MemoryCache はインメモリのCache実装。
type MemoryCache struct {
	mu   sync.RWMutex
	data map[string]any
}

// NewMemoryCache はMemoryCacheの新しいインスタンスを生成する。
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{data: make(map[string]any)}
}

var _ Cache = (*MemoryCache)(nil)

// Get はキーに対応する値を返す。
func (c *MemoryCache) Get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.data[key]
	return v, ok
}

// Set はキーに値を設定する。
func (c *MemoryCache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
}

// Len は保持しているエントリ数を返す。
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}

// Clear は全エントリを削除する。
func (c *MemoryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string]any)
}
