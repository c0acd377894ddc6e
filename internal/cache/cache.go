// Package cache - кэш в памяти процесса с временем жизни до перезапуска.
// Записи не истекают автоматически: единственный способ удаления - явный Evict.
package cache

import "sync"

// Cache - потокобезопасный кэш. Кэш best-effort и не является источником
// истины: конкурентные промахи по одному ключу могут выполнить
// нижележащий запрос дважды, это допустимо.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]interface{}
}

func New() *Cache {
	return &Cache{entries: make(map[string]interface{})}
}

func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	value, ok := c.entries[key]
	return value, ok
}

func (c *Cache) Set(key string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
}

// Evict удаляет запись по ключу (cache-aside инвалидация)
func (c *Cache) Evict(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// GetOrCompute возвращает значение из кэша или вычисляет и сохраняет его.
// Функция compute выполняется без удержания блокировки.
func (c *Cache) GetOrCompute(key string, compute func() (interface{}, error)) (interface{}, error) {
	if value, ok := c.Get(key); ok {
		return value, nil
	}

	value, err := compute()
	if err != nil {
		return nil, err
	}

	c.Set(key, value)
	return value, nil
}

// Len возвращает количество записей в кэше
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
