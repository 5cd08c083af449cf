package cache

// Cache is a minimal generic cache abstraction.
type Cache[K comparable, V any] interface {
	Get(key K) (*V, bool)
	Set(key K, value *V)
	Invalidate(key K)
	InvalidateAll()
}

// InMemory is a plain map-backed Cache. Not safe for concurrent use; the
// engine is single-threaded by contract.
type InMemory[K comparable, V any] struct {
	entries map[K]*V
}

func NewInMemory[K comparable, V any]() *InMemory[K, V] {
	return &InMemory[K, V]{entries: make(map[K]*V)}
}

func (c *InMemory[K, V]) Get(key K) (*V, bool) {
	v, ok := c.entries[key]
	return v, ok
}

func (c *InMemory[K, V]) Set(key K, value *V) {
	c.entries[key] = value
}

func (c *InMemory[K, V]) Invalidate(key K) {
	delete(c.entries, key)
}

func (c *InMemory[K, V]) InvalidateAll() {
	c.entries = make(map[K]*V)
}
