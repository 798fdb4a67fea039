// Package cache, generic in-memory TTL cache.
//
// Okumada süre kontrol edilir; süresi dolan kayıtlar arka planda periyodik
// olarak map'ten silinir.
package cache

import (
	"sync"
	"time"
)

type item[V any] struct {
	value     V
	expiresAt time.Time
}

// TTLCache, thread-safe generic cache.
//
//	seen := cache.New[string, *models.Message](2*time.Minute, time.Minute)
//	seen.Set(key, msg)
//	msg, ok := seen.Get(key)
type TTLCache[K comparable, V any] struct {
	mu       sync.RWMutex
	items    map[K]item[V]
	ttl      time.Duration
	now      func() time.Time
	stop     chan struct{}
	stopOnce sync.Once
}

// New, cache'i oluşturur. sweepInterval ttl'den küçük tutulmalı.
func New[K comparable, V any](ttl, sweepInterval time.Duration) *TTLCache[K, V] {
	c := &TTLCache[K, V]{
		items: make(map[K]item[V]),
		ttl:   ttl,
		now:   time.Now,
		stop:  make(chan struct{}),
	}

	go func() {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				c.sweep()
			case <-c.stop:
				return
			}
		}
	}()

	return c
}

// Get, süresi dolmamış değeri döner.
func (c *TTLCache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	it, ok := c.items[key]
	if !ok || c.now().After(it.expiresAt) {
		var zero V
		return zero, false
	}
	return it.value, true
}

// Set, değeri ttl süresiyle yazar; var olan kaydın süresi yenilenir.
func (c *TTLCache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = item[V]{value: value, expiresAt: c.now().Add(c.ttl)}
}

func (c *TTLCache[K, V]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.items, key)
}

// Len, süresi dolmuş ama henüz silinmemiş kayıtları da sayar.
func (c *TTLCache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.items)
}

// Close, arka plan temizliğini durdurur. Birden fazla çağrılabilir.
func (c *TTLCache[K, V]) Close() {
	c.stopOnce.Do(func() { close(c.stop) })
}

func (c *TTLCache[K, V]) sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for key, it := range c.items {
		if now.After(it.expiresAt) {
			delete(c.items, key)
		}
	}
}
