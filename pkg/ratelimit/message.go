package ratelimit

import (
	"sync"
	"time"
)

type senderBucket struct {
	count         int
	start         time.Time
	cooldownUntil time.Time
}

// MessageRateLimiter, gönderen başına mesaj hızını sınırlar.
//
// Pencere içinde maxMessages aşılırsa gönderen cooldown süresince
// tamamen susturulur; cooldown bitince yeni pencere başlar.
//
//	limiter := NewMessageRateLimiter(5, 5*time.Second, 15*time.Second)
type MessageRateLimiter struct {
	mu          sync.Mutex
	buckets     map[string]*senderBucket
	maxMessages int
	period      time.Duration
	cooldown    time.Duration
	now         func() time.Time
	stop        chan struct{}
	stopOnce    sync.Once
}

// NewMessageRateLimiter, limiter'ı oluşturur ve 30 saniyede bir temizlik yapar.
func NewMessageRateLimiter(maxMessages int, period, cooldown time.Duration) *MessageRateLimiter {
	rl := &MessageRateLimiter{
		buckets:     make(map[string]*senderBucket),
		maxMessages: maxMessages,
		period:      period,
		cooldown:    cooldown,
		now:         time.Now,
		stop:        make(chan struct{}),
	}
	go runEvery(30*time.Second, rl.stop, rl.cleanup)
	return rl
}

// Allow, mesajı sayar; gönderen limitteyse veya cooldown'daysa false döner.
func (rl *MessageRateLimiter) Allow(senderID string) bool {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, ok := rl.buckets[senderID]
	switch {
	case !ok:
		rl.buckets[senderID] = &senderBucket{count: 1, start: now}
		return true
	case now.Before(b.cooldownUntil):
		return false
	case !b.cooldownUntil.IsZero(), now.Sub(b.start) > rl.period:
		// cooldown bitti veya pencere doldu
		*b = senderBucket{count: 1, start: now}
		return true
	}

	b.count++
	if b.count > rl.maxMessages {
		b.cooldownUntil = now.Add(rl.cooldown)
		return false
	}
	return true
}

// CooldownSeconds, kalan cooldown süresi; cooldown yoksa 0.
func (rl *MessageRateLimiter) CooldownSeconds(senderID string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, ok := rl.buckets[senderID]
	if !ok || b.cooldownUntil.IsZero() {
		return 0
	}
	return ceilSeconds(b.cooldownUntil.Sub(rl.now()))
}

// Close, temizlik goroutine'ini durdurur.
func (rl *MessageRateLimiter) Close() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

func (rl *MessageRateLimiter) cleanup() {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	for id, b := range rl.buckets {
		if now.Sub(b.start) > rl.period && !now.Before(b.cooldownUntil) {
			delete(rl.buckets, id)
		}
	}
}
