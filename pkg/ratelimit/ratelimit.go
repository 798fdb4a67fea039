// Package ratelimit, in-memory rate limiter'ları barındırır.
//
// LoginRateLimiter IP bazlı (HTTP login), MessageRateLimiter gönderen bazlı
// (WebSocket send_message) çalışır. İkisi de tek process içindir ve
// arka planda süresi dolan kayıtları temizler. Proje içi hiçbir pakete
// bağımlı değildir.
package ratelimit

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

type window struct {
	count int
	start time.Time
}

// LoginRateLimiter, sabit pencere içinde IP başına deneme sayısını sınırlar.
//
//	limiter := NewLoginRateLimiter(5, 2*time.Minute)
//	if !limiter.Allow(ip) { ... 429 ... }
//	limiter.Reset(ip) // başarılı login
type LoginRateLimiter struct {
	mu          sync.Mutex
	windows     map[string]*window
	maxAttempts int
	period      time.Duration
	stop        chan struct{}
	stopOnce    sync.Once
}

// NewLoginRateLimiter, limiter'ı oluşturur ve dakikada bir temizlik yapar.
func NewLoginRateLimiter(maxAttempts int, period time.Duration) *LoginRateLimiter {
	rl := &LoginRateLimiter{
		windows:     make(map[string]*window),
		maxAttempts: maxAttempts,
		period:      period,
		stop:        make(chan struct{}),
	}
	go runEvery(time.Minute, rl.stop, rl.cleanup)
	return rl
}

// Allow, denemeyi sayar ve limit aşılmadıysa true döner.
func (rl *LoginRateLimiter) Allow(ip string) bool {
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	w, ok := rl.windows[ip]
	if !ok || now.Sub(w.start) > rl.period {
		rl.windows[ip] = &window{count: 1, start: now}
		return true
	}

	w.count++
	return w.count <= rl.maxAttempts
}

// Reset, IP'nin sayacını siler. Başarılı login sonrası çağrılır.
func (rl *LoginRateLimiter) Reset(ip string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	delete(rl.windows, ip)
}

// RetryAfterSeconds, pencerenin bitmesine kalan süre (yukarı yuvarlanmış).
func (rl *LoginRateLimiter) RetryAfterSeconds(ip string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	w, ok := rl.windows[ip]
	if !ok {
		return 0
	}
	return ceilSeconds(rl.period - time.Since(w.start))
}

// Close, temizlik goroutine'ini durdurur.
func (rl *LoginRateLimiter) Close() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

func (rl *LoginRateLimiter) cleanup() {
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	for ip, w := range rl.windows {
		if now.Sub(w.start) > rl.period {
			delete(rl.windows, ip)
		}
	}
}

// ExtractIP, istemci IP'sini X-Forwarded-For, X-Real-IP ve RemoteAddr
// sırasıyla arar.
func ExtractIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// FormatRetryMessage, saniyeyi okunabilir metne çevirir ("2 minute(s)").
func FormatRetryMessage(seconds int) string {
	if seconds >= 60 {
		return fmt.Sprintf("%d minute(s)", seconds/60)
	}
	return fmt.Sprintf("%d second(s)", seconds)
}

func ceilSeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(d.Seconds()) + 1
}

func runEvery(interval time.Duration, stop <-chan struct{}, fn func()) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			fn()
		case <-stop:
			return
		}
	}
}
