package middleware

import (
	"sync"
	"time"
)

const (
	failedLoginLimit  = 5
	failedLoginWindow = time.Minute
)

// FailedLoginLimiter throttles admin login attempts per client IP. Only
// failed credential checks consume the budget; successful logins and
// malformed requests never count against it.
type FailedLoginLimiter struct {
	mu       sync.Mutex
	failures map[string]*failureWindow
}

type failureWindow struct {
	count   int
	firstAt time.Time
}

// NewFailedLoginLimiter constructs a limiter and starts its cleanup loop.
func NewFailedLoginLimiter() *FailedLoginLimiter {
	l := &FailedLoginLimiter{
		failures: make(map[string]*failureWindow),
	}
	go l.cleanup()
	return l
}

// Allow records a failed login for ip and reports whether the caller is
// still under the limit. Call it only after credentials were rejected.
func (l *FailedLoginLimiter) Allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	w, exists := l.failures[ip]
	if !exists || now.Sub(w.firstAt) > failedLoginWindow {
		l.failures[ip] = &failureWindow{count: 1, firstAt: now}
		return true
	}

	if w.count >= failedLoginLimit {
		return false
	}
	w.count++
	return true
}

func (l *FailedLoginLimiter) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	for range ticker.C {
		l.mu.Lock()
		now := time.Now()
		for ip, w := range l.failures {
			if now.Sub(w.firstAt) > failedLoginWindow {
				delete(l.failures, ip)
			}
		}
		l.mu.Unlock()
	}
}
