package contact

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// maxTrackedIPs bounds the limiter map; beyond it the map is reset.
const maxTrackedIPs = 10000

// Limiter allows a number of submissions per IP per hour.
type Limiter struct {
	mu       sync.RWMutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

// NewLimiter creates a limiter allowing perHour submissions per IP, all of
// which may be used at once. perHour <= 0 disables limiting.
func NewLimiter(perHour int) *Limiter {
	if perHour <= 0 {
		return &Limiter{limit: rate.Inf}
	}
	return &Limiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Every(time.Hour / time.Duration(perHour)),
		burst:    perHour,
	}
}

// Allow reports whether ip may submit now.
func (l *Limiter) Allow(ip string) bool {
	if l.limit == rate.Inf {
		return true
	}
	return l.get(ip).Allow()
}

func (l *Limiter) get(ip string) *rate.Limiter {
	l.mu.RLock()
	lim, ok := l.limiters[ip]
	l.mu.RUnlock()
	if ok {
		return lim
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if lim, ok = l.limiters[ip]; ok {
		return lim
	}
	if len(l.limiters) >= maxTrackedIPs {
		l.limiters = make(map[string]*rate.Limiter)
	}
	lim = rate.NewLimiter(l.limit, l.burst)
	l.limiters[ip] = lim
	return lim
}
