package chatbot

import (
	"sync"
	"time"
)

// RateLimiter admits at most limit requests per user within a fixed window.
// The window starts with the user's first request and is replaced by a new
// one once it has expired.
type RateLimiter struct {
	limit  int
	window time.Duration
	now    func() time.Time

	mutex   sync.Mutex
	windows map[string]*window
}

type window struct {
	start time.Time
	count int
}

func NewRateLimiter(limit int, period time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:   limit,
		window:  period,
		now:     time.Now,
		windows: make(map[string]*window),
	}
}

// Allow reports whether userID may send another request and records it if so.
// Rejected requests do not count against the window.
func (r *RateLimiter) Allow(userID string) bool {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	now := r.now()
	w, ok := r.windows[userID]
	if !ok || now.Sub(w.start) >= r.window {
		w = &window{start: now}
		r.windows[userID] = w
	}

	if w.count >= r.limit {
		return false
	}
	w.count++
	return true
}

// Prune drops windows that have expired. It keeps the map from growing with
// users that stopped chatting.
func (r *RateLimiter) Prune() {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	now := r.now()
	for id, w := range r.windows {
		if now.Sub(w.start) >= r.window {
			delete(r.windows, id)
		}
	}
}

func (r *RateLimiter) tracked() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return len(r.windows)
}
