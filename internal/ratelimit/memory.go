package ratelimit

import (
	"context"
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const maxTrackedClients = 10000

type memoryClient struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// memoryStore keeps one limiter per client inside this process. The budget
// refills evenly over the window instead of resetting at its end.
type memoryStore struct {
	mu      sync.Mutex
	clients map[string]*memoryClient
	now     func() time.Time
}

func newMemoryStore() *memoryStore {
	return &memoryStore{clients: map[string]*memoryClient{}, now: time.Now}
}

func (m *memoryStore) hit(_ context.Context, key string, limit int, window time.Duration) (*Result, error) {
	now := m.now()
	every := window / time.Duration(limit)

	m.mu.Lock()
	defer m.mu.Unlock()

	client, ok := m.clients[key]
	if !ok {
		if len(m.clients) >= maxTrackedClients {
			m.evict(now, window)
		}
		client = &memoryClient{limiter: rate.NewLimiter(rate.Every(every), limit)}
		m.clients[key] = client
	}
	client.lastSeen = now

	res := &Result{Limit: limit}
	reservation := client.limiter.ReserveN(now, 1)
	if delay := reservation.DelayFrom(now); delay > 0 {
		reservation.CancelAt(now)
		res.RetryAfter = delay
		res.ResetTime = now.Add(delay)
		return res, nil
	}

	res.Allowed = true
	tokens := client.limiter.TokensAt(now)
	res.Remaining = int(math.Max(0, math.Floor(tokens)))
	res.ResetTime = now.Add(time.Duration(float64(limit)-tokens) * every)
	return res, nil
}

// evict forgets clients idle for a whole window. Their limiter would be full
// again anyway.
func (m *memoryStore) evict(now time.Time, window time.Duration) {
	for key, client := range m.clients {
		if now.Sub(client.lastSeen) >= window {
			delete(m.clients, key)
		}
	}
}
