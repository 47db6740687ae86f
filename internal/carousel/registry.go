package carousel

import (
	"context"
	"sync"
	"time"
)

type visitor struct {
	landing  *Landing
	cancel   context.CancelFunc
	lastSeen time.Time
}

// Registry keeps one running Landing per visitor. Visitors idle for longer
// than idleTTL have their rotators stopped and are forgotten. Ending the
// context given to NewRegistry stops every rotator.
type Registry struct {
	mu       sync.Mutex
	ctx      context.Context
	visitors map[string]*visitor
	idleTTL  time.Duration
	swept    time.Time
}

func NewRegistry(ctx context.Context, idleTTL time.Duration) *Registry {
	return &Registry{
		ctx:      ctx,
		visitors: make(map[string]*visitor),
		idleTTL:  idleTTL,
	}
}

// For returns the visitor's landing, starting a fresh one on first use.
func (r *Registry) For(id string) *Landing {
	return r.forAt(id, time.Now())
}

func (r *Registry) forAt(id string, now time.Time) *Landing {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.idleTTL > 0 && now.Sub(r.swept) > r.idleTTL {
		for k, v := range r.visitors {
			if now.Sub(v.lastSeen) > r.idleTTL {
				v.cancel()
				delete(r.visitors, k)
			}
		}
		r.swept = now
	}

	v, ok := r.visitors[id]
	if !ok {
		ctx, cancel := context.WithCancel(r.ctx)
		v = &visitor{landing: NewLanding(), cancel: cancel}
		v.landing.Start(ctx)
		r.visitors[id] = v
	}
	v.lastSeen = now
	return v.landing
}

// Len is the number of visitors currently tracked.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.visitors)
}
