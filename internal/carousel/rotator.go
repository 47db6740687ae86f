// Package carousel implements the auto-advancing rotators behind the landing
// page's hero images, testimonials and advantage showcase.
package carousel

import (
	"context"
	"sync"
	"time"
)

type State string

const (
	Running State = "running"
	Paused  State = "paused"
	Stopped State = "stopped"
)

// Rotator cycles an index over size items, one step per interval, with a
// single timer it owns. Pausing stops that timer; a callback that already
// fired is discarded through the generation counter.
type Rotator struct {
	mu       sync.Mutex
	size     int
	interval time.Duration
	index    int
	state    State
	timer    *time.Timer
	gen      uint64
}

// NewRotator returns a paused rotator; Start sets it running.
func NewRotator(size int, interval time.Duration) *Rotator {
	return &Rotator{size: size, interval: interval, state: Paused}
}

// Start runs the rotator until ctx ends.
func (r *Rotator) Start(ctx context.Context) {
	r.mu.Lock()
	if r.state == Stopped {
		r.mu.Unlock()
		return
	}
	r.state = Running
	r.arm()
	r.mu.Unlock()

	go func() {
		<-ctx.Done()
		r.Stop()
	}()
}

func (r *Rotator) Pause() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != Running {
		return
	}
	r.state = Paused
	r.disarm()
}

func (r *Rotator) Resume() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != Paused {
		return
	}
	r.state = Running
	r.arm()
}

func (r *Rotator) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = Stopped
	r.disarm()
}

// Next and Prev move manually and restart the interval when running.
func (r *Rotator) Next() { r.step(1) }
func (r *Rotator) Prev() { r.step(-1) }

// Go jumps to index i, wrapping out-of-range values.
func (r *Rotator) Go(i int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.size == 0 {
		return
	}
	r.index = mod(i, r.size)
	if r.state == Running {
		r.arm()
	}
}

func (r *Rotator) Current() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.index
}

func (r *Rotator) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *Rotator) Size() int { return r.size }

func (r *Rotator) step(delta int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.size == 0 {
		return
	}
	r.index = mod(r.index+delta, r.size)
	if r.state == Running {
		r.arm()
	}
}

// arm replaces any pending timer; callers hold mu.
func (r *Rotator) arm() {
	r.disarm()
	if r.size < 2 || r.interval <= 0 {
		return
	}
	gen := r.gen
	r.timer = time.AfterFunc(r.interval, func() { r.tick(gen) })
}

// disarm stops the pending timer; callers hold mu.
func (r *Rotator) disarm() {
	r.gen++
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
}

func (r *Rotator) tick(gen uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != Running || gen != r.gen {
		return
	}
	r.index = (r.index + 1) % r.size
	r.arm()
}

func mod(a, n int) int {
	return ((a % n) + n) % n
}
