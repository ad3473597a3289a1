package crawl

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/fwojciec/rexcrawl"
	"golang.org/x/time/rate"
)

// Default politeness window between consecutive requests.
const (
	DefaultDelayMin = 1 * time.Second
	DefaultDelayMax = 3 * time.Second
)

var _ rexcrawl.Limiter = (*Politeness)(nil)

// Politeness pauses for a random interval drawn uniformly from [min, max]
// before every request, counted from the moment Wait is called. A single
// Politeness is shared by all workers, and its limiter keeps request starts
// at least min apart across the whole run.
type Politeness struct {
	mu      sync.Mutex
	limiter *rate.Limiter
	min     time.Duration
	max     time.Duration

	// Rand returns a value in [0, 1). Defaults to math/rand/v2.
	Rand func() float64
}

// NewPoliteness returns a limiter with the given delay window.
// Negative values are treated as zero and max is raised to min if smaller.
func NewPoliteness(min, max time.Duration) *Politeness {
	if min < 0 {
		min = 0
	}
	if max < min {
		max = min
	}
	return &Politeness{
		limiter: rate.NewLimiter(rate.Every(min), 1),
		min:     min,
		max:     max,
		Rand:    rand.Float64,
	}
}

// Wait blocks until the next request may start.
func (p *Politeness) Wait(ctx context.Context) error {
	timer := time.NewTimer(p.next())
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
	}
	return p.limiter.Wait(ctx)
}

// next picks the pause before the upcoming request.
func (p *Politeness) next() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	span := p.max - p.min
	if span <= 0 {
		return p.min
	}
	return p.min + time.Duration(p.Rand()*float64(span))
}
