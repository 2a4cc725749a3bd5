package lnd

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// RateLimiter implements a token bucket rate limiter with burst support.
//
// The bucket starts full (maxRequests tokens), allowing an immediate burst.
// Tokens replenish one at a time every interval/maxRequests, giving sustained
// throughput of maxRequests per interval after the burst is spent.
type RateLimiter struct {
	tokens    chan struct{}
	ticker    *time.Ticker
	maxTokens int
	interval  time.Duration
	mu        sync.RWMutex
	stopped   bool
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

// NewRateLimiter creates a new rate limiter allowing maxRequests per interval.
func NewRateLimiter(maxRequests int, interval time.Duration) *RateLimiter {
	ctx, cancel := context.WithCancel(context.Background())
	rl := &RateLimiter{
		tokens:    make(chan struct{}, maxRequests),
		maxTokens: maxRequests,
		interval:  interval,
		ctx:       ctx,
		cancel:    cancel,
	}

	// Fill initial tokens
	for i := 0; i < maxRequests; i++ {
		rl.tokens <- struct{}{}
	}

	rl.ticker = time.NewTicker(interval / time.Duration(maxRequests))
	rl.wg.Add(1)
	go rl.replenishTokens()

	return rl
}

// WaitWithContext blocks until a token is available or the context is
// cancelled.
func (rl *RateLimiter) WaitWithContext(ctx context.Context) error {
	rl.mu.RLock()
	if rl.stopped {
		rl.mu.RUnlock()
		return fmt.Errorf("rate limiter is stopped")
	}
	rl.mu.RUnlock()

	select {
	case <-rl.tokens:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TryAcquire attempts to acquire a token without blocking.
func (rl *RateLimiter) TryAcquire() bool {
	rl.mu.RLock()
	if rl.stopped {
		rl.mu.RUnlock()
		return false
	}
	rl.mu.RUnlock()

	select {
	case <-rl.tokens:
		return true
	default:
		return false
	}
}

// Stop stops the rate limiter.
func (rl *RateLimiter) Stop() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if !rl.stopped {
		rl.stopped = true
		rl.cancel()
		rl.ticker.Stop()
		rl.wg.Wait()
		close(rl.tokens)
	}
}

func (rl *RateLimiter) replenishTokens() {
	defer rl.wg.Done()
	for {
		select {
		case <-rl.ctx.Done():
			return
		case <-rl.ticker.C:
			select {
			case <-rl.ctx.Done():
				return
			case rl.tokens <- struct{}{}:
			default:
				// Bucket is full, ignore
			}
		}
	}
}
