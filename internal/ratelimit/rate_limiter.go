// rate_limiter.go - Rate limiting to stay inside the Gemini API quota

package ratelimit

import (
	"sync"
	"time"
)

// RateLimiter is a simple token bucket. One token per model call.
type RateLimiter struct {
	tokens         int
	maxTokens      int
	refillRate     time.Duration
	lastRefillTime time.Time
	mu             sync.Mutex
}

// NewRateLimiter creates a limiter holding maxTokens, refilling one token per
// refillRate.
func NewRateLimiter(maxTokens int, refillRate time.Duration) *RateLimiter {
	return &RateLimiter{
		tokens:         maxTokens,
		maxTokens:      maxTokens,
		refillRate:     refillRate,
		lastRefillTime: time.Now(),
	}
}

// Wait blocks until a token is available.
func (rl *RateLimiter) Wait() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.refill()
	for rl.tokens <= 0 {
		rl.mu.Unlock()
		time.Sleep(100 * time.Millisecond)
		rl.mu.Lock()
		rl.refill()
	}
	rl.tokens--
}

// refill adds tokens for the time elapsed since the last refill. Caller must
// hold mu.
func (rl *RateLimiter) refill() {
	now := time.Now()
	tokensToAdd := int(now.Sub(rl.lastRefillTime) / rl.refillRate)
	if tokensToAdd > 0 {
		rl.tokens += tokensToAdd
		if rl.tokens > rl.maxTokens {
			rl.tokens = rl.maxTokens
		}
		rl.lastRefillTime = now
	}
}

// Global limiter for Gemini calls. Sized under the 15 RPM tier with a margin
// for burst traffic: 12 tokens, one back every 5 seconds.
var globalRateLimiter = NewRateLimiter(12, 5*time.Second)

// WaitForRateLimit blocks until the shared Gemini limiter has capacity.
func WaitForRateLimit() {
	globalRateLimiter.Wait()
}
