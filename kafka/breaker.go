package kafka

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/tair/product-catalog/pkg/logger"
)

// ErrBreakerOpen is returned while the breaker rejects publishes
var ErrBreakerOpen = errors.New("event publishing suspended after repeated failures")

type breakerState string

const (
	stateClosed   breakerState = "closed"
	stateOpen     breakerState = "open"
	stateHalfOpen breakerState = "half-open"
)

// BreakerPublisher stops calling next after maxFailures consecutive errors.
// Once cooldown has passed publishes are let through again, and halfOpenSuccesses
// successes in a row close the breaker.
type BreakerPublisher struct {
	next              EventPublisher
	maxFailures       int
	cooldown          time.Duration
	halfOpenSuccesses int
	now               func() time.Time

	mu        sync.Mutex
	state     breakerState
	failures  int
	successes int
	openedAt  time.Time
}

// NewBreakerPublisher wraps next with the default thresholds: open after 5
// failures, retry after 30s, close after 3 successes.
func NewBreakerPublisher(next EventPublisher) *BreakerPublisher {
	return &BreakerPublisher{
		next:              next,
		maxFailures:       5,
		cooldown:          30 * time.Second,
		halfOpenSuccesses: 3,
		now:               time.Now,
		state:             stateClosed,
	}
}

// Publish forwards to the wrapped publisher unless the breaker is open
func (b *BreakerPublisher) Publish(ctx context.Context, eventType string, aggregateID uint, payload interface{}) error {
	if !b.allow() {
		return ErrBreakerOpen
	}

	err := b.next.Publish(ctx, eventType, aggregateID, payload)
	b.record(ctx, err)
	return err
}

func (b *BreakerPublisher) allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == stateOpen && b.now().Sub(b.openedAt) >= b.cooldown {
		b.state = stateHalfOpen
		b.successes = 0
	}
	return b.state != stateOpen
}

func (b *BreakerPublisher) record(ctx context.Context, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err != nil {
		b.failures++
		if b.state == stateHalfOpen || b.failures >= b.maxFailures {
			b.state = stateOpen
			b.openedAt = b.now()
			logger.Warn(ctx).Int("failures", b.failures).Dur("cooldown", b.cooldown).Msg("Event publishing suspended")
		}
		return
	}

	switch b.state {
	case stateHalfOpen:
		b.successes++
		if b.successes >= b.halfOpenSuccesses {
			b.state = stateClosed
			b.failures = 0
			logger.Info(ctx).Msg("Event publishing resumed")
		}
	case stateClosed:
		b.failures = 0
	}
}
