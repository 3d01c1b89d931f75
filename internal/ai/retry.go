package ai

import (
	"context"
	"math"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"music-chat-pipeline/internal/model"
)

// Retryer re-runs an external call with capped exponential backoff. It wraps
// the model and SQL-executor boundaries without changing stage contracts.
type Retryer struct {
	cfg model.RetryConfig
	log *zap.Logger
}

// NewRetryer builds a retryer for one call boundary.
func NewRetryer(cfg model.RetryConfig, log *zap.Logger) *Retryer {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Retryer{cfg: cfg, log: log}
}

// Do runs fn up to MaxAttempts times, sleeping between attempts. Context
// cancellation stops the loop immediately.
func (r *Retryer) Do(ctx context.Context, op string, fn func(context.Context) error) error {
	var lastErr error
	for attempt := 1; attempt <= r.cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if attempt == r.cfg.MaxAttempts {
			break
		}
		delay := r.delayFor(attempt)
		r.log.Warn("operation failed, retrying",
			zap.String("op", op),
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(lastErr))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return lastErr
}

func (r *Retryer) delayFor(attempt int) time.Duration {
	delay := float64(r.cfg.InitialDelay) * math.Pow(r.cfg.BackoffMultiplier, float64(attempt-1))
	if max := float64(r.cfg.MaxDelay); r.cfg.MaxDelay > 0 && delay > max {
		delay = max
	}
	if r.cfg.Jitter {
		// Uniform in [delay/2, delay) so simultaneous retries spread out.
		delay = delay/2 + rand.Float64()*delay/2
	}
	return time.Duration(delay)
}

// RetryClient decorates a Client with the retry policy.
type RetryClient struct {
	inner   Client
	retryer *Retryer
}

// WithRetry wraps client so every Execute is retried per cfg.
func WithRetry(client Client, cfg model.RetryConfig, log *zap.Logger) *RetryClient {
	return &RetryClient{inner: client, retryer: NewRetryer(cfg, log)}
}

func (c *RetryClient) Name() string { return c.inner.Name() }

func (c *RetryClient) Execute(ctx context.Context, prompt string, temperature float32, maxTokens int) (ModelResponse, error) {
	var resp ModelResponse
	err := c.retryer.Do(ctx, "model.execute", func(ctx context.Context) error {
		var callErr error
		resp, callErr = c.inner.Execute(ctx, prompt, temperature, maxTokens)
		return callErr
	})
	return resp, err
}
