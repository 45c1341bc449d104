package llm

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"
)

// RetryProvider retries transient failures with exponential backoff and
// jitter. Schema violations are retried once; rejected requests,
// truncated replies and context errors are returned immediately.
type RetryProvider struct {
	inner  Provider
	config RetryConfig
	log    *zap.Logger
	sleep  func(ctx context.Context, d time.Duration) error
}

// WithRetry wraps p. A nil log discards retry notices.
func WithRetry(p Provider, cfg RetryConfig, log *zap.Logger) Provider {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &RetryProvider{inner: p, config: cfg, log: log.Named("llm.retry"), sleep: sleepCtx}
}

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	ctx, id := withRequestID(ctx)
	retriedInvalid := false
	for attempt := 0; ; attempt++ {
		resp, err := r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}

		switch policyFor(err) {
		case retryNever:
			return nil, err
		case retryOnce:
			if retriedInvalid {
				return nil, err
			}
			retriedInvalid = true
		}
		if attempt+1 >= r.config.MaxAttempts {
			return nil, err
		}

		wait := r.backoff(attempt, err)
		r.log.Info("retrying LLM request",
			zap.String("request_id", id),
			zap.String("purpose", PurposeFrom(ctx)),
			zap.Int("attempt", attempt+1),
			zap.Duration("wait", wait),
			zap.Error(err))
		if serr := r.sleep(ctx, wait); serr != nil {
			return nil, serr
		}
	}
}

func (r *RetryProvider) ModelID() string {
	return r.inner.ModelID()
}

// backoff returns the wait before the attempt after attempt. A rate limit
// with a Retry-After hint is honoured as given.
func (r *RetryProvider) backoff(attempt int, err error) time.Duration {
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}

	wait := float64(r.config.InitialWait) * math.Pow(r.config.Multiplier, float64(attempt))
	wait = math.Min(wait, float64(r.config.MaxWait))
	wait += wait * 0.2 * (2*rand.Float64() - 1) // ±20%
	return time.Duration(math.Max(wait, 0))
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
