package venue

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	"net"
	"strings"
	"time"

	"github.com/eddiefleurent/strangengine/internal/core/errs"
)

// RetryConfig controls the exponential-backoff-with-jitter loop Do runs
// around a venue call, grounded on the teacher's retry.Config.
type RetryConfig struct {
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// DefaultRetryConfig matches the teacher's retry.DefaultConfig values.
var DefaultRetryConfig = RetryConfig{
	MaxRetries:     3,
	InitialBackoff: 1 * time.Second,
	MaxBackoff:     30 * time.Second,
}

func (c RetryConfig) sanitized() RetryConfig {
	if c.MaxRetries < 0 {
		c.MaxRetries = DefaultRetryConfig.MaxRetries
	}
	if c.InitialBackoff <= 0 {
		c.InitialBackoff = DefaultRetryConfig.InitialBackoff
	}
	if c.MaxBackoff <= 0 {
		c.MaxBackoff = DefaultRetryConfig.MaxBackoff
	}
	if c.MaxBackoff < c.InitialBackoff {
		c.MaxBackoff = c.InitialBackoff
	}
	return c
}

// do runs fn, retrying transient errors with exponential backoff and
// jitter up to cfg.MaxRetries times. Non-transient errors and context
// cancellation return immediately.
func do(ctx context.Context, cfg RetryConfig, fn func() error) error {
	cfg = cfg.sanitized()
	backoff := cfg.InitialBackoff

	var lastErr error
	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		if ctx.Err() != nil {
			return errs.Transport(ctx.Err())
		}

		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if !isTransient(err) || attempt == cfg.MaxRetries {
			break
		}

		select {
		case <-time.After(jittered(backoff, cfg.MaxBackoff)):
			backoff = nextBackoff(backoff, cfg.MaxBackoff)
		case <-ctx.Done():
			return errs.Transport(ctx.Err())
		}
	}
	return errs.Transport(lastErr)
}

func nextBackoff(current, max time.Duration) time.Duration {
	next := time.Duration(float64(current) * 1.5)
	if next > max {
		next = max
	}
	return next
}

func jittered(backoff, max time.Duration) time.Duration {
	if backoff > max {
		backoff = max
	}
	maxJitter := int64(backoff / 4)
	if maxJitter <= 0 {
		return backoff
	}
	jitterVal, err := rand.Int(rand.Reader, big.NewInt(maxJitter))
	if err != nil {
		return backoff
	}
	return backoff + time.Duration(jitterVal.Int64())
}

// isTransient classifies an error as retryable, matching the teacher's
// retry.Client.isTransientError substring taxonomy plus a direct check for
// network timeouts/context deadlines.
func isTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}

	errStr := strings.ToLower(err.Error())
	patterns := []string{
		"timeout", "connection refused", "connection reset",
		"temporary failure", "temporarily unavailable", "server error",
		"rate limit", "429", "502", "503", "504",
		"network", "dns", "no such host", "broken pipe", "eof",
	}
	for _, p := range patterns {
		if strings.Contains(errStr, p) {
			return true
		}
	}
	return false
}
