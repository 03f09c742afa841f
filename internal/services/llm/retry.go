package llm

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// RetryConfig defines backoff behavior for transient LLM and vector store
// transport failures (network errors, 5xx responses, rate limits).
type RetryConfig struct {
	// MaxAttempts is the total number of attempts including the first call
	MaxAttempts int

	// InitialBackoff is the wait time before the first retry
	InitialBackoff time.Duration

	// MaxBackoff caps the wait time between retries
	MaxBackoff time.Duration

	// BackoffMultiplier is applied to the backoff on each retry
	BackoffMultiplier float64
}

const (
	DefaultMaxAttempts       = 3
	DefaultInitialBackoff    = 2 * time.Second
	DefaultMaxBackoff        = 60 * time.Second
	DefaultBackoffMultiplier = 2.0
)

// NewDefaultRetryConfig returns a RetryConfig with sensible defaults for
// transient API failures.
func NewDefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxAttempts:       DefaultMaxAttempts,
		InitialBackoff:    DefaultInitialBackoff,
		MaxBackoff:        DefaultMaxBackoff,
		BackoffMultiplier: DefaultBackoffMultiplier,
	}
}

// NewRetryConfig returns a RetryConfig with the given attempt budget and
// defaults for the backoff parameters. Attempt budgets below 1 are clamped.
func NewRetryConfig(maxAttempts int) *RetryConfig {
	cfg := NewDefaultRetryConfig()
	if maxAttempts >= 1 {
		cfg.MaxAttempts = maxAttempts
	}
	return cfg
}

// IsRateLimitError checks if an error is a provider rate limit error.
// Matches 429 status codes and RESOURCE_EXHAUSTED errors.
func IsRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "429") ||
		strings.Contains(errStr, "RESOURCE_EXHAUSTED") ||
		strings.Contains(errStr, "quota")
}

// retryDelayRegex matches "Please retry in Xs" or "retryDelay:Xs" patterns
var retryDelayRegex = regexp.MustCompile(`(?i)(?:Please retry in |retryDelay[:\s]+)(\d+(?:\.\d+)?)\s*s`)

// ExtractRetryDelay parses an API-suggested retry delay from an error
// message. Returns 0 if no delay is found.
func ExtractRetryDelay(err error) time.Duration {
	if err == nil {
		return 0
	}

	matches := retryDelayRegex.FindStringSubmatch(err.Error())
	if len(matches) < 2 {
		return 0
	}

	seconds, parseErr := strconv.ParseFloat(matches[1], 64)
	if parseErr != nil {
		return 0
	}

	return time.Duration(seconds * float64(time.Second))
}

// CalculateBackoff computes the backoff duration for a given retry attempt
// (0-based). If apiDelay > 0 it is used as the base instead of
// InitialBackoff. The result is capped at MaxBackoff.
func (c *RetryConfig) CalculateBackoff(attempt int, apiDelay time.Duration) time.Duration {
	base := c.InitialBackoff
	if apiDelay > 0 {
		base = apiDelay + 5*time.Second
	}

	multiplier := 1.0
	for i := 0; i < attempt; i++ {
		multiplier *= c.BackoffMultiplier
	}

	backoff := time.Duration(float64(base) * multiplier)
	if backoff > c.MaxBackoff {
		backoff = c.MaxBackoff
	}

	return backoff
}

// Do invokes fn up to MaxAttempts times with exponential backoff between
// attempts, honouring context cancellation during waits. The last error is
// returned when all attempts fail.
func (c *RetryConfig) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	var lastErr error
	for attempt := 0; attempt < c.MaxAttempts; attempt++ {
		if attempt > 0 {
			backoff := c.CalculateBackoff(attempt-1, ExtractRetryDelay(lastErr))
			timer := time.NewTimer(backoff)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}

		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
	}
	return lastErr
}
