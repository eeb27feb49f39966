package llm

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"
)

// Retrier retries model calls with exponential backoff and jitter.
type Retrier struct {
	config RetryConfig
	rand   *rand.Rand
}

// NewRetrier returns a Retrier using the given policy.
func NewRetrier(config RetryConfig) *Retrier {
	return &Retrier{
		config: config,
		rand:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// RetryOperation is one attempt of a retryable call. attempt starts at 0.
type RetryOperation[T any] func(ctx context.Context, attempt int) (T, error)

// Execute runs operation until it succeeds, the error is not retryable, or
// the policy's attempts are exhausted.
func Execute[T any](r *Retrier, ctx context.Context, operation RetryOperation[T]) (T, error) {
	var zero T
	var lastErr error

	for attempt := 0; attempt <= r.config.MaxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		default:
		}

		result, err := operation(ctx, attempt)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !r.shouldRetry(err, attempt) {
			if attempt >= r.config.MaxRetries {
				break
			}
			return zero, err
		}

		if err := r.wait(ctx, r.delayFor(attempt, err)); err != nil {
			return zero, err
		}
	}

	return zero, fmt.Errorf("operation failed after %d attempts: %w", r.config.MaxRetries+1, lastErr)
}

// ExecuteSimple is Execute for operations with no result value.
func (r *Retrier) ExecuteSimple(ctx context.Context, operation func(context.Context, int) error) error {
	_, err := Execute(r, ctx, func(ctx context.Context, attempt int) (struct{}, error) {
		return struct{}{}, operation(ctx, attempt)
	})
	return err
}

func (r *Retrier) wait(ctx context.Context, delay time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(delay):
		return nil
	}
}

func (r *Retrier) shouldRetry(err error, attempt int) bool {
	if attempt >= r.config.MaxRetries {
		return false
	}

	if llmErr, ok := IsLLMError(err); ok {
		return llmErr.IsRetryable()
	}

	// Fall back to substring matching against the configured error names.
	errStr := strings.ToLower(err.Error())
	for _, retryable := range r.config.RetryableErrors {
		if strings.Contains(errStr, strings.ToLower(retryable)) {
			return true
		}
	}
	return false
}

// delayFor honors a provider Retry-After when present, otherwise applies
// exponential backoff with 25% jitter clamped to [InitialDelay, MaxDelay].
func (r *Retrier) delayFor(attempt int, err error) time.Duration {
	if llmErr, ok := IsLLMError(err); ok && llmErr.RetryAfter > 0 {
		return time.Duration(llmErr.RetryAfter) * time.Second
	}

	base := float64(r.config.InitialDelay)
	delay := base * math.Pow(r.config.BackoffFactor, float64(attempt))
	delay += 0.25 * delay * (r.rand.Float64()*2 - 1)

	if delay > float64(r.config.MaxDelay) {
		delay = float64(r.config.MaxDelay)
	}
	if delay < float64(r.config.InitialDelay) {
		delay = float64(r.config.InitialDelay)
	}
	return time.Duration(delay)
}

// RetryStats summarizes the attempts made through a StatTrackingRetrier.
type RetryStats struct {
	TotalAttempts int            `json:"total_attempts"`
	Successful    int            `json:"successful"`
	Failed        int            `json:"failed"`
	TotalDelay    time.Duration  `json:"total_delay"`
	LastError     string         `json:"last_error,omitempty"`
	ErrorTypes    map[string]int `json:"error_types,omitempty"`
}

// StatTrackingRetrier is a Retrier that records per-attempt statistics,
// useful when tuning retry policy against a flaky provider.
type StatTrackingRetrier struct {
	*Retrier
	stats RetryStats
}

// NewStatTrackingRetrier returns a stat tracking retrier with the given
// policy.
func NewStatTrackingRetrier(config RetryConfig) *StatTrackingRetrier {
	return &StatTrackingRetrier{
		Retrier: NewRetrier(config),
		stats: RetryStats{
			ErrorTypes: make(map[string]int),
		},
	}
}

// ExecuteWithStats is Execute with statistics recorded on s.
func ExecuteWithStats[T any](s *StatTrackingRetrier, ctx context.Context, operation RetryOperation[T]) (T, error) {
	start := time.Now()
	var zero T
	var lastErr error

	fail := func(err error) (T, error) {
		s.stats.Failed++
		s.stats.TotalDelay = time.Since(start)
		return zero, err
	}

	for attempt := 0; attempt <= s.config.MaxRetries; attempt++ {
		s.stats.TotalAttempts++

		select {
		case <-ctx.Done():
			return fail(ctx.Err())
		default:
		}

		result, err := operation(ctx, attempt)
		if err == nil {
			s.stats.Successful++
			s.stats.TotalDelay = time.Since(start)
			return result, nil
		}

		lastErr = err
		s.stats.LastError = err.Error()
		if llmErr, ok := IsLLMError(err); ok {
			s.stats.ErrorTypes[string(llmErr.Type)]++
		} else {
			s.stats.ErrorTypes["unknown"]++
		}

		if !s.shouldRetry(err, attempt) {
			if attempt >= s.config.MaxRetries {
				break
			}
			return fail(err)
		}

		if err := s.wait(ctx, s.delayFor(attempt, err)); err != nil {
			return fail(err)
		}
	}

	return fail(fmt.Errorf("operation failed after %d attempts: %w", s.config.MaxRetries+1, lastErr))
}

// GetStats returns a snapshot of the recorded statistics.
func (s *StatTrackingRetrier) GetStats() RetryStats {
	return s.stats
}

// ResetStats clears the recorded statistics.
func (s *StatTrackingRetrier) ResetStats() {
	s.stats = RetryStats{
		ErrorTypes: make(map[string]int),
	}
}
