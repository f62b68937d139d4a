package llms

import (
	"context"
	"time"

	"github.com/XiaoConstantine/evoprompt/pkg/core"
	"github.com/XiaoConstantine/evoprompt/pkg/errors"
	"github.com/XiaoConstantine/evoprompt/pkg/logging"
)

// RetryConfig holds configuration for retrying failed backend calls.
type RetryConfig struct {
	MaxRetries int           // Number of retries after the initial attempt
	Delay      time.Duration // Initial delay between attempts
	Backoff    float64       // Multiplier for delay between retries
}

// DefaultRetryConfig returns a conservative retry policy.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 2,
		Delay:      500 * time.Millisecond,
		Backoff:    2.0,
	}
}

// RetryLLM wraps an LLM with bounded retries and multiplicative backoff.
// Retries stay outside the selection loop: callers see a single error
// carrying the attempt count once the budget is exhausted.
type RetryLLM struct {
	core.LLM
	config RetryConfig
}

// NewRetryLLM decorates llm with the given retry policy.
func NewRetryLLM(llm core.LLM, config RetryConfig) *RetryLLM {
	if config.MaxRetries < 0 {
		config.MaxRetries = 0
	}
	if config.Backoff < 1 {
		config.Backoff = 1
	}
	return &RetryLLM{LLM: llm, config: config}
}

func (r *RetryLLM) Generate(ctx context.Context, instruction, payload string, options ...core.GenerateOption) (*core.LLMResponse, error) {
	logger := logging.GetLogger()

	var lastErr error
	delay := r.config.Delay

	for attempt := 0; attempt <= r.config.MaxRetries; attempt++ {
		if attempt > 0 {
			logger.Warn(ctx, "Retrying backend call (attempt %d/%d): %v",
				attempt, r.config.MaxRetries, lastErr)

			select {
			case <-ctx.Done():
				return nil, errors.Wrap(ctx.Err(), errors.Canceled, "generation canceled during retry wait")
			case <-time.After(delay):
			}
			delay = time.Duration(float64(delay) * r.config.Backoff)
		}

		response, err := r.LLM.Generate(ctx, instruction, payload, options...)
		if err == nil {
			return response, nil
		}
		lastErr = err

		if !isRetryable(err) {
			break
		}
	}

	return nil, errors.WithFields(lastErr, errors.Fields{"retries": r.config.MaxRetries})
}

// isRetryable reports whether a failed call may succeed on a later attempt.
// Misconfiguration and bad input never do.
func isRetryable(err error) bool {
	switch errors.Code(err) {
	case errors.ConfigurationFailed, errors.InvalidInput, errors.ValidationFailed, errors.Canceled:
		return false
	default:
		return true
	}
}
