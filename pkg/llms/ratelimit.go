package llms

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/XiaoConstantine/evoprompt/pkg/core"
	"github.com/XiaoConstantine/evoprompt/pkg/errors"
)

// RateLimitedLLM wraps an LLM with a token-bucket rate limiter so a run
// cannot exceed the backend's request budget.
type RateLimitedLLM struct {
	core.LLM
	limiter *rate.Limiter
}

// NewRateLimitedLLM decorates llm, allowing requestsPerSecond sustained
// calls with the given burst.
func NewRateLimitedLLM(llm core.LLM, requestsPerSecond float64, burst int) *RateLimitedLLM {
	if burst < 1 {
		burst = 1
	}
	return &RateLimitedLLM{
		LLM:     llm,
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
	}
}

func (r *RateLimitedLLM) Generate(ctx context.Context, instruction, payload string, options ...core.GenerateOption) (*core.LLMResponse, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, errors.Wrap(err, errors.Canceled, "generation canceled while rate limited")
	}
	return r.LLM.Generate(ctx, instruction, payload, options...)
}
