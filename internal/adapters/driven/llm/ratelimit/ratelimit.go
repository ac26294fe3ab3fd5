// Package ratelimit wraps an LLM service with a token-bucket limiter.
package ratelimit

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

// LLMService delays Generate calls to stay under a request rate.
type LLMService struct {
	driven.LLMService
	limiter *rate.Limiter
}

// Wrap limits inner to requestsPerSecond with a burst of one.
// A non-positive rate returns inner unchanged.
func Wrap(inner driven.LLMService, requestsPerSecond float64) driven.LLMService {
	if requestsPerSecond <= 0 {
		return inner
	}
	return &LLMService{
		LLMService: inner,
		limiter:    rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
	}
}

// Generate waits for the limiter, then delegates.
func (s *LLMService) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}
	return s.LLMService.Generate(ctx, prompt, opts)
}
