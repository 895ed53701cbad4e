package llm

import (
	"context"
	"time"
)

type timeoutProvider struct {
	next    Provider
	timeout time.Duration
}

// NewTimeoutProvider bounds every call to next. A non-positive timeout returns next as is.
func NewTimeoutProvider(next Provider, timeout time.Duration) Provider {
	if timeout <= 0 {
		return next
	}
	return timeoutProvider{next: next, timeout: timeout}
}

func (p timeoutProvider) Generate(ctx context.Context, systemInstruction, userInstruction string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	return p.next.Generate(ctx, systemInstruction, userInstruction)
}
