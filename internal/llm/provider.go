// Package llm drives bilingual article drafting. Providers are tried in
// order; a transient failure on one moves the call to the next.
package llm

import (
	"context"
	"errors"
	"log"
)

// ErrUnavailable marks a transient provider failure (rate limit, outage,
// timeout). Callers fall through to the next provider.
var ErrUnavailable = errors.New("provider unavailable")

// ErrNoProvider is returned when no language-model provider is configured.
// This is an operator error, not a runtime condition.
var ErrNoProvider = errors.New("no language model provider configured")

// Provider is a single language-model backend.
type Provider interface {
	Name() string
	Complete(ctx context.Context, system, user string) (string, error)
}

// Chain tries providers in order, falling through on transient failures.
type Chain struct {
	providers []Provider
}

// NewChain builds a chain from the non-nil providers given, in order.
func NewChain(providers ...Provider) *Chain {
	c := &Chain{}
	for _, p := range providers {
		if p != nil {
			c.providers = append(c.providers, p)
		}
	}
	return c
}

// Complete runs the prompt through the first provider that answers. A
// non-transient error stops the chain immediately.
func (c *Chain) Complete(ctx context.Context, system, user string) (string, error) {
	if len(c.providers) == 0 {
		return "", ErrNoProvider
	}

	var lastErr error
	for _, p := range c.providers {
		out, err := p.Complete(ctx, system, user)
		if err == nil {
			return out, nil
		}
		if !errors.Is(err, ErrUnavailable) {
			return "", err
		}
		log.Printf("⚠️ Provider %s unavailable, trying next: %v", p.Name(), err)
		lastErr = err
	}
	return "", lastErr
}
