// Package strategy runs ordered fallback chains: try each strategy in turn,
// keep the first acceptable result, never let one failure kill the chain.
package strategy

import (
	"context"
	"log"
)

// Strategy is one named attempt at producing a value.
type Strategy[T any] struct {
	Name string
	Run  func(ctx context.Context) (T, error)
}

// First evaluates strategies in order and returns the first result accept
// approves, along with the winning strategy's name. Errors are logged and
// treated as "produced nothing". When every strategy misses, the zero value
// and an empty name are returned.
func First[T any](ctx context.Context, strategies []Strategy[T], accept func(T) bool) (T, string) {
	for _, s := range strategies {
		out, err := s.Run(ctx)
		if err != nil {
			log.Printf("⚠️ Strategy %s failed: %v", s.Name, err)
			continue
		}
		if accept(out) {
			return out, s.Name
		}
	}
	var zero T
	return zero, ""
}
