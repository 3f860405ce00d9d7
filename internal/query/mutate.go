package query

import (
	"context"

	"github.com/niksmo/storefront/pkg/retry"
)

// A Mutation describes a write and the cache entries it makes stale.
type Mutation struct {
	Policy Policy

	Invalidates          []Key
	InvalidatesResources []string
}

// Mutate runs fn with the mutation's retry policy. On success the listed keys
// and resources are invalidated. Mutations are never deduplicated.
func Mutate[T any](
	ctx context.Context,
	c *Client,
	m Mutation,
	fn func(context.Context) (T, error),
) (T, error) {
	p := m.Policy.normalize()

	v, err := retry.DoWithResult(ctx, p.retryConfig(), func() (T, error) {
		return fn(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}

	for _, k := range m.Invalidates {
		c.Invalidate(k)
	}
	for _, r := range m.InvalidatesResources {
		c.InvalidateResource(r)
	}
	return v, nil
}
