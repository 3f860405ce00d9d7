package httpclient

import (
	"context"
	"sync/atomic"
)

type guardKey struct{}

// An authGuard is per-request state: the login redirect fires at most once for
// all attempts made under the same guarded context.
type authGuard struct {
	redirected atomic.Bool
}

func (g *authGuard) markRedirected() bool {
	return g.redirected.CompareAndSwap(false, true)
}

// WithAuthGuard attaches a fresh retry guard to ctx unless one is present.
//
// Retries of one logical request must share the returned context.
func WithAuthGuard(ctx context.Context) context.Context {
	if guardFrom(ctx) != nil {
		return ctx
	}
	return context.WithValue(ctx, guardKey{}, new(authGuard))
}

func guardFrom(ctx context.Context) *authGuard {
	g, _ := ctx.Value(guardKey{}).(*authGuard)
	return g
}
