package sigctx_test

import (
	"context"
	"syscall"
	"testing"
	"time"

	"github.com/niksmo/storefront/pkg/sigctx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifyContext(t *testing.T) {
	t.Run("ParentDone", func(t *testing.T) {
		parent, cancel := context.WithCancel(t.Context())
		ctx, stop := sigctx.NotifyContext(parent)
		defer stop()

		cancel()
		select {
		case <-ctx.Done():
		case <-time.After(time.Second):
			t.Fatal("context is not done")
		}
	})

	t.Run("Signal", func(t *testing.T) {
		ctx, stop := sigctx.NotifyContext(t.Context())
		defer stop()

		require.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGHUP))
		select {
		case <-ctx.Done():
		case <-time.After(time.Second):
			t.Fatal("context is not done")
		}
		assert.ErrorIs(t, ctx.Err(), context.Canceled)
	})
}
