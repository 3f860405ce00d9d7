package query

import (
	"context"
	"log/slog"
	"time"
)

// Run performs background revalidation and garbage collection until ctx is
// done. It waits for started refreshes before returning.
func (c *Client) Run(ctx context.Context) {
	const op = "query.Client.Run"
	log := slog.With("op", op)

	ticker := time.NewTicker(c.gcInterval)
	defer ticker.Stop()

	log.Debug("query scheduler is running")
	for {
		select {
		case <-ctx.Done():
			c.inflight.Wait()
			log.Debug("query scheduler is stopped")
			return
		case key := <-c.jobs:
			c.inflight.Add(1)
			go func() {
				defer c.inflight.Done()
				c.refresh(ctx, key)
			}()
		case <-ticker.C:
			if n := c.GC(); n != 0 {
				log.Debug("cache entries evicted", "count", n)
			}
		}
	}
}

func (c *Client) refresh(ctx context.Context, key Key) {
	const op = "query.Client.refresh"

	if _, err := c.fetch(ctx, key); err != nil {
		slog.Debug("background refresh failed",
			"op", op, "key", key.String(), "err", err)
	}
}

// GC evicts entries that have no observers, no fetch in flight, and have not
// been used for their policy's GCTime. It returns the number of evicted
// entries.
func (c *Client) GC() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	var n int
	for hash, e := range c.entries {
		if len(e.observers) != 0 || e.seq > e.settled {
			continue
		}
		if now.Sub(e.lastUsed) < e.policy.GCTime {
			continue
		}
		delete(c.entries, hash)
		n++
	}
	return n
}
