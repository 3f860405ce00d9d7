package kafka

import (
	"context"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

var _ port.ClientEventsSender = (*EventsRouter)(nil)
var _ port.ClientEventsSender = Noop{}

// An EventsRouter sends cart events to the cart stream and everything else
// to the client events topic.
type EventsRouter struct {
	clientEvents port.ClientEventsSender
	cartEvents   port.ClientEventsSender
}

func NewEventsRouter(clientEvents, cartEvents port.ClientEventsSender) EventsRouter {
	return EventsRouter{clientEvents, cartEvents}
}

func (r EventsRouter) SendEvent(ctx context.Context, evt domain.ClientEvent) error {
	switch evt.Kind {
	case domain.EventCartAdd, domain.EventCartRemove:
		return r.cartEvents.SendEvent(ctx, evt)
	}
	return r.clientEvents.SendEvent(ctx, evt)
}

func (r EventsRouter) Close() {
	r.clientEvents.Close()
	r.cartEvents.Close()
}

// Noop drops every event. It stands in when no brokers are configured.
type Noop struct{}

func (Noop) SendEvent(context.Context, domain.ClientEvent) error { return nil }

func (Noop) Close() {}
