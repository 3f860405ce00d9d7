package kafka

import (
	"context"
	"errors"
	"log/slog"

	"github.com/lovoo/goka"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/niksmo/storefront/pkg/schema"
)

var _ port.ClientEventsSender = (*CartEventsEmitter)(nil)

// A clientEventCodec used for serde [schema.ClientEventV1]
type clientEventCodec struct {
	serde Serde
}

func (c clientEventCodec) Encode(v any) ([]byte, error) {
	const op = "clientEventCodec.Encode"
	if _, ok := v.(schema.ClientEventV1); !ok {
		return nil, opErr(ErrInvalidValueType, op)
	}
	return c.serde.Encode(v)
}

func (c clientEventCodec) Decode(data []byte) (any, error) {
	const op = "clientEventCodec.Decode"
	var s schema.ClientEventV1
	if err := c.serde.Decode(data, &s); err != nil {
		return nil, opErr(err, op)
	}
	return s, nil
}

// Emitter is the part of [goka.Emitter] used for cart events.
type Emitter interface {
	Emit(key string, msg any) (*goka.Promise, error)
	Finish() error
}

// A CartEventsEmitterConfig used for setup [CartEventsEmitter].
type CartEventsEmitterConfig struct {
	SeedBrokers []string
	Topic       string
	Serde       Serde
	Security    Security
}

// A CartEventsEmitter streams cart additions and removals.
type CartEventsEmitter struct {
	ge       Emitter
	opPrefix string
}

func NewCartEventsEmitter(config CartEventsEmitterConfig) (CartEventsEmitter, error) {
	const op = "NewCartEventsEmitter"

	if config.Serde == nil {
		return CartEventsEmitter{}, opErr(errors.New("serde is nil"), op)
	}

	saramaCfg, err := config.Security.saramaConfig()
	if err != nil {
		return CartEventsEmitter{}, opErr(err, op)
	}

	ge, err := goka.NewEmitter(
		config.SeedBrokers,
		goka.Stream(config.Topic),
		clientEventCodec{config.Serde},
		goka.WithEmitterProducerBuilder(goka.ProducerBuilderWithConfig(saramaCfg)),
	)
	if err != nil {
		return CartEventsEmitter{}, opErr(err, op)
	}
	return NewCartEventsEmitterWith(ge), nil
}

func NewCartEventsEmitterWith(ge Emitter) CartEventsEmitter {
	return CartEventsEmitter{ge: ge, opPrefix: "CartEventsEmitter"}
}

func (e CartEventsEmitter) SendEvent(
	ctx context.Context, evt domain.ClientEvent,
) error {
	const op = "SendEvent"
	log := slog.With("op", makeOp(e.opPrefix, op))

	if err := ctx.Err(); err != nil {
		return opErr(err, e.opPrefix, op)
	}

	promise, err := e.ge.Emit(eventKey(evt), clientEventToSchemaV1(evt))
	if err != nil {
		return opErr(err, e.opPrefix, op)
	}
	promise.Then(func(err error) {
		if err != nil {
			log.Warn("failed to deliver cart event", "kind", evt.Kind, "err", err)
		}
	})
	return nil
}

func (e CartEventsEmitter) Close() {
	const op = "Close"
	log := slog.With("op", makeOp(e.opPrefix, op))

	log.Info("closing emitter...")
	if err := e.ge.Finish(); err != nil {
		log.Error("failed to finish gracefully", "err", err)
		return
	}
	log.Info("emitter is closed")
}
