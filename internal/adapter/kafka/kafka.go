package kafka

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/pkg/schema"
	"github.com/twmb/franz-go/pkg/kgo"
)

var (
	ErrTooFewOpts       = errors.New("too few options")
	ErrInvalidValueType = errors.New("invalid value type")
)

type ProducerClient interface {
	Produce(ctx context.Context, r *kgo.Record, promise func(*kgo.Record, error))
	Flush(ctx context.Context) error
	Close()
}

type Encoder interface {
	Encode(v any) ([]byte, error)
}

type Decoder interface {
	Decode(b []byte, v any) error
}

type Serde interface {
	Encoder
	Decoder
}

func makeOp(s ...string) string {
	return strings.Join(s, ".")
}

func opErr(err error, op ...string) error {
	return fmt.Errorf("%s: %w", makeOp(op...), err)
}

func clientEventToSchemaV1(v domain.ClientEvent) (s schema.ClientEventV1) {
	s.Kind = string(v.Kind)
	s.Subject = v.Subject
	s.Search = v.Search
	s.Sizes = v.Sizes
	s.MinPrice = v.MinPrice
	s.MaxPrice = v.MaxPrice
	s.Quantity = v.Quantity
	s.OccurredAt = v.OccurredAt
	if s.Sizes == nil {
		s.Sizes = []string{}
	}
	return
}

// eventKey keeps events of one product or variant in one partition.
func eventKey(v domain.ClientEvent) string {
	if v.Subject != "" {
		return v.Subject
	}
	return string(v.Kind)
}
