package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/niksmo/storefront/internal/adapter/httpclient"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/niksmo/storefront/internal/query"
)

// Cache resources. A key is a resource plus the parameters of one call.
const (
	resProducts       = "products"
	resProduct        = "product"
	resProductSizes   = "product-sizes"
	resRecentProducts = "recent-products"
	resCart           = "cart"
	resCartInfo       = "cart-info"
	resOrders         = "orders"
	resReviews        = "reviews"
	resAddresses      = "shipping-addresses"
	resIsAdmin        = "is-admin"
)

// Deps are the collaborators of a [Service].
type Deps struct {
	Products  port.ProductsAPI
	Cart      port.CartAPI
	Orders    port.OrdersAPI
	Payment   port.PaymentAPI
	Reviews   port.ReviewsAPI
	Addresses port.ShippingAddressesAPI
	Images    port.ImagesAPI
	Auth      port.AuthAPI

	CartStore    port.CartStore
	AddressStore port.AddressStore

	Events port.ClientEventsSender
	Query  *query.Client
}

type Opt func(*Service)

func ClockOpt(now func() time.Time) Opt {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// Service exposes every storefront read as a cached query and every write as
// a mutation that invalidates the reads it affects.
type Service struct {
	products  port.ProductsAPI
	cart      port.CartAPI
	orders    port.OrdersAPI
	payment   port.PaymentAPI
	reviews   port.ReviewsAPI
	addresses port.ShippingAddressesAPI
	images    port.ImagesAPI
	auth      port.AuthAPI

	cartStore    port.CartStore
	addressStore port.AddressStore

	events port.ClientEventsSender
	q      *query.Client
	now    func() time.Time
}

func New(d Deps, opts ...Opt) *Service {
	s := &Service{
		products:     d.Products,
		cart:         d.Cart,
		orders:       d.Orders,
		payment:      d.Payment,
		reviews:      d.Reviews,
		addresses:    d.Addresses,
		images:       d.Images,
		auth:         d.Auth,
		cartStore:    d.CartStore,
		addressStore: d.AddressStore,
		events:       d.Events,
		q:            d.Query,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run runs background revalidation until ctx is done.
func (s *Service) Run(ctx context.Context) {
	s.q.Run(ctx)
}

func (s *Service) Close() {
	if s.events != nil {
		s.events.Close()
	}
}

// SubscribeCart reports every settled state of the cart. It keeps the cart
// entry alive and refetched after mutations.
func (s *Service) SubscribeCart(fn func(query.State)) (unsubscribe func()) {
	return s.q.Subscribe(query.NewKey(resCart), fn)
}

func (s *Service) queryPolicy(enabled bool) query.Policy {
	p := s.q.DefaultPolicy()
	p.ShouldRetry = shouldRetry
	p.Disabled = !enabled
	return p
}

func (s *Service) mutation(resources ...string) query.Mutation {
	p := s.q.MutationPolicy()
	p.ShouldRetry = shouldRetry
	return query.Mutation{Policy: p, InvalidatesResources: resources}
}

// shouldRetry rejects failures a repeat can not fix: local validation and
// client errors, including 401.
func shouldRetry(err error) bool {
	if errors.Is(err, context.Canceled) || domain.IsValidation(err) {
		return false
	}
	var httpErr *httpclient.HTTPError
	if errors.As(err, &httpErr) {
		switch httpErr.StatusCode {
		case http.StatusRequestTimeout, http.StatusTooManyRequests:
			return true
		}
		return !httpclient.IsClientError(err)
	}
	return true
}

// scope shares one unauthorized redirect between all attempts of a call.
func scope(ctx context.Context) context.Context {
	return httpclient.WithAuthGuard(ctx)
}

func (s *Service) emit(ctx context.Context, evt domain.ClientEvent) {
	const op = "Service.emit"

	if s.events == nil {
		return
	}
	evt.OccurredAt = s.now()
	if err := s.events.SendEvent(ctx, evt); err != nil {
		slog.Warn("failed to send client event",
			"op", op, "kind", evt.Kind, "err", err)
	}
}

// rewindable validates f and buffers its content so every attempt of an
// upload reads it from the start.
func rewindable(f domain.ImageFile) (func() domain.ImageFile, error) {
	if err := domain.ValidateImage(f); err != nil {
		return nil, err
	}
	if f.Content == nil {
		return func() domain.ImageFile { return f }, nil
	}

	b, err := io.ReadAll(io.LimitReader(f.Content, domain.MaxImageSize+1))
	if err != nil {
		return nil, err
	}
	f.Size = int64(len(b))
	if err := domain.ValidateImage(f); err != nil {
		return nil, err
	}

	return func() domain.ImageFile {
		c := f
		c.Content = bytes.NewReader(b)
		return c
	}, nil
}

func opErr(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}
