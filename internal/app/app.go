package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/niksmo/storefront/config"
	"github.com/niksmo/storefront/internal/adapter/api"
	"github.com/niksmo/storefront/internal/adapter/httpclient"
	"github.com/niksmo/storefront/internal/adapter/kafka"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/niksmo/storefront/internal/core/service"
	"github.com/niksmo/storefront/internal/query"
	"github.com/niksmo/storefront/internal/store"
	"github.com/niksmo/storefront/pkg/schema"
	"github.com/twmb/franz-go/pkg/sr"
)

type stores struct {
	cart    *store.CartStore
	address *store.AddressStore
}

type App struct {
	ctx     context.Context
	cfg     config.Config
	client  *httpclient.Client
	query   *query.Client
	stores  stores
	events  port.ClientEventsSender
	Service *service.Service

	wg sync.WaitGroup
}

func New(ctx context.Context, cfg config.Config) *App {
	app := &App{ctx: ctx, cfg: cfg}

	app.initLogger()
	app.initHTTPClient()
	app.initQueryClient()
	app.initStores()
	app.initEvents()
	app.initCoreService()

	return app
}

func (app *App) initLogger() {
	opts := &slog.HandlerOptions{Level: app.cfg.LogLevel}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, opts))
	slog.SetDefault(logger)
}

func (app *App) initHTTPClient() {
	const op = "App.initHTTPClient"

	opts := []httpclient.Opt{
		httpclient.TimeoutOpt(app.cfg.API.Timeout),
		httpclient.NavigatorOpt(newLoginNavigator(
			app.cfg.API.BaseURL, app.cfg.API.LoginPath,
		)),
	}
	if token := app.cfg.API.SessionToken; token != "" {
		opts = append(opts, httpclient.SessionCookieOpt(
			app.cfg.API.SessionCookieName, token,
		))
	}

	cl, err := httpclient.New(app.cfg.API.BaseURL, opts...)
	if err != nil {
		app.fallDown(op, err)
	}
	app.client = cl
}

func (app *App) initQueryClient() {
	qp := query.DefaultPolicy()
	qp.StaleTime = app.cfg.Query.StaleTime
	qp.GCTime = app.cfg.Query.GCTime
	qp.Retry = app.cfg.Query.Retry

	mp := query.DefaultMutationPolicy()
	mp.GCTime = app.cfg.Query.GCTime
	mp.Retry = app.cfg.Query.MutationRetry

	app.query = query.NewClient(query.DefaultsOpt(qp, mp))
}

func (app *App) initStores() {
	app.stores.cart = store.NewCartStore()
	app.stores.address = store.NewAddressStore()
}

// initEvents falls back to dropping events when the broker is not
// configured or not reachable; the storefront works without it.
func (app *App) initEvents() {
	const op = "App.initEvents"
	log := slog.With("op", op)

	app.events = kafka.Noop{}
	if !app.cfg.EventsEnabled() {
		log.Info("client events are disabled")
		return
	}

	events, err := app.newBrokerEvents()
	if err != nil {
		log.Error("client events are disabled", "err", err)
		return
	}
	app.events = events
}

func (app *App) newBrokerEvents() (port.ClientEventsSender, error) {
	ctx := app.ctx
	b := app.cfg.Broker
	sec := kafka.Security{
		CAFile:   b.TLS.CAFile,
		CertFile: b.TLS.CertFile,
		KeyFile:  b.TLS.KeyFile,
		User:     b.SASL.User,
		Pass:     b.SASL.Pass,
	}

	srClient, err := sr.NewClient(sr.URLs(b.SchemaRegistryURLs...))
	if err != nil {
		return nil, err
	}
	schemaCreater := schema.NewSchemaCreater(srClient)

	clientEventsSerde, err := schema.NewSerdeClientEventV1(
		ctx,
		schema.SubjectOpt(b.Topics.ClientEvents+"-value"),
		schema.SchemaIdentifierOpt(schemaCreater),
	)
	if err != nil {
		return nil, err
	}

	cartEventsSerde, err := schema.NewSerdeClientEventV1(
		ctx,
		schema.SubjectOpt(b.Topics.CartEvents+"-value"),
		schema.SchemaIdentifierOpt(schemaCreater),
	)
	if err != nil {
		return nil, err
	}

	producer, err := kafka.NewClientEventsProducer(
		kafka.ProducerClientOpt(ctx, b.SeedBrokers, b.Topics.ClientEvents, sec),
		kafka.ProducerEncoderOpt(clientEventsSerde),
	)
	if err != nil {
		return nil, err
	}

	emitter, err := kafka.NewCartEventsEmitter(kafka.CartEventsEmitterConfig{
		SeedBrokers: b.SeedBrokers,
		Topic:       b.Topics.CartEvents,
		Serde:       cartEventsSerde,
		Security:    sec,
	})
	if err != nil {
		producer.Close()
		return nil, err
	}

	return kafka.NewEventsRouter(producer, emitter), nil
}

func (app *App) initCoreService() {
	cl := app.client
	prefix := app.cfg.API.Prefix

	app.Service = service.New(service.Deps{
		Products:     api.NewProductsAPI(cl, prefix),
		Cart:         api.NewCartAPI(cl, prefix),
		Orders:       api.NewOrdersAPI(cl, prefix),
		Payment:      api.NewPaymentAPI(cl, prefix),
		Reviews:      api.NewReviewsAPI(cl, prefix),
		Addresses:    api.NewShippingAddressesAPI(cl, app.cfg.API.ShippingPrefix),
		Images:       api.NewImagesAPI(cl, prefix),
		Auth:         api.NewAuthAPI(cl, prefix),
		CartStore:    app.stores.cart,
		AddressStore: app.stores.address,
		Events:       app.events,
		Query:        app.query,
	})
}

// Run starts background revalidation. It stops when the app context is done.
func (app *App) Run() {
	app.wg.Add(1)
	go func() {
		defer app.wg.Done()
		app.Service.Run(app.ctx)
	}()

	slog.Info("application is running", "api", app.client.BaseURL())
}

// Close waits for background work to stop and releases the event sender.
// The app context must be done before.
func (app *App) Close() {
	slog.Info("application is closing...")

	app.wg.Wait()
	app.Service.Close()

	slog.Info("application is closed")
}

func (app *App) fallDown(op string, err error) {
	panic(fmt.Errorf("%s: %w", op, err))
}
