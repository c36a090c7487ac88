package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dolittle/go-sdk/core/build"
	"github.com/dolittle/go-sdk/core/embeddings"
	"github.com/dolittle/go-sdk/core/events"
	"github.com/dolittle/go-sdk/core/execution"
	"github.com/dolittle/go-sdk/core/reversecall"
)

var ErrAlreadyStarted = errors.New("client already started")

// Metrics groups the metrics of the client's parts. Nil fields are no-ops.
type Metrics struct {
	Embeddings  embeddings.Metrics
	ReverseCall reversecall.Metrics
}

type Config struct {
	Context     context.Context
	Log         *slog.Logger
	Transport   reversecall.Transport // defaults to an in-memory transport
	Settings    Settings
	EventTypes  *events.Builder
	Embeddings  *embeddings.EmbeddingsBuilder
	Metrics     Metrics
	Middlewares []embeddings.HandlerMiddleware
}

type connection interface {
	Run(ctx context.Context) error
	Connected() bool
}

type Client struct {
	ctx       context.Context
	cancelCtx context.CancelFunc
	log       *slog.Logger
	settings  Settings
	transport reversecall.Transport

	results     *build.Results
	types       *events.EventTypes
	connections map[embeddings.EmbeddingID]connection
	store       *embeddings.Store

	started atomic.Bool
	group   errgroup.Group
	done    chan struct{}
	once    sync.Once
}

func New(config Config) (c *Client, err error) {
	c = &Client{
		results:     build.NewResults(),
		connections: make(map[embeddings.EmbeddingID]connection),
		done:        make(chan struct{}),
	}

	// === settings ===
	c.settings = config.Settings.withDefaults()
	base, err := c.settings.ExecutionContext()
	if err != nil {
		return nil, fmt.Errorf("settings: %w", err)
	}

	// === logger ===
	if config.Log == nil {
		config.Log = slog.Default()
	}
	c.log = config.Log.With(slog.String("microservice", c.settings.Microservice.String()))

	// === context ===
	if config.Context == nil {
		config.Context = context.Background()
	}
	c.ctx, c.cancelCtx = context.WithCancel(config.Context)

	// === transport ===
	c.transport = config.Transport
	if c.transport == nil {
		c.transport = reversecall.NewMemoryTransport().WithLog(c.log)
	}

	// === build ===
	if config.EventTypes == nil {
		config.EventTypes = events.NewBuilder()
	}
	if config.Embeddings == nil {
		config.Embeddings = embeddings.NewEmbeddingsBuilder()
	}
	c.types = config.EventTypes.Build(c.results)
	built := config.Embeddings.Build(c.types, c.results, embeddings.ProcessorOptions{
		Log:         c.log,
		Metrics:     config.Metrics.Embeddings,
		Middlewares: config.Middlewares,
	})
	c.results.Log(c.log)

	// === connections ===
	for _, p := range built.Processors {
		rc, err := reversecall.NewClient[embeddings.RegistrationRequest, embeddings.Request, embeddings.Response](
			reversecall.Options[embeddings.RegistrationRequest]{
				Transport:      c.transport,
				ConnectSubject: c.settings.ConnectSubject(),
				CallbackPrefix: c.settings.CallbackPrefix(),
				Registration:   p.Registration(),
				PingInterval:   c.settings.PingInterval,
				ReconnectDelay: c.settings.ReconnectDelay,
				Name:           "embedding " + p.EmbeddingID().String(),
				Log:            c.log,
				Metrics:        config.Metrics.ReverseCall,
			},
			p.Handle,
		)
		if err != nil {
			return nil, err
		}
		c.connections[p.EmbeddingID()] = rc
	}

	// === store ===
	c.store, err = embeddings.NewStore(embeddings.StoreOptions{
		Requester:        c.transport,
		Subject:          c.settings.StoreSubject(),
		ExecutionContext: base,
		ReadModelTypes:   built.ReadModelTypes,
		Log:              c.log,
	})
	if err != nil {
		return nil, err
	}

	c.log.Debug(
		"client created",
		slog.Int("event_types", c.types.Len()),
		slog.Int("embeddings", len(c.connections)),
		slog.Bool("build_failed", c.results.Failed()),
	)

	return c, nil
}

func (c *Client) Embeddings() *embeddings.Store  { return c.store }
func (c *Client) EventTypes() *events.EventTypes { return c.types }
func (c *Client) Results() *build.Results        { return c.results }
func (c *Client) Settings() Settings             { return c.settings }

// Connected reports whether every embedding is registered with the runtime.
func (c *Client) Connected() bool {
	for _, conn := range c.connections {
		if !conn.Connected() {
			return false
		}
	}
	return true
}

// Registered reports whether the embedding with id was built and is
// connecting to the runtime.
func (c *Client) Registered(id embeddings.EmbeddingID) bool {
	_, ok := c.connections[id]
	return ok
}

// Run starts the connections in the background. They reconnect until the
// client is stopped.
func (c *Client) Run() error {
	if !c.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}
	c.group.Go(func() error {
		<-c.ctx.Done()
		return nil
	})
	for _, conn := range c.connections {
		c.group.Go(func() error { return conn.Run(c.ctx) })
	}
	go func() {
		_ = c.group.Wait()
		c.once.Do(func() { close(c.done) })
	}()

	c.log.Info("client started", slog.Int("embeddings", len(c.connections)))

	return nil
}

// Done is closed once the client has stopped.
func (c *Client) Done() <-chan struct{} { return c.done }

// Stop cancels all connections. It does not wait for them.
func (c *Client) Stop() {
	c.cancelCtx()
	if c.started.CompareAndSwap(false, true) {
		c.once.Do(func() { close(c.done) })
	}
}

// Shutdown stops the client and waits until every connection has ended or
// ctx is done.
func (c *Client) Shutdown(ctx context.Context) error {
	shutdownAt := time.Now()
	c.Stop()
	select {
	case <-c.done:
		c.log.Info("client stopped", slog.Duration("duration", time.Since(shutdownAt)))
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// CurrentExecutionContext returns the base execution context with a fresh
// correlation id.
func (c *Client) CurrentExecutionContext() (execution.Context, error) {
	return c.settings.ExecutionContext()
}

func Run(config Config) (c *Client, err error) {
	c, err = New(config)
	if err != nil {
		return nil, err
	}

	err = c.Run()
	if err != nil {
		return nil, err
	}

	return c, nil
}
