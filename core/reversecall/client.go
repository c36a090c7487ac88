package reversecall

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync/atomic"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/dolittle/go-sdk/internal/codec"
)

const (
	DefaultPingInterval   = 5 * time.Second
	DefaultReconnectDelay = time.Second
	DefaultCallbackPrefix = "dolittle.callback"

	// missedPings is how many ping intervals may pass without a ping.
	missedPings = 3
)

// Handler answers a request from the runtime. It has no error return: every
// failure must be expressed in the response.
type Handler[Req, Resp any] func(ctx context.Context, req Req) Resp

type Options[Reg any] struct {
	Transport      Transport     // required
	ConnectSubject string        // required
	CallbackPrefix string        // defaults to DefaultCallbackPrefix
	Registration   Reg           // sent with every connect
	PingInterval   time.Duration // defaults to DefaultPingInterval
	ReconnectDelay time.Duration // delay between attempts in Run, defaults to DefaultReconnectDelay
	Name           string        // for logs and metrics
	Log            *slog.Logger
	Metrics        Metrics
}

// Client keeps a reverse call connection to the runtime.
type Client[Reg, Req, Resp any] struct {
	opts    Options[Reg]
	handler Handler[Req, Resp]
	codec   codec.Codec
	log     *slog.Logger
	metrics Metrics

	connected atomic.Bool
}

func NewClient[Reg, Req, Resp any](opts Options[Reg], h Handler[Req, Resp]) (*Client[Reg, Req, Resp], error) {
	if opts.Transport == nil {
		return nil, fmt.Errorf("reversecall: Options.Transport is required")
	}
	if opts.ConnectSubject == "" {
		return nil, fmt.Errorf("reversecall: Options.ConnectSubject is required")
	}
	if h == nil {
		return nil, fmt.Errorf("reversecall: handler is required")
	}
	if opts.CallbackPrefix == "" {
		opts.CallbackPrefix = DefaultCallbackPrefix
	}
	if opts.PingInterval <= 0 {
		opts.PingInterval = DefaultPingInterval
	}
	if opts.ReconnectDelay <= 0 {
		opts.ReconnectDelay = DefaultReconnectDelay
	}
	if opts.Name == "" {
		opts.Name = opts.ConnectSubject
	}
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}
	m := opts.Metrics
	if m == nil {
		m = NopMetrics()
	}

	return &Client[Reg, Req, Resp]{
		opts:    opts,
		handler: h,
		codec:   codec.JSONCodec{},
		log:     log.With(slog.String("reverse_call", opts.Name)),
		metrics: m,
	}, nil
}

// Connected reports whether the client is currently registered.
func (c *Client[Reg, Req, Resp]) Connected() bool { return c.connected.Load() }

// Run keeps the client connected until ctx is cancelled, waiting
// ReconnectDelay between attempts. It returns nil once ctx is done.
func (c *Client[Reg, Req, Resp]) Run(ctx context.Context) error {
	for {
		err := c.Serve(ctx)
		if ctx.Err() != nil {
			return nil
		}

		if errors.Is(err, ErrRegistrationFailed) {
			c.log.Error("registration failed", slog.Any("error", err))
		} else {
			c.log.Warn("connection lost", slog.Any("error", err))
		}
		c.metrics.Reconnect(c.opts.Name)

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(c.opts.ReconnectDelay):
		}
	}
}

// Serve makes one connection attempt and serves requests until the
// connection is lost or ctx is cancelled. It always returns a non-nil error.
func (c *Client[Reg, Req, Resp]) Serve(ctx context.Context) error {
	sessionCtx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	callback := c.opts.CallbackPrefix + "." + gonanoid.Must()
	log := c.log.With(slog.String("callback", callback))

	var lastPing atomic.Int64
	lastPing.Store(time.Now().UnixNano())

	sub, err := c.opts.Transport.Subscribe(sessionCtx, callback, func(_ context.Context, data []byte) ([]byte, error) {
		return c.onFrame(sessionCtx, log, &lastPing, data)
	})
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", callback, err)
	}
	defer func() { _ = sub.Unsubscribe() }()

	if err := c.connect(sessionCtx, callback); err != nil {
		return err
	}

	c.connected.Store(true)
	c.metrics.Connected(c.opts.Name, true)
	defer func() {
		c.connected.Store(false)
		c.metrics.Connected(c.opts.Name, false)
	}()
	log.Info("connected", slog.Duration("ping_interval", c.opts.PingInterval))

	go c.watchdog(sessionCtx, cancel, &lastPing)

	<-sessionCtx.Done()
	return context.Cause(sessionCtx)
}

func (c *Client[Reg, Req, Resp]) connect(ctx context.Context, callback string) error {
	defer c.metrics.ConnectDuration(c.opts.Name).ObserveDuration()

	args, err := c.codec.Marshal(ConnectArguments[Reg]{
		CallbackSubject: callback,
		PingInterval:    Duration(c.opts.PingInterval),
		Registration:    c.opts.Registration,
	})
	if err != nil {
		return fmt.Errorf("encode connect arguments: %w", err)
	}

	data, err := c.opts.Transport.Request(ctx, c.opts.ConnectSubject, args)
	if err != nil {
		return fmt.Errorf("connect %s: %w", c.opts.ConnectSubject, err)
	}
	res, err := codec.Decode[ConnectResponse](c.codec, data)
	if err != nil {
		return fmt.Errorf("decode connect response: %w", err)
	}
	if res.Failure != nil {
		c.metrics.Registration(c.opts.Name, false)
		return fmt.Errorf("%w: %s", ErrRegistrationFailed, res.Failure.Reason)
	}
	c.metrics.Registration(c.opts.Name, true)
	return nil
}

func (c *Client[Reg, Req, Resp]) watchdog(ctx context.Context, cancel context.CancelCauseFunc, lastPing *atomic.Int64) {
	ticker := time.NewTicker(c.opts.PingInterval)
	defer ticker.Stop()

	deadline := missedPings * c.opts.PingInterval
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if since := time.Since(time.Unix(0, lastPing.Load())); since > deadline {
				cancel(fmt.Errorf("%w for %s", ErrPingTimeout, since.Round(time.Millisecond)))
				return
			}
		}
	}
}

func (c *Client[Reg, Req, Resp]) onFrame(ctx context.Context, log *slog.Logger, lastPing *atomic.Int64, data []byte) (out []byte, err error) {
	frame, err := codec.Decode[Frame[Req]](c.codec, data)
	if err != nil {
		return nil, fmt.Errorf("decode frame: %w", err)
	}

	switch frame.Kind {
	case FramePing:
		lastPing.Store(time.Now().UnixNano())
		c.metrics.PingReceived(c.opts.Name)
		return c.codec.Marshal(Frame[Resp]{Kind: FramePong, ID: frame.ID})

	case FrameRequest:
		if frame.Payload == nil {
			return nil, fmt.Errorf("request %s has no payload", frame.ID)
		}
		defer func() {
			if r := recover(); r != nil {
				log.Error("handler panicked", slog.String("request", frame.ID), slog.Any("recovered", r), slog.String("stack", string(debug.Stack())))
				err = fmt.Errorf("handler panicked: %v", r)
			}
		}()
		defer c.metrics.RequestDuration(c.opts.Name).ObserveDuration()

		resp := c.handler(ctx, *frame.Payload)
		return c.codec.Marshal(Frame[Resp]{Kind: FrameResponse, ID: frame.ID, Payload: &resp})
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownFrame, frame.Kind)
}
