package nats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	natsgo "github.com/nats-io/nats.go"

	"github.com/dolittle/go-sdk/core/reversecall"
)

type TransportConfig struct {
	Connect Connector    // Connect is used to create the underlying NATS connection. If nil, ConnectDefault() is used.
	Log     *slog.Logger // Log for diagnostics (optional)
}

// Transport is a reversecall.Transport over NATS request/reply. Subjects are
// used as given.
type Transport struct {
	nc      *natsgo.Conn
	closeNc closeFunc
	log     *slog.Logger

	mu   sync.Mutex
	subs map[*natsgo.Subscription]struct{}

	closed atomic.Bool
}

// responseFrame is the minimal response encoding for Request(). Must match the
// reversecall in-memory transport.
type responseFrame struct {
	Data []byte `json:"data,omitempty"`
	Err  string `json:"err,omitempty"`
}

func NewTransport(cfg TransportConfig) (*Transport, error) {
	connFn := cfg.Connect
	if connFn == nil {
		connFn = ConnectDefault()
	}

	log := cfg.Log
	if log == nil {
		log = slog.Default()
	}

	nc, closeNc, err := connFn()
	if err != nil {
		return nil, err
	}

	t := &Transport{
		nc:      nc,
		closeNc: closeNc,
		log:     log.With(slog.String("transport", "nats")),
		subs:    make(map[*natsgo.Subscription]struct{}),
	}

	return t, nil
}

func (t *Transport) Request(ctx context.Context, subject string, data []byte) ([]byte, error) {
	if t.closed.Load() {
		return nil, reversecall.ErrTransportClosed
	}

	msg, err := t.nc.RequestWithContext(ctx, subject, data)
	switch {
	case errors.Is(err, natsgo.ErrNoResponders):
		return nil, fmt.Errorf("%w: %s", reversecall.ErrNoSubscriber, subject)
	case errors.Is(err, natsgo.ErrConnectionClosed):
		return nil, reversecall.ErrTransportClosed
	case err != nil:
		return nil, fmt.Errorf("nats: request %s: %w", subject, err)
	}

	var rf responseFrame
	if err := json.Unmarshal(msg.Data, &rf); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if rf.Err != "" {
		return nil, errors.New(rf.Err)
	}
	return rf.Data, nil
}

// Subscribe handles requests on subject until ctx is done or the subscription
// is removed. Every request is handled in its own goroutine.
func (t *Transport) Subscribe(ctx context.Context, subject string, h reversecall.HandlerFunc) (reversecall.Subscription, error) {
	if t.closed.Load() {
		return nil, reversecall.ErrTransportClosed
	}
	log := t.log.With(slog.String("subject", subject))

	sub, err := t.nc.Subscribe(subject, func(msg *natsgo.Msg) {
		go t.handle(ctx, log, h, msg)
	})
	if err != nil {
		return nil, fmt.Errorf("nats: subscribe %s: %w", subject, err)
	}

	t.mu.Lock()
	t.subs[sub] = struct{}{}
	t.mu.Unlock()

	s := &subscription{sub: sub, t: t}
	context.AfterFunc(ctx, func() {
		_ = s.Unsubscribe()
	})

	log.Debug("subscribed")

	return s, nil
}

func (t *Transport) handle(ctx context.Context, log *slog.Logger, h reversecall.HandlerFunc, msg *natsgo.Msg) {
	data, err := h(ctx, msg.Data)
	rf := responseFrame{Data: data}
	if err != nil {
		rf.Err = err.Error()
		rf.Data = nil
	}
	b, _ := json.Marshal(rf)

	if msg.Reply == "" {
		return
	}
	if err := msg.Respond(b); err != nil {
		log.Error("failed to publish reply", slog.Any("error", err))
	}
}

func (t *Transport) Close() error {
	if t.closed.Swap(true) {
		return nil
	}
	t.mu.Lock()
	for s := range t.subs {
		_ = s.Unsubscribe()
	}
	t.subs = map[*natsgo.Subscription]struct{}{}
	t.mu.Unlock()
	if t.nc != nil {
		_ = t.nc.Drain()
		t.closeNc()
	}
	return nil
}

type subscription struct {
	sub  *natsgo.Subscription
	t    *Transport
	once sync.Once
}

func (s *subscription) Unsubscribe() (err error) {
	s.once.Do(func() {
		err = s.sub.Unsubscribe()
		if errors.Is(err, natsgo.ErrConnectionClosed) || errors.Is(err, natsgo.ErrBadSubscription) {
			err = nil
		}
		s.t.mu.Lock()
		delete(s.t.subs, s.sub)
		s.t.mu.Unlock()
	})
	return err
}

var _ reversecall.Transport = &Transport{}
