package reversecall

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
)

// responseFrame carries a handler's reply or error back to the requester. The
// NATS transport uses the same encoding.
type responseFrame struct {
	Data []byte `json:"data,omitempty"`
	Err  string `json:"err,omitempty"`
}

func encodeResponse(data []byte, err error) []byte {
	rf := responseFrame{Data: data}
	if err != nil {
		rf = responseFrame{Err: err.Error()}
	}
	b, _ := json.Marshal(rf)
	return b
}

func decodeResponse(b []byte) ([]byte, error) {
	var rf responseFrame
	if err := json.Unmarshal(b, &rf); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if rf.Err != "" {
		return nil, errors.New(rf.Err)
	}
	return rf.Data, nil
}

// MemoryTransport is an in-process Transport. Every subscriber of a subject
// receives a request; the first reply wins.
type MemoryTransport struct {
	mu  sync.RWMutex
	log *slog.Logger

	closed bool

	// subject -> subID -> handler
	subs map[string]map[string]HandlerFunc

	// replyTo -> chan response bytes
	inboxes map[string]chan []byte

	seq uint64
}

func NewMemoryTransport() *MemoryTransport {
	return &MemoryTransport{
		log:     slog.New(slog.DiscardHandler),
		subs:    make(map[string]map[string]HandlerFunc),
		inboxes: make(map[string]chan []byte),
	}
}

func (t *MemoryTransport) WithLog(log *slog.Logger) *MemoryTransport {
	t.log = log.With(slog.String("transport", "mem"))
	return t
}

// Request sends data to every subscriber of subject and returns the first
// reply.
func (t *MemoryTransport) Request(ctx context.Context, subject string, data []byte) ([]byte, error) {
	replyTo := t.newInboxID()
	replyCh, err := t.registerInbox(replyTo)
	if err != nil {
		return nil, err
	}
	defer t.unregisterInbox(replyTo)

	handlers, err := t.handlersFor(subject)
	if err != nil {
		return nil, err
	}
	for _, h := range handlers {
		go t.invokeHandler(ctx, h, replyTo, data)
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case b, ok := <-replyCh:
		if !ok {
			return nil, ErrTransportClosed
		}
		return decodeResponse(b)
	}
}

// handlersFor snapshots the handlers of subject so they run without the lock.
func (t *MemoryTransport) handlersFor(subject string) ([]HandlerFunc, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.closed {
		return nil, ErrTransportClosed
	}
	subs := t.subs[subject]
	if len(subs) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoSubscriber, subject)
	}
	handlers := make([]HandlerFunc, 0, len(subs))
	for _, h := range subs {
		handlers = append(handlers, h)
	}
	return handlers, nil
}

func (t *MemoryTransport) Subscribe(ctx context.Context, subject string, h HandlerFunc) (Subscription, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.log.Debug("subscribe", slog.String("subject", subject))

	if t.closed {
		return nil, ErrTransportClosed
	}
	if t.subs[subject] == nil {
		t.subs[subject] = make(map[string]HandlerFunc)
	}

	subID := t.newSubID()
	t.subs[subject][subID] = h

	s := &subscription{
		t:       t,
		log:     t.log.With(slog.String("subscription", subID), slog.String("subject", subject)),
		subject: subject,
		subID:   subID,
	}

	context.AfterFunc(ctx, func() {
		_ = s.Unsubscribe()
	})

	return s, nil
}

// HasSubscriber reports whether anything is subscribed to subject.
func (t *MemoryTransport) HasSubscriber(subject string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.subs[subject]) > 0
}

func (t *MemoryTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil
	}
	t.closed = true

	for k, ch := range t.inboxes {
		close(ch)
		delete(t.inboxes, k)
	}
	clear(t.subs)

	t.log.Debug("closed")

	return nil
}

type subscription struct {
	t       *MemoryTransport
	log     *slog.Logger
	subject string
	subID   string
	once    sync.Once
}

func (s *subscription) Unsubscribe() error {
	s.once.Do(func() {
		s.t.mu.Lock()
		defer s.t.mu.Unlock()
		if subs := s.t.subs[s.subject]; subs != nil {
			delete(subs, s.subID)
			if len(subs) == 0 {
				delete(s.t.subs, s.subject)
			}
		}
		s.log.Debug("unsubscribed")
	})
	return nil
}

func (t *MemoryTransport) invokeHandler(ctx context.Context, h HandlerFunc, replyTo string, data []byte) {
	b := encodeResponse(h(ctx, data))

	// The inbox is only closed under the write lock, so sending while holding
	// the read lock cannot hit a closed channel.
	t.mu.RLock()
	defer t.mu.RUnlock()
	ch := t.inboxes[replyTo]
	if ch == nil {
		// the requester gave up
		t.log.Debug("dropping response", slog.String("reply_to", replyTo))
		return
	}

	// only the first reply is delivered
	select {
	case ch <- b:
	default:
	}
}

func (t *MemoryTransport) newInboxID() string {
	n := atomic.AddUint64(&t.seq, 1)
	return fmt.Sprintf("inbox.%d", n)
}

func (t *MemoryTransport) newSubID() string {
	n := atomic.AddUint64(&t.seq, 1)
	return fmt.Sprintf("sub.%d", n)
}

func (t *MemoryTransport) registerInbox(replyTo string) (<-chan []byte, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil, ErrTransportClosed
	}
	ch := make(chan []byte, 1)
	t.inboxes[replyTo] = ch
	return ch, nil
}

func (t *MemoryTransport) unregisterInbox(replyTo string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	ch := t.inboxes[replyTo]
	if ch != nil {
		close(ch)
		delete(t.inboxes, replyTo)
	}
}

var _ Transport = (*MemoryTransport)(nil)
