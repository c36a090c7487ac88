package reversecall

import "context"

type Subscription interface {
	Unsubscribe() error
}

// HandlerFunc answers a request delivered to a subscribed subject.
type HandlerFunc = func(ctx context.Context, data []byte) ([]byte, error)

type Requester interface {
	// Request sends data to subject and waits for the reply.
	Request(ctx context.Context, subject string, data []byte) ([]byte, error)
}

// Transport carries requests between the client and the runtime.
type Transport interface {
	Requester

	// Subscribe delivers requests sent to subject to h until ctx is done or
	// the subscription is removed.
	Subscribe(ctx context.Context, subject string, h HandlerFunc) (Subscription, error)

	Close() error
}
