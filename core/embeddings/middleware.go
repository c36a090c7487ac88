package embeddings

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"
)

type (
	Handler interface {
		Handle(ctx context.Context, req Request) (Response, error)
	}
	HandleFunc           func(ctx context.Context, req Request) (Response, error)
	HandlerMiddleware    func(next Handler) Handler
	MiddlewareHandleFunc func(ctx context.Context, req Request, next Handler) (Response, error)
)

func applyMiddlewares(h Handler, middlewares []HandlerMiddleware) Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

func (f HandleFunc) Handle(ctx context.Context, req Request) (Response, error) { return f(ctx, req) }

type middleware struct {
	next Handler
	mw   MiddlewareHandleFunc
}

func (m *middleware) Handle(ctx context.Context, req Request) (Response, error) {
	return m.mw(ctx, req, m.next)
}

func MiddlewareHandle(mw MiddlewareHandleFunc) HandlerMiddleware {
	return func(next Handler) Handler {
		return &middleware{next: next, mw: mw}
	}
}

// === log ===

func NewLogMiddleware(log *slog.Logger) HandlerMiddleware {
	return MiddlewareHandle(func(ctx context.Context, req Request, next Handler) (Response, error) {
		handleAt := time.Now()
		attrs := []any{
			slog.String("kind", string(req.Kind())),
			slog.Any("execution_context", req.ExecutionContext),
		}
		if req.RetryProcessingState != nil {
			attrs = append(attrs, slog.Group("retry",
				slog.Int("count", int(req.RetryProcessingState.RetryCount)),
				slog.String("reason", req.RetryProcessingState.FailureReason),
			))
		}
		log := log.With(attrs...)

		resp, err := next.Handle(ctx, req)
		if err != nil {
			log.Error("failed", slog.Any("error", err), slog.Duration("duration", time.Since(handleAt)))
		} else {
			log.Debug("handled", slog.Duration("duration", time.Since(handleAt)))
		}
		return resp, err
	})
}

// === metrics ===

func NewMetricsMiddleware(embedding string, m Metrics) HandlerMiddleware {
	return MiddlewareHandle(func(ctx context.Context, req Request, next Handler) (Response, error) {
		kind := req.Kind()
		timer := m.RequestDuration(embedding, kind)
		resp, err := next.Handle(ctx, req)
		timer.ObserveDuration()

		m.RequestCompleted(embedding, kind, err == nil)
		if err == nil {
			if n := resp.producedEvents(); n > 0 {
				m.EventsProduced(embedding, kind, n)
			}
		}
		return resp, err
	})
}

// === recover ===

// NewRecoverMiddleware turns a panic in next into an error.
func NewRecoverMiddleware(log *slog.Logger) HandlerMiddleware {
	return MiddlewareHandle(func(ctx context.Context, req Request, next Handler) (resp Response, err error) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("panic while handling request", slog.Any("recovered", r), slog.String("stack", string(debug.Stack())))
				err = fmt.Errorf("panic: %v", r)
			}
		}()
		return next.Handle(ctx, req)
	})
}
