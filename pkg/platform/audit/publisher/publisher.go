// Package publisher delivers audit events to a primary store and optional
// extra sinks, either synchronously or through a buffered channel.
package publisher

import (
	"context"
	"sync"
	"time"

	audit "mergington/pkg/platform/audit"
)

// Publisher fans audit events out to its store and sinks. In async mode a
// full buffer drops events; audit is best-effort by contract.
type Publisher struct {
	store audit.Store
	sinks []audit.Sink

	inbox chan audit.Event
	wg    sync.WaitGroup

	closeOnce sync.Once
}

type Option func(p *Publisher)

// WithAsyncBuffer switches the publisher to async mode with the given
// channel capacity.
func WithAsyncBuffer(size int) Option {
	return func(p *Publisher) {
		if size > 0 {
			p.inbox = make(chan audit.Event, size)
		}
	}
}

// WithSink adds an extra delivery target, e.g. a Kafka producer.
func WithSink(sink audit.Sink) Option {
	return func(p *Publisher) {
		if sink != nil {
			p.sinks = append(p.sinks, sink)
		}
	}
}

// NewPublisher constructs a Publisher around the primary store.
func NewPublisher(store audit.Store, opts ...Option) *Publisher {
	p := &Publisher{store: store}
	for _, opt := range opts {
		opt(p)
	}
	if p.inbox != nil {
		p.wg.Add(1)
		go p.run()
	}
	return p
}

// Emit records an event. The timestamp is set when the caller left it zero.
// In async mode Emit never blocks; events are dropped when the buffer is full.
func (p *Publisher) Emit(ctx context.Context, event audit.Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if p.inbox == nil {
		return p.deliver(ctx, event)
	}
	select {
	case p.inbox <- event:
	default:
	}
	return nil
}

// List proxies the primary store for callers that hold only the publisher.
func (p *Publisher) List(ctx context.Context, activity string) ([]audit.Event, error) {
	return p.store.ListByActivity(ctx, activity)
}

// Close drains the async buffer and stops the worker. Safe to call twice.
func (p *Publisher) Close() {
	p.closeOnce.Do(func() {
		if p.inbox != nil {
			close(p.inbox)
			p.wg.Wait()
		}
	})
}

func (p *Publisher) run() {
	defer p.wg.Done()
	for event := range p.inbox {
		_ = p.deliver(context.Background(), event)
	}
}

func (p *Publisher) deliver(ctx context.Context, event audit.Event) error {
	err := p.store.Append(ctx, event)
	for _, sink := range p.sinks {
		if sinkErr := sink.Append(ctx, event); sinkErr != nil && err == nil {
			err = sinkErr
		}
	}
	return err
}
