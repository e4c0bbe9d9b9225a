package notification

import (
	"context"
	"log/slog"
	"time"

	"moodlog/pkg/requestcontext"
)

const (
	defaultQueueSize = 256
	drainTimeout     = 2 * time.Second
)

// Dispatcher queues events in memory and delivers them from a single worker
// goroutine. Publish never blocks: a full queue drops the event.
type Dispatcher struct {
	inbox   chan Event
	sink    Sink
	breaker *Breaker
	logger  *slog.Logger
	metrics *Metrics
	now     func() time.Time
}

type Option func(*Dispatcher)

func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

func WithMetrics(m *Metrics) Option {
	return func(d *Dispatcher) {
		d.metrics = m
	}
}

func WithQueueSize(n int) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.inbox = make(chan Event, n)
		}
	}
}

func WithBreaker(b *Breaker) Option {
	return func(d *Dispatcher) {
		d.breaker = b
	}
}

func NewDispatcher(sink Sink, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		inbox:   make(chan Event, defaultQueueSize),
		sink:    sink,
		breaker: NewBreaker(5, 30*time.Second),
		logger:  slog.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Publish enqueues e. It fills in the id, timestamp and request id when missing.
func (d *Dispatcher) Publish(ctx context.Context, e Event) {
	e = stamp(e, d.now())
	if e.RequestID == "" {
		e.RequestID = requestcontext.RequestID(ctx)
	}
	select {
	case d.inbox <- e:
		d.metrics.incPublished(e.Kind)
	default:
		d.metrics.incDropped("queue_full")
		d.logger.WarnContext(ctx, "notification dropped, queue full",
			"request_id", e.RequestID,
			"kind", e.Kind,
			"event_id", e.ID,
		)
	}
}

// Run delivers queued events until ctx is cancelled, then drains what is
// left with a short deadline.
func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			d.drain()
			return nil
		case e := <-d.inbox:
			d.deliver(ctx, e)
		}
	}
}

func (d *Dispatcher) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()
	for {
		select {
		case e := <-d.inbox:
			d.deliver(ctx, e)
		default:
			return
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, e Event) {
	if !d.breaker.Allow() {
		d.metrics.incDropped("circuit_open")
		return
	}
	if err := d.sink.Deliver(ctx, e); err != nil {
		d.metrics.incFailed(e.Kind)
		opened := d.breaker.RecordFailure()
		if opened {
			d.metrics.setBreakerOpen(true)
		}
		d.logger.ErrorContext(ctx, "notification delivery failed",
			"request_id", e.RequestID,
			"kind", e.Kind,
			"event_id", e.ID,
			"circuit_opened", opened,
			"error", err,
		)
		return
	}
	d.breaker.RecordSuccess()
	d.metrics.setBreakerOpen(false)
	d.metrics.incDelivered(e.Kind)
}
