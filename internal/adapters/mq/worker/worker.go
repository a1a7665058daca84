// Package worker drains the inbound event queue and hands each event to a
// Handler.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/seraaj/matchcore/internal/domain/model"
	"github.com/seraaj/matchcore/pkg/logger"
	"github.com/seraaj/matchcore/pkg/metrics"
)

// Handler applies one inbound event.
type Handler interface {
	Handle(ctx context.Context, e model.Event) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, e model.Event) error

// Handle calls f.
func (f HandlerFunc) Handle(ctx context.Context, e model.Event) error { return f(ctx, e) } //nolint:gocritic // hugeParam: Event is passed by value

// Queue defines how workers receive events.
type Queue interface {
	Dequeue() <-chan model.Event
}

// InMemoryWorker processes events from a queue until it is closed.
type InMemoryWorker struct {
	queue   Queue
	handler Handler
	name    string
	logger  logger.Logger
	done    chan struct{}
}

// NewInMemoryWorker creates a worker.
func NewInMemoryWorker(queue Queue, handler Handler, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:   queue,
		handler: handler,
		name:    "worker",
		logger:  logger.Nop(),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.Named(w.name)
	return w
}

// Run processes events until the queue channel closes or ctx is cancelled.
// Events still buffered when the queue closes are processed first.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	events := w.queue.Dequeue()
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			if err := w.process(ctx, e); err != nil {
				w.logger.Error(ctx, "error processing event", logger.Error(err))
			}
		}
	}
}

// Done is closed when Run returns.
func (w *InMemoryWorker) Done() <-chan struct{} { return w.done }

func (w *InMemoryWorker) process(ctx context.Context, e model.Event) error { //nolint:gocritic // hugeParam: Event is passed by value
	start := time.Now()
	defer func() {
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	kind := string(e.Kind)
	if err := w.handler.Handle(ctx, e); err != nil {
		metrics.RecordEventFailed(kind)
		metrics.RecordErrorByComponent("worker", "handle_error")
		return fmt.Errorf("handle event %s: %w", e.ID, err)
	}
	metrics.RecordEventProcessed(kind)
	return nil
}

// Pool runs a fixed number of workers over one queue.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue
	logger  logger.Logger
	start   sync.Once
}

// NewPool creates workerCount workers. A count below 1 uses runtime.NumCPU().
func NewPool(workerCount int, queue Queue, handler Handler, opts ...PoolOption) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}
	p := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		queue:   queue,
		logger:  logger.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	for i := range p.workers {
		p.workers[i] = NewInMemoryWorker(queue, handler,
			WithLogger(p.logger),
			WithName("worker-"+strconv.Itoa(i)),
		)
	}
	p.logger = p.logger.Named("worker-pool")
	return p
}

// Size returns the number of workers.
func (p *Pool) Size() int { return len(p.workers) }

// Start launches every worker. Later calls are no-ops.
func (p *Pool) Start(ctx context.Context) {
	p.start.Do(func() {
		for _, w := range p.workers {
			go w.Run(ctx)
		}
		metrics.UpdateWorkerCount(len(p.workers))
		p.logger.Info(ctx, "worker pool started", logger.Int("workers", len(p.workers)))
	})
}

// Shutdown closes the queue when it supports closing, then waits for the
// workers to drain it or for ctx to expire.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-ctx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
			return fmt.Errorf("shutdown timed out: %w", ctx.Err())
		}
	}
	metrics.UpdateWorkerCount(0)
	return nil
}
