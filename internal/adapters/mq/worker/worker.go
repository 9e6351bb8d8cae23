// Package worker runs slate jobs off the queue.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/okian/syncsix/internal/adapters/mq/queue"
	"github.com/okian/syncsix/internal/domain/model"
	"github.com/okian/syncsix/pkg/logger"
	"github.com/okian/syncsix/pkg/metrics"
)

const poolShutdownTimeout = 30 * time.Second

// Processor scores one game.
type Processor interface {
	Process(ctx context.Context, j queue.Job) ([]model.ScoredPlayer, error)
}

// ProcessorFunc adapts a function to Processor.
type ProcessorFunc func(ctx context.Context, j queue.Job) ([]model.ScoredPlayer, error)

// Process calls f.
func (f ProcessorFunc) Process(ctx context.Context, j queue.Job) ([]model.ScoredPlayer, error) {
	return f(ctx, j)
}

// Source is where workers receive jobs from.
type Source interface {
	Dequeue() <-chan queue.Job
}

// InMemoryWorker processes jobs until its source closes or it is shut down.
type InMemoryWorker struct {
	source    Source
	processor Processor
	name      string

	shutdown     chan struct{}
	shutdownOnce sync.Once
	done         chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(source Source, processor Processor, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		source:    source,
		processor: processor,
		name:      "worker",
		shutdown:  make(chan struct{}),
		done:      make(chan struct{}),
		logger:    logger.Nop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.Named(w.name)
	return w
}

// Run processes jobs until ctx is cancelled, Shutdown is called or the
// source channel is closed and drained.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.source.Dequeue()
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case j, ok := <-jobs:
			if !ok {
				return
			}
			w.handle(ctx, j)
		}
	}
}

// Shutdown stops the worker after its current job.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	w.shutdownOnce.Do(func() { close(w.shutdown) })
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// Done is closed when Run returns.
func (w *InMemoryWorker) Done() <-chan struct{} { return w.done }

func (w *InMemoryWorker) handle(ctx context.Context, j queue.Job) { //nolint:gocritic // hugeParam: Job comes by value off the channel
	jctx, cancel := jobContext(ctx, j)
	defer cancel()

	var (
		players []model.ScoredPlayer
		err     = jctx.Err()
	)
	if err == nil {
		start := time.Now()
		players, err = w.process(jctx, j)
		metrics.RecordWorkerJob(float64(time.Since(start).Milliseconds()))
	}

	switch {
	case err == nil:
	case jctx.Err() != nil:
		w.logger.Debug(ctx, "slate job abandoned",
			logger.String("job", j.ID),
			logger.Error(err),
		)
	default:
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "process")
		w.logger.Error(ctx, "slate job failed",
			logger.String("job", j.ID),
			logger.Error(err),
		)
	}
	if j.Reply == nil {
		return
	}
	res := queue.Result{Game: j.Game, Players: players, Err: err}
	select {
	case j.Reply <- res:
		return
	default:
	}
	select {
	case j.Reply <- res:
	case <-jctx.Done():
	}
}

// jobContext is done when either the worker's ctx or the job's own Ctx is.
// Values come from the job's Ctx so request-scoped data reaches the processor.
func jobContext(ctx context.Context, j queue.Job) (context.Context, context.CancelFunc) { //nolint:gocritic // hugeParam
	if j.Ctx == nil {
		return context.WithCancel(ctx)
	}
	jctx, cancel := context.WithCancel(j.Ctx)
	stop := context.AfterFunc(ctx, cancel)
	return jctx, func() {
		stop()
		cancel()
	}
}

// process runs the processor and turns a panic into an error so a bad job
// cannot take the pool down.
func (w *InMemoryWorker) process(ctx context.Context, j queue.Job) (players []model.ScoredPlayer, err error) { //nolint:gocritic // hugeParam
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job %s panicked: %v", j.ID, r)
		}
	}()
	return w.processor.Process(ctx, j)
}

// Pool manages a fixed set of workers sharing one source.
type Pool struct {
	workers []*InMemoryWorker
	source  Source
	logger  logger.Logger
}

// NewPool creates count workers. count < 1 means one per CPU.
func NewPool(count int, source Source, processor Processor, log logger.Logger) *Pool {
	if count < 1 {
		count = runtime.NumCPU()
	}
	if log == nil {
		log = logger.Nop()
	}
	p := &Pool{
		workers: make([]*InMemoryWorker, count),
		source:  source,
		logger:  log.Named("worker-pool"),
	}
	for i := range p.workers {
		p.workers[i] = NewInMemoryWorker(source, processor,
			WithName("worker-"+strconv.Itoa(i)),
			WithLogger(log),
		)
	}
	metrics.UpdateWorkerCount(count)
	return p
}

// Size returns the number of workers.
func (p *Pool) Size() int { return len(p.workers) }

// Start launches every worker.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Shutdown closes the source if it can be closed, then waits for the
// workers to finish.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.source.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, w := range p.workers {
		select {
		case <-w.Done():
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
			return fmt.Errorf("worker %d: %w", i, shutdownCtx.Err())
		}
	}
	metrics.UpdateWorkerCount(0)
	return nil
}
