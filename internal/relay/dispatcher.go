package relay

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/env0/saga/internal/models"
)

// DispatcherOption mutates a Dispatcher during construction.
type DispatcherOption func(*Dispatcher)

// WithDispatcherLogger sets a custom logger for the dispatcher.
func WithDispatcherLogger(logger *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

// WithWorkers sets the number of worker goroutines.
func WithWorkers(n int) DispatcherOption {
	return func(d *Dispatcher) {
		if n > 0 {
			d.workers = n
		}
	}
}

// WithQueueSize sets the job channel buffer size.
func WithQueueSize(n int) DispatcherOption {
	return func(d *Dispatcher) {
		if n > 0 {
			d.queueSize = n
		}
	}
}

// Dispatcher executes dispatch jobs off the request path. It replaces the
// implicit "goroutine kept alive by process lifetime" pattern with a
// supervised worker pool whose drain is explicit: jobs lost to a shutdown
// deadline are counted and logged rather than silently discarded.
type Dispatcher struct {
	logger    *slog.Logger
	execute   func(context.Context, *models.DispatchJob)
	jobs      chan *models.DispatchJob
	workers   int
	queueSize int
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewDispatcher creates a dispatcher running execute for every enqueued job.
func NewDispatcher(execute func(context.Context, *models.DispatchJob), opts ...DispatcherOption) *Dispatcher {
	_inst := &Dispatcher{
		execute:   execute,
		workers:   1,
		queueSize: 64,
	}
	for _, opt := range opts {
		opt(_inst)
	}
	if _inst.logger == nil {
		_inst.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	_inst.jobs = make(chan *models.DispatchJob, _inst.queueSize)
	for i := 0; i < _inst.workers; i++ {
		_inst.wg.Add(1)
		go _inst.run()
	}
	return _inst
}

func (d *Dispatcher) run() {
	defer d.wg.Done()
	for job := range d.jobs {
		d.execute(context.Background(), job)
	}
}

// Enqueue hands a job to the worker pool. The request path does not wait for
// its completion.
func (d *Dispatcher) Enqueue(job *models.DispatchJob) {
	d.logger.Debug("enqueueing dispatch job...", slog.String("eventType", job.EventType))
	d.jobs <- job
}

// Shutdown stops accepting jobs and waits for in-flight work to drain. When
// ctx expires first, the number of lost jobs is logged and returned as an
// error.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.closeOnce.Do(func() {
		close(d.jobs)
	})

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		lost := len(d.jobs)
		d.logger.Error("dispatch jobs lost to shutdown deadline", slog.Int("lost", lost))
		return fmt.Errorf("dispatcher drain incomplete: %d jobs lost", lost)
	}
}
