// Package queue runs the asynchronous audit pipeline for message lifecycle events.
package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/msgbox/messaging-service/internal/api/metrics"
	"github.com/msgbox/messaging-service/internal/core/ports"
)

const (
	defaultWorkers = 4
	defaultBuffer  = 256
)

// Dispatcher routes message events to a fixed set of workers using consistent
// hashing on the message id, guaranteeing per-message event ordering.
type Dispatcher struct {
	workers []chan ports.MessageEventInput
	service ports.EventService
	log     zerolog.Logger
	wg      sync.WaitGroup
	dropped atomic.Int64
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers, each
// holding up to bufferSize pending events. Non-positive values use the defaults.
func NewDispatcher(numWorkers, bufferSize int, service ports.EventService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	if bufferSize <= 0 {
		bufferSize = defaultBuffer
	}
	d := &Dispatcher{
		workers: make([]chan ports.MessageEventInput, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.MessageEventInput, bufferSize)
	}
	return d
}

// Start launches all worker goroutines. When ctx is cancelled each worker
// finishes the events already queued and exits; Wait blocks until then.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker has returned.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Publish hands an event to the worker responsible for its message id.
// It never blocks: when that worker's channel is full the event is dropped.
func (d *Dispatcher) Publish(event ports.MessageEventInput) {
	idx := d.shardIndex(event.MessageID)
	select {
	case d.workers[idx] <- event:
		metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		d.dropped.Add(1)
		metrics.AuditEventsDroppedTotal.Inc()
		d.log.Warn().
			Str("message_id", event.MessageID.String()).
			Str("status", event.Status).
			Int("worker_id", idx).
			Msg("audit queue full, event dropped")
	}
}

// Dropped returns how many events were discarded since creation.
func (d *Dispatcher) Dropped() int64 {
	return d.dropped.Load()
}

// shardIndex maps a message id deterministically to a worker index.
func (d *Dispatcher) shardIndex(id uuid.UUID) int {
	h := fnv.New32a()
	_, _ = h.Write(id[:])
	return int(h.Sum32() % uint32(len(d.workers)))
}

// runWorker processes events until ctx is cancelled, then drains whatever is
// still buffered. Processing uses a context detached from ctx's cancellation
// so in-flight and drained events are still persisted.
func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.MessageEventInput) {
	defer d.wg.Done()
	procCtx := context.WithoutCancel(ctx)
	for {
		select {
		case <-ctx.Done():
			d.drain(procCtx, id, ch)
			return
		case event := <-ch:
			d.process(procCtx, id, event)
		}
	}
}

func (d *Dispatcher) drain(ctx context.Context, id int, ch <-chan ports.MessageEventInput) {
	for {
		select {
		case event := <-ch:
			d.process(ctx, id, event)
		default:
			return
		}
	}
}

func (d *Dispatcher) process(ctx context.Context, id int, event ports.MessageEventInput) {
	label := strconv.Itoa(id)
	metrics.AuditQueueDepth.WithLabelValues(label).Set(float64(len(d.workers[id])))
	start := time.Now()
	if err := d.service.Process(ctx, event); err != nil {
		metrics.AuditEventsErrorsTotal.Inc()
		metrics.AuditProcessingDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
		d.log.Error().Err(err).
			Str("message_id", event.MessageID.String()).
			Int("worker_id", id).
			Msg("audit event processing failed")
		return
	}
	metrics.AuditEventsProcessedTotal.WithLabelValues(event.Status).Inc()
	metrics.AuditProcessingDuration.WithLabelValues("ok").Observe(time.Since(start).Seconds())
}
