package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueReportEmail = "jobs:report_email"

	JobReportEmail = "report_email"
)

// MaxJobAttempts is how many times a job handler runs before the job is
// moved to the dead letter queue.
const MaxJobAttempts = 3

// Job is the generic envelope for all async tasks.
type Job struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
	// Replays counts how often the job came back from the DLQ.
	Replays int `json:"replays,omitempty"`
}

// Handler processes the payload of one job type.
type Handler interface {
	Process(ctx context.Context, payload json.RawMessage) error
}

// ErrPermanent marks a failure that retrying cannot fix (bad payload).
var ErrPermanent = errors.New("permanent job failure")

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueReportEmail pushes a report email job to Redis.
func (d *Dispatcher) EnqueueReportEmail(ctx context.Context, payload ReportEmailPayload) error {
	return d.enqueue(ctx, QueueReportEmail, JobReportEmail, payload, 0)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}, replays int) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return pushJob(ctx, d.rdb, queue, Job{Type: jobType, Payload: data, Replays: replays})
}

func pushJob(ctx context.Context, rdb *redis.Client, queue string, job Job) error {
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return rdb.LPush(ctx, queue, encoded).Err()
}

// Pool consumes the job queues with a fixed number of goroutines.
type Pool struct {
	rdb      *redis.Client
	handlers map[string]Handler
	queues   []string
	backoff  time.Duration
	wg       sync.WaitGroup
}

// NewPool builds a pool routing each job type to its handler.
func NewPool(rdb *redis.Client, handlers map[string]Handler) *Pool {
	return &Pool{
		rdb:      rdb,
		handlers: handlers,
		queues:   []string{QueueReportEmail},
		backoff:  time.Second,
	}
}

// Start launches numWorkers goroutines consuming the queues.
// Each goroutine blocks on BRPOP, zero CPU when idle.
func (p *Pool) Start(ctx context.Context, numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		p.wg.Add(1)
		go func(id int) {
			defer p.wg.Done()
			p.run(ctx, id)
		}(i)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

// Wait blocks until every worker has returned after ctx is cancelled.
func (p *Pool) Wait() { p.wg.Wait() }

func (p *Pool) run(ctx context.Context, id int) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop, waits up to 5s then loops to check ctx
			result, err := p.rdb.BRPop(ctx, 5*time.Second, p.queues...).Result()
			if err != nil {
				continue // timeout or context cancelled
			}
			if len(result) < 2 {
				continue
			}
			p.processJob(ctx, result[0], result[1])
		}
	}
}

func (p *Pool) processJob(ctx context.Context, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		SendToDLQ(ctx, p.rdb, queue, DLQEntry{JobType: "unknown", Payload: json.RawMessage(`null`), Reason: err.Error()})
		return
	}

	attempts, err := p.handle(ctx, job)
	if err == nil {
		return
	}
	SendToDLQ(ctx, p.rdb, queue, DLQEntry{
		JobType:   job.Type,
		Payload:   job.Payload,
		Reason:    err.Error(),
		Attempts:  attempts,
		Replays:   job.Replays,
		Retryable: !errors.Is(err, ErrPermanent),
	})
}

// handle runs the job's handler with retries and reports how many attempts
// were made.
func (p *Pool) handle(ctx context.Context, job Job) (int, error) {
	h, ok := p.handlers[job.Type]
	if !ok {
		return 0, fmt.Errorf("%w: no handler for job type %q", ErrPermanent, job.Type)
	}

	log.Info().Str("type", job.Type).Int("replays", job.Replays).Msg("processing job")
	attempts := 0
	err := withRetry(ctx, MaxJobAttempts, p.backoff, func(attempt int) error {
		attempts = attempt + 1
		err := h.Process(ctx, job.Payload)
		if errors.Is(err, ErrPermanent) {
			return stopRetry{err}
		}
		return err
	})
	var stop stopRetry
	if errors.As(err, &stop) {
		err = stop.err
	}
	return attempts, err
}

type stopRetry struct{ err error }

func (s stopRetry) Error() string { return s.err.Error() }
func (s stopRetry) Unwrap() error { return s.err }

// withRetry calls fn up to maxAttempts times with exponential backoff.
// Backoff schedule: attempt 1 = immediate, 2 = base, 3 = 2×base.
// A stopRetry error ends the loop at once.
func withRetry(ctx context.Context, maxAttempts int, base time.Duration, fn func(attempt int) error) error {
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		if i > 0 {
			wait := time.Duration(1<<uint(i-1)) * base
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
		err := fn(i)
		if err == nil {
			return nil
		}
		lastErr = err
		var stop stopRetry
		if errors.As(err, &stop) {
			return err
		}
	}
	return lastErr
}
