package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/viktorhino/gestor-cupos-sub001/internal/metrics"
)

const (
	QueueEmail = "jobs:email"

	// MaxJobRetries before a job lands in the DLQ.
	MaxJobRetries = 3
)

// Job is the generic envelope for all async tasks.
type Job struct {
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Attempts int             `json:"attempts"`
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueEmail pushes an email notification job to Redis.
func (d *Dispatcher) EnqueueEmail(ctx context.Context, payload interface{}) error {
	if d.rdb == nil {
		return nil
	}
	return d.enqueue(ctx, QueueEmail, "email", payload)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	job := Job{Type: jobType, Payload: data}
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}

// Handler processes one dequeued job. A non-nil error triggers the retry
// path; after MaxJobRetries the job is parked in the DLQ.
type Handler interface {
	Process(ctx context.Context, raw json.RawMessage) error
}

// Pool consumes QueueEmail with a fixed number of goroutines, each blocking
// on BRPOP so an idle pool costs no CPU.
type Pool struct {
	rdb      *redis.Client
	handlers map[string]Handler
	metrics  *metrics.Metrics
}

func NewPool(rdb *redis.Client, handlers map[string]Handler, m *metrics.Metrics) *Pool {
	return &Pool{rdb: rdb, handlers: handlers, metrics: m}
}

// Start launches numWorkers consumer goroutines. They stop when ctx is done.
func (p *Pool) Start(ctx context.Context, numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		go p.runWorker(ctx, i)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func (p *Pool) runWorker(ctx context.Context, id int) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop — waits up to 5s then loops to check ctx
			result, err := p.rdb.BRPop(ctx, 5*time.Second, QueueEmail).Result()
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
		return
	}

	handler, ok := p.handlers[job.Type]
	if !ok {
		SendToDLQ(ctx, p.rdb, queue, job.Type, job.Payload, "no handler registered", job.Attempts)
		return
	}

	if err := handler.Process(ctx, job.Payload); err != nil {
		job.Attempts++
		if job.Attempts >= MaxJobRetries {
			p.metrics.EmailJobs.WithLabelValues("dlq").Inc()
			SendToDLQ(ctx, p.rdb, queue, job.Type, job.Payload, err.Error(), job.Attempts)
			return
		}
		p.metrics.EmailJobs.WithLabelValues("retry").Inc()
		ScheduleRetry(ctx, p.rdb, queue, job, retryBackoff(job.Attempts))
		return
	}
	p.metrics.EmailJobs.WithLabelValues("ok").Inc()
}

// retryBackoff grows exponentially: 1m, 2m, 4m...
func retryBackoff(attempts int) time.Duration {
	return time.Minute << (attempts - 1)
}
