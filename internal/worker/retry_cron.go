package worker

// retry_cron.go
// Failed jobs wait in a Redis sorted set scored by their next attempt time.
// A background goroutine ticks periodically and moves due jobs back onto
// their source queue.

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	RetryPrefix       = "retry:"
	retryTickInterval = 30 * time.Second
	retryBatchSize    = 50
)

// ScheduleRetry parks the job in the retry set for its queue, due after delay.
func ScheduleRetry(ctx context.Context, rdb *redis.Client, queue string, job Job, delay time.Duration) {
	data, err := json.Marshal(job)
	if err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("retry: failed to marshal job")
		return
	}
	due := float64(time.Now().Add(delay).Unix())
	if err := rdb.ZAdd(ctx, RetryPrefix+queue, redis.Z{Score: due, Member: data}).Err(); err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("retry: failed to schedule")
		return
	}
	log.Warn().
		Str("queue", queue).
		Str("type", job.Type).
		Int("attempts", job.Attempts).
		Dur("delay", delay).
		Msg("retry: job scheduled for re-attempt")
}

// StartRetryCron launches a goroutine that re-enqueues due jobs for the given
// queues every 30s. It respects the context for graceful shutdown.
func StartRetryCron(ctx context.Context, rdb *redis.Client, queues ...string) {
	go func() {
		ticker := time.NewTicker(retryTickInterval)
		defer ticker.Stop()

		log.Info().Msg("retry_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("retry_cron: shutting down")
				return
			case <-ticker.C:
				for _, queue := range queues {
					requeueDue(ctx, rdb, queue)
				}
			}
		}
	}()
}

func requeueDue(ctx context.Context, rdb *redis.Client, queue string) {
	now := strconv.FormatInt(time.Now().Unix(), 10)
	due, err := rdb.ZRangeByScore(ctx, RetryPrefix+queue, &redis.ZRangeBy{
		Min: "-inf", Max: now, Count: retryBatchSize,
	}).Result()
	if err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("retry_cron: failed to query due jobs")
		return
	}
	if len(due) == 0 {
		return
	}

	for _, raw := range due {
		// Remove first: a job that cannot be removed was already claimed by
		// a concurrent instance and must not run twice.
		removed, err := rdb.ZRem(ctx, RetryPrefix+queue, raw).Result()
		if err != nil || removed == 0 {
			continue
		}
		if err := rdb.LPush(ctx, queue, raw).Err(); err != nil {
			log.Error().Err(err).Str("queue", queue).Msg("retry_cron: failed to requeue job")
		}
	}
	log.Info().Int("count", len(due)).Str("queue", queue).Msg("retry_cron: requeued due jobs")
}
