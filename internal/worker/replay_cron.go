package worker

// replay_cron.go
// Background goroutine that periodically moves retryable DLQ entries back
// onto their queue. It skips ticks while the SMTP circuit breaker is open so
// a dead relay is not hammered.

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Joe-Bills/moto-spares-manager/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	replayTickInterval = 5 * time.Minute
	replayBatchSize    = 10
	dlqScanPage        = 100
	// MaxReplays bounds how often one job may come back from the DLQ.
	MaxReplays = 3
)

// ReplayCronConfig holds all dependencies for the replay goroutine.
type ReplayCronConfig struct {
	RDB      *redis.Client
	CB       *infra.CircuitBreaker
	Queue    string
	Interval time.Duration
}

// StartReplayCron launches the replay goroutine. It respects the context for
// graceful shutdown.
func StartReplayCron(ctx context.Context, cfg ReplayCronConfig) {
	if cfg.Interval <= 0 {
		cfg.Interval = replayTickInterval
	}
	go func() {
		ticker := time.NewTicker(cfg.Interval)
		defer ticker.Stop()

		log.Info().Str("queue", cfg.Queue).Msg("replay_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("replay_cron: shutting down")
				return
			case <-ticker.C:
				replayDLQ(ctx, cfg)
			}
		}
	}()
}

func replayDLQ(ctx context.Context, cfg ReplayCronConfig) int {
	if cfg.CB != nil && cfg.CB.State() == infra.CBOpen {
		log.Debug().Msg("replay_cron: circuit breaker is open, skipping tick")
		return 0
	}

	key := DLQPrefix + cfg.Queue
	candidates, err := scanReplayable(ctx, cfg.RDB, key, replayBatchSize)
	if err != nil {
		log.Error().Err(err).Msg("replay_cron: failed to read DLQ")
		return 0
	}

	replayed := 0
	for _, c := range candidates {
		removed, err := cfg.RDB.LRem(ctx, key, 1, c.raw).Result()
		if err != nil || removed == 0 {
			continue // another instance took it
		}
		job := Job{Type: c.entry.JobType, Payload: c.entry.Payload, Replays: c.entry.Replays + 1}
		if err := pushJob(ctx, cfg.RDB, cfg.Queue, job); err != nil {
			log.Error().Err(err).Msg("replay_cron: failed to requeue job")
			_ = cfg.RDB.LPush(ctx, key, c.raw).Err()
			continue
		}
		replayed++
	}

	if replayed > 0 {
		log.Info().Int("count", replayed).Str("queue", cfg.Queue).Msg("replay_cron: jobs requeued")
	}
	return replayed
}

type replayCandidate struct {
	raw   string
	entry DLQEntry
}

// scanReplayable walks the whole DLQ page by page, oldest entries first, and
// returns up to limit entries that may still be replayed. Entries that are
// not replayable stay in the list for inspection and do not block the scan.
func scanReplayable(ctx context.Context, rdb *redis.Client, key string, limit int) ([]replayCandidate, error) {
	var out []replayCandidate
	for stop := int64(-1); len(out) < limit; stop -= dlqScanPage {
		page, err := rdb.LRange(ctx, key, stop-dlqScanPage+1, stop).Result()
		if err != nil {
			return nil, err
		}
		out = append(out, pickReplayable(page, limit-len(out))...)
		if len(page) < dlqScanPage {
			break
		}
	}
	return out, nil
}

// pickReplayable selects up to limit replayable entries from one page of
// LRANGE output. LPUSH keeps the newest entry at the head, so the page is
// read from its tail.
func pickReplayable(page []string, limit int) []replayCandidate {
	var out []replayCandidate
	for i := len(page) - 1; i >= 0 && len(out) < limit; i-- {
		var entry DLQEntry
		if err := json.Unmarshal([]byte(page[i]), &entry); err != nil {
			continue
		}
		if shouldReplay(entry) {
			out = append(out, replayCandidate{raw: page[i], entry: entry})
		}
	}
	return out
}

func shouldReplay(e DLQEntry) bool {
	return e.Retryable && e.Replays < MaxReplays
}
