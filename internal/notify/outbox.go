package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/RohithDharshan/campusflow/internal/ledger"
)

// Poster delivers a single rendered notification.
type Poster interface {
	Post(rec ledger.OutboxRecord) error
}

// ProcessOutboxDue delivers due pending outbox records and updates their
// delivery state. Failed posts are retried with exponential backoff.
func ProcessOutboxDue(ctx context.Context, store ledger.Store, poster Poster, now time.Time, limit int) (int, error) {
	if store == nil {
		return 0, fmt.Errorf("missing store")
	}
	if poster == nil {
		return 0, nil
	}
	if limit <= 0 {
		limit = 50
	}

	due, err := store.ListOutboxDue(now.UTC().Format(time.RFC3339), limit)
	if err != nil {
		return 0, err
	}

	processed := 0
	for _, rec := range due {
		if err := ctx.Err(); err != nil {
			return processed, err
		}

		if rec.Status != ledger.OutboxStatusPending {
			continue
		}

		if err := poster.Post(rec); err != nil {
			next := nextAttempt(rec.AttemptCount)
			rec.AttemptCount++
			rec.NextAttemptAt = now.UTC().Add(next).Format(time.RFC3339)
			msg := err.Error()
			rec.LastError = &msg
			rec.UpdatedAt = now.UTC().Format(time.RFC3339)
			if err := store.PutOutbox(rec); err != nil {
				return processed, err
			}
			processed++
			continue
		}

		rec.Status = ledger.OutboxStatusSent
		sentAt := now.UTC().Format(time.RFC3339)
		rec.SentAt = &sentAt
		rec.UpdatedAt = sentAt
		if err := store.PutOutbox(rec); err != nil {
			return processed, err
		}
		processed++
	}

	return processed, nil
}

func nextAttempt(attemptCount int) time.Duration {
	// 5s, 10s, 20s, 40s, 80s, 160s, ... capped at 5m. The shift count is
	// clamped so long-failing records cannot overflow the duration and
	// bypass the cap.
	base := 5 * time.Second
	max := 5 * time.Minute
	if attemptCount <= 0 {
		return base
	}
	if attemptCount > 6 {
		return max
	}
	d := base << attemptCount
	if d > max {
		return max
	}
	return d
}

// RunOutboxWorker polls and processes due outbox entries until ctx is cancelled.
func RunOutboxWorker(ctx context.Context, store ledger.Store, poster Poster, pollInterval time.Duration) {
	if pollInterval <= 0 {
		pollInterval = 2 * time.Second
	}

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			_, _ = ProcessOutboxDue(ctx, store, poster, now, 25)
		}
	}
}
