package job

import (
	"context"
	"log"
	"time"

	"bankcore/internal/repository"
)

// maxTotalAttempts caps lifetime delivery attempts per message. Messages
// past the cap stay FAILED for manual inspection.
const maxTotalAttempts = 10

// OutboxRetryJob sweeps FAILED outbox rows on a slow cadence and requeues
// the ones still under the lifetime attempt cap, giving the sender
// another round after a broker outage.
type OutboxRetryJob struct {
	store     repository.Store
	stopCh    chan struct{}
	interval  time.Duration
	batchSize int
}

func NewOutboxRetryJob(store repository.Store) *OutboxRetryJob {
	return &OutboxRetryJob{
		store:     store,
		stopCh:    make(chan struct{}),
		interval:  5 * time.Minute,
		batchSize: 100,
	}
}

func (j *OutboxRetryJob) Start(ctx context.Context) {
	log.Println("[OutboxRetryJob] started")

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("[OutboxRetryJob] context cancelled, exiting")
			return
		case <-j.stopCh:
			log.Println("[OutboxRetryJob] stopped")
			return
		case <-ticker.C:
			j.requeueFailed(ctx)
		}
	}
}

func (j *OutboxRetryJob) Stop() {
	close(j.stopCh)
}

func (j *OutboxRetryJob) requeueFailed(ctx context.Context) {
	messages, err := j.store.Outbox().GetFailedMessages(ctx, j.batchSize)
	if err != nil {
		log.Printf("[OutboxRetryJob] fetch failed messages: %v", err)
		return
	}

	requeued := 0
	for _, msg := range messages {
		if msg.RetryCount >= maxTotalAttempts {
			continue
		}
		if err := j.store.Outbox().Requeue(ctx, msg.ID); err != nil {
			log.Printf("[OutboxRetryJob] requeue message %d: %v", msg.ID, err)
			continue
		}
		requeued++
	}
	if requeued > 0 {
		log.Printf("[OutboxRetryJob] requeued %d failed messages", requeued)
	}
}
