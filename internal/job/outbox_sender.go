package job

import (
	"context"
	"log"
	"time"

	"bankcore/internal/infrastructure/mq"
	"bankcore/internal/model"
	"bankcore/internal/repository"
)

// OutboxSender drains PENDING outbox rows into Kafka. Publishing is
// decoupled from the ledger's unit of work: a transaction commits its
// event row atomically and the sender delivers it afterwards, retrying
// until the broker accepts it or the retry budget runs out.
type OutboxSender struct {
	store     repository.Store
	maxRetry  int
	stopCh    chan struct{}
	interval  time.Duration
	batchSize int
}

func NewOutboxSender(store repository.Store, maxRetry int) *OutboxSender {
	return &OutboxSender{
		store:     store,
		maxRetry:  maxRetry,
		stopCh:    make(chan struct{}),
		interval:  100 * time.Millisecond,
		batchSize: 100,
	}
}

func (s *OutboxSender) Start(ctx context.Context) {
	log.Println("[OutboxSender] started")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("[OutboxSender] context cancelled, exiting")
			return
		case <-s.stopCh:
			log.Println("[OutboxSender] stopped")
			return
		case <-ticker.C:
			s.processPendingMessages(ctx)
		}
	}
}

func (s *OutboxSender) Stop() {
	close(s.stopCh)
}

func (s *OutboxSender) processPendingMessages(ctx context.Context) {
	messages, err := s.store.Outbox().GetPendingMessages(ctx, s.batchSize)
	if err != nil {
		log.Printf("[OutboxSender] fetch pending messages: %v", err)
		return
	}

	for _, msg := range messages {
		s.sendMessage(ctx, msg)
	}
}

func (s *OutboxSender) sendMessage(ctx context.Context, msg *model.OutboxMessage) {
	err := mq.SendMessage(msg.Topic, msg.MessageKey, msg.Payload)
	if err == nil {
		if updateErr := s.store.Outbox().UpdateStatus(ctx, msg.ID, model.OutboxStatusSent); updateErr != nil {
			log.Printf("[OutboxSender] mark message %d sent: %v", msg.ID, updateErr)
		}
		return
	}

	log.Printf("[OutboxSender] publish message %d: %v", msg.ID, err)
	if msg.RetryCount+1 >= s.maxRetry {
		if markErr := s.store.Outbox().MarkAsFailed(ctx, msg.ID); markErr != nil {
			log.Printf("[OutboxSender] mark message %d failed: %v", msg.ID, markErr)
		}
		return
	}
	if incErr := s.store.Outbox().IncrementRetryCount(ctx, msg.ID); incErr != nil {
		log.Printf("[OutboxSender] bump retry count for message %d: %v", msg.ID, incErr)
	}
}
