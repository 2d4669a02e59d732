package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/changzhiho/mini-chatgpt/internal/dto"
	"github.com/changzhiho/mini-chatgpt/internal/pkg/logger"
	"github.com/changzhiho/mini-chatgpt/internal/repository/specification"
	"github.com/changzhiho/mini-chatgpt/internal/repository/unitofwork"
)

type IConsumerService interface {
	// Listen blocks consuming turn-completed events until ctx is done.
	Listen(ctx context.Context) error
}

// consumerService keeps per-user daily usage counters current. The
// counter resets on the first event of a new calendar day.
type consumerService struct {
	subscriber message.Subscriber
	topic      string
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
}

func NewConsumerService(subscriber message.Subscriber, topic string, uowFactory unitofwork.RepositoryFactory, log logger.ILogger) IConsumerService {
	return &consumerService{
		subscriber: subscriber,
		topic:      topic,
		uowFactory: uowFactory,
		logger:     log,
	}
}

func (s *consumerService) Listen(ctx context.Context) error {
	messages, err := s.subscriber.Subscribe(ctx, s.topic)
	if err != nil {
		return err
	}

	s.logger.Info("consumer", "listening for turn completed events", map[string]interface{}{
		"topic": s.topic,
	})

	for msg := range messages {
		if err := s.handle(ctx, msg); err != nil {
			s.logger.Error("consumer", "failed to process turn completed event", map[string]interface{}{
				"message_id": msg.UUID,
				"error":      err.Error(),
			})
			msg.Nack()
			continue
		}
		msg.Ack()
	}

	return nil
}

func (s *consumerService) handle(ctx context.Context, msg *message.Message) error {
	var payload dto.PublishTurnCompletedMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: payload.UserId})
	if err != nil {
		_ = uow.Rollback()
		return err
	}
	if user == nil {
		// User removed since the event was published, nothing to count.
		return uow.Rollback()
	}

	if !sameDay(user.AiDailyUsageLastReset, payload.CompletedAt) {
		user.AiDailyUsage = 0
		user.AiDailyUsageLastReset = payload.CompletedAt
	}
	user.AiDailyUsage++

	if err := uow.UserRepository().Update(ctx, user); err != nil {
		_ = uow.Rollback()
		return err
	}

	return uow.Commit()
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
