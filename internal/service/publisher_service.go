package service

import (
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/changzhiho/mini-chatgpt/internal/dto"
	"github.com/changzhiho/mini-chatgpt/internal/pkg/logger"
)

type IPublisherService interface {
	PublishTurnCompleted(payload dto.PublishTurnCompletedMessage) error
}

type publisherService struct {
	publisher message.Publisher
	topic     string
	logger    logger.ILogger
}

func NewPublisherService(publisher message.Publisher, topic string, log logger.ILogger) IPublisherService {
	return &publisherService{
		publisher: publisher,
		topic:     topic,
		logger:    log,
	}
}

func (s *publisherService) PublishTurnCompleted(payload dto.PublishTurnCompletedMessage) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	msg := message.NewMessage(watermill.NewUUID(), body)
	if err := s.publisher.Publish(s.topic, msg); err != nil {
		s.logger.Error("publisher", "failed to publish turn completed event", map[string]interface{}{
			"topic": s.topic,
			"error": err.Error(),
		})
		return err
	}

	return nil
}
