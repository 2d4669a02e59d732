package dto

import (
	"time"

	"github.com/google/uuid"
)

type AskRequest struct {
	Message        string `json:"message" validate:"required"`
	Model          string `json:"model" validate:"required"`
	ConversationId *int64 `json:"conversation_id"`
}

// TitlePayload is the JSON object framed between the title markers on
// the stream.
type TitlePayload struct {
	Title          string `json:"title"`
	ConversationId int64  `json:"conversation_id"`
}

// PublishTurnCompletedMessage is the event emitted after each finished
// chat turn.
type PublishTurnCompletedMessage struct {
	UserId         uuid.UUID `json:"user_id"`
	ConversationId int64     `json:"conversation_id"`
	Model          string    `json:"model"`
	CompletedAt    time.Time `json:"completed_at"`
}
