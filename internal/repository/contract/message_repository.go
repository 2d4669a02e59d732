package contract

import (
	"context"

	"github.com/changzhiho/mini-chatgpt/internal/entity"
	"github.com/changzhiho/mini-chatgpt/internal/repository/specification"
)

// MessageRepository is append-only: messages are never updated, and are
// deleted only through the cascading conversation delete.
type MessageRepository interface {
	Create(ctx context.Context, message *entity.Message) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Message, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	DeleteByConversationId(ctx context.Context, conversationId int64) error
}
