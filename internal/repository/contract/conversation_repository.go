package contract

import (
	"context"
	"time"

	"github.com/changzhiho/mini-chatgpt/internal/entity"
	"github.com/changzhiho/mini-chatgpt/internal/repository/specification"
)

type ConversationRepository interface {
	Create(ctx context.Context, conversation *entity.Conversation) error
	Update(ctx context.Context, conversation *entity.Conversation) error
	// Touch bumps the last-activity timestamp without rewriting other
	// columns.
	Touch(ctx context.Context, id int64, now time.Time) error
	Delete(ctx context.Context, id int64) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Conversation, error)
	FindOneWithMessages(ctx context.Context, specs ...specification.Specification) (*entity.Conversation, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Conversation, error)
	// FindAllWithMessages preloads each conversation's messages in
	// chronological order.
	FindAllWithMessages(ctx context.Context, specs ...specification.Specification) ([]*entity.Conversation, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
