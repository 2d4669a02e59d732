package entity

import (
	"time"

	"github.com/google/uuid"
)

// Conversation owns its messages: deleting a conversation cascades to
// every message it holds. ShareToken is assigned once at creation and
// never changes.
type Conversation struct {
	Id         int64
	UserId     uuid.UUID
	Title      string
	Model      string
	ShareToken uuid.UUID
	CreatedAt  time.Time
	UpdatedAt  *time.Time
	DeletedAt  *time.Time
	IsDeleted  bool

	// Populated only by the WithMessages repository readers, in
	// chronological order.
	Messages []Message
}

// Message is immutable once created and strictly ordered by creation
// time within its conversation. The user role always holds the original
// unmodified input, never the command-expanded text.
type Message struct {
	Id             int64
	ConversationId int64
	Role           string
	Content        string
	CreatedAt      time.Time
}
