package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ByConversationID filters conversations by their numeric primary key.
type ByConversationID struct {
	ID int64
}

func (s ByConversationID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("id = ?", s.ID)
}

// OwnedBy scopes a query to one user's rows.
type OwnedBy struct {
	UserID uuid.UUID
}

func (s OwnedBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.UserID)
}

// ByShareToken resolves a conversation from its public opaque token.
type ByShareToken struct {
	Token uuid.UUID
}

func (s ByShareToken) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("share_token = ?", s.Token)
}

// ByConversation filters messages belonging to one conversation.
type ByConversation struct {
	ConversationID int64
}

func (s ByConversation) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("conversation_id = ?", s.ConversationID)
}
