package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Conversation struct {
	Id         int64     `gorm:"primaryKey;autoIncrement"`
	UserId     uuid.UUID `gorm:"type:uuid;not null;index"` // User ownership for data isolation
	Title      string    `gorm:"type:text;not null"`
	Model      string    `gorm:"type:varchar(255);not null"`
	ShareToken uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
	DeletedAt  gorm.DeletedAt `gorm:"index"`

	Messages []Message `gorm:"foreignKey:ConversationId"`
}

func (Conversation) TableName() string {
	return "conversations"
}
