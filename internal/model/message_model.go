package model

import (
	"time"
)

// Message rows are append-only: no UpdatedAt, no soft delete. They are
// removed only by the cascading conversation delete.
type Message struct {
	Id             int64     `gorm:"primaryKey;autoIncrement"`
	ConversationId int64     `gorm:"not null;index"`
	Role           string    `gorm:"type:varchar(50);not null"`
	Content        string    `gorm:"type:text;not null"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
}

func (Message) TableName() string {
	return "messages"
}
