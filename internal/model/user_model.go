package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	Id                    uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Email                 string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash          *string   `gorm:"type:varchar(255)"`
	FullName              string    `gorm:"type:varchar(255);not null"`
	PreferredModel        *string   `gorm:"type:varchar(255)"`
	InstructionsAbout     *string   `gorm:"type:text"`
	InstructionsHow       *string   `gorm:"type:text"`
	CustomCommands        *string   `gorm:"type:text"`
	AiDailyUsage          int       `gorm:"default:0"`
	AiDailyUsageLastReset time.Time
	CreatedAt             time.Time      `gorm:"autoCreateTime"`
	UpdatedAt             time.Time      `gorm:"autoUpdateTime"`
	DeletedAt             gorm.DeletedAt `gorm:"index"`
}

func (User) TableName() string {
	return "users"
}
