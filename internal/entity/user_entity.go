package entity

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	Id           uuid.UUID
	Email        string
	PasswordHash *string
	FullName     string

	// Chat preferences, read as a snapshot at request time.
	PreferredModel    *string
	InstructionsAbout *string
	InstructionsHow   *string
	CustomCommands    *string

	AiDailyUsage          int
	AiDailyUsageLastReset time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
