package mapper

import (
	"github.com/changzhiho/mini-chatgpt/internal/entity"
	"github.com/changzhiho/mini-chatgpt/internal/model"
)

type UserMapper struct{}

func NewUserMapper() *UserMapper {
	return &UserMapper{}
}

func (m *UserMapper) ToEntity(u *model.User) *entity.User {
	if u == nil {
		return nil
	}

	return &entity.User{
		Id:                    u.Id,
		Email:                 u.Email,
		PasswordHash:          u.PasswordHash,
		FullName:              u.FullName,
		PreferredModel:        u.PreferredModel,
		InstructionsAbout:     u.InstructionsAbout,
		InstructionsHow:       u.InstructionsHow,
		CustomCommands:        u.CustomCommands,
		AiDailyUsage:          u.AiDailyUsage,
		AiDailyUsageLastReset: u.AiDailyUsageLastReset,
		CreatedAt:             u.CreatedAt,
		UpdatedAt:             u.UpdatedAt,
	}
}

func (m *UserMapper) ToModel(u *entity.User) *model.User {
	if u == nil {
		return nil
	}

	return &model.User{
		Id:                    u.Id,
		Email:                 u.Email,
		PasswordHash:          u.PasswordHash,
		FullName:              u.FullName,
		PreferredModel:        u.PreferredModel,
		InstructionsAbout:     u.InstructionsAbout,
		InstructionsHow:       u.InstructionsHow,
		CustomCommands:        u.CustomCommands,
		AiDailyUsage:          u.AiDailyUsage,
		AiDailyUsageLastReset: u.AiDailyUsageLastReset,
		CreatedAt:             u.CreatedAt,
		UpdatedAt:             u.UpdatedAt,
	}
}
