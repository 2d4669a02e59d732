package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/changzhiho/mini-chatgpt/internal/dto"
	"github.com/changzhiho/mini-chatgpt/internal/pkg/apperror"
	"github.com/changzhiho/mini-chatgpt/internal/repository/specification"
	"github.com/changzhiho/mini-chatgpt/internal/repository/unitofwork"
	"github.com/changzhiho/mini-chatgpt/pkg/llm/openrouter"
)

// ModelLister exposes the cached upstream model catalog.
type ModelLister interface {
	List(ctx context.Context) ([]openrouter.ModelInfo, error)
}

type ISettingsService interface {
	GetInstructions(ctx context.Context, userId uuid.UUID) (*dto.InstructionsResponse, error)
	UpdateInstructions(ctx context.Context, userId uuid.UUID, req *dto.UpdateInstructionsRequest) (*dto.InstructionsResponse, error)
	GetCommands(ctx context.Context, userId uuid.UUID) (*dto.CommandsResponse, error)
	UpdateCommands(ctx context.Context, userId uuid.UUID, req *dto.UpdateCommandsRequest) (*dto.CommandsResponse, error)
	ListModels(ctx context.Context) ([]dto.ModelResponse, error)
}

type settingsService struct {
	uowFactory unitofwork.RepositoryFactory
	models     ModelLister
}

func NewSettingsService(uowFactory unitofwork.RepositoryFactory, models ModelLister) ISettingsService {
	return &settingsService{
		uowFactory: uowFactory,
		models:     models,
	}
}

func (s *settingsService) GetInstructions(ctx context.Context, userId uuid.UUID) (*dto.InstructionsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NotFound("user not found")
	}

	return &dto.InstructionsResponse{
		About: derefString(user.InstructionsAbout),
		Style: derefString(user.InstructionsHow),
	}, nil
}

func (s *settingsService) UpdateInstructions(ctx context.Context, userId uuid.UUID, req *dto.UpdateInstructionsRequest) (*dto.InstructionsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NotFound("user not found")
	}

	user.InstructionsAbout = &req.About
	user.InstructionsHow = &req.Style
	if err := uow.UserRepository().Update(ctx, user); err != nil {
		return nil, err
	}

	return &dto.InstructionsResponse{About: req.About, Style: req.Style}, nil
}

func (s *settingsService) GetCommands(ctx context.Context, userId uuid.UUID) (*dto.CommandsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NotFound("user not found")
	}

	return &dto.CommandsResponse{Commands: derefString(user.CustomCommands)}, nil
}

func (s *settingsService) UpdateCommands(ctx context.Context, userId uuid.UUID, req *dto.UpdateCommandsRequest) (*dto.CommandsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NotFound("user not found")
	}

	user.CustomCommands = &req.Commands
	if err := uow.UserRepository().Update(ctx, user); err != nil {
		return nil, err
	}

	return &dto.CommandsResponse{Commands: req.Commands}, nil
}

func (s *settingsService) ListModels(ctx context.Context) ([]dto.ModelResponse, error) {
	models, err := s.models.List(ctx)
	if err != nil {
		return nil, apperror.Upstream("could not list models", err)
	}

	responses := make([]dto.ModelResponse, 0, len(models))
	for _, m := range models {
		responses = append(responses, dto.ModelResponse{
			Id:                  m.Id,
			Name:                m.Name,
			ContextLength:       m.ContextLength,
			MaxCompletionTokens: m.MaxCompletionTokens,
			Pricing: dto.ModelPricingResponse{
				Prompt:     m.Pricing.Prompt,
				Completion: m.Pricing.Completion,
			},
		})
	}
	return responses, nil
}
