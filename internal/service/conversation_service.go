package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/changzhiho/mini-chatgpt/internal/constant"
	"github.com/changzhiho/mini-chatgpt/internal/dto"
	"github.com/changzhiho/mini-chatgpt/internal/entity"
	"github.com/changzhiho/mini-chatgpt/internal/pkg/apperror"
	"github.com/changzhiho/mini-chatgpt/internal/pkg/logger"
	"github.com/changzhiho/mini-chatgpt/internal/repository/specification"
	"github.com/changzhiho/mini-chatgpt/internal/repository/unitofwork"
)

type IConversationService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateConversationRequest) (*dto.ConversationResponse, error)
	ListForOwner(ctx context.Context, userId uuid.UUID) ([]*dto.ConversationResponse, error)
	// Delete removes the conversation and all of its messages. It
	// returns the owner's next most recent conversation, or nil when
	// none remains.
	Delete(ctx context.Context, userId uuid.UUID, conversationId int64) (*dto.ConversationResponse, error)
	Share(ctx context.Context, userId uuid.UUID, conversationId int64) (*dto.ShareResponse, error)
	SharedView(ctx context.Context, token uuid.UUID) (*dto.SharedConversationResponse, error)
}

type conversationService struct {
	uowFactory unitofwork.RepositoryFactory
	models     ModelResolver
	baseURL    string
	logger     logger.ILogger
}

func NewConversationService(uowFactory unitofwork.RepositoryFactory, models ModelResolver, baseURL string, log logger.ILogger) IConversationService {
	return &conversationService{
		uowFactory: uowFactory,
		models:     models,
		baseURL:    baseURL,
		logger:     log,
	}
}

func (s *conversationService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateConversationRequest) (*dto.ConversationResponse, error) {
	model, err := s.models.Resolve(ctx, req.Model)
	if err != nil {
		return nil, apperror.Upstream("could not resolve model", err)
	}

	conversation := &entity.Conversation{
		UserId:     userId,
		Title:      constant.SentinelTitle,
		Model:      model,
		ShareToken: uuid.New(),
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.ConversationRepository().Create(ctx, conversation); err != nil {
		return nil, err
	}

	return toConversationResponse(conversation), nil
}

func (s *conversationService) ListForOwner(ctx context.Context, userId uuid.UUID) ([]*dto.ConversationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	conversations, err := uow.ConversationRepository().FindAllWithMessages(ctx,
		specification.OwnedBy{UserID: userId},
		specification.OrderBy{Field: "updated_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.ConversationResponse, 0, len(conversations))
	for _, c := range conversations {
		responses = append(responses, toConversationResponse(c))
	}
	return responses, nil
}

func (s *conversationService) Delete(ctx context.Context, userId uuid.UUID, conversationId int64) (*dto.ConversationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = uow.Rollback()
		}
	}()

	conversation, err := uow.ConversationRepository().FindOne(ctx,
		specification.ByConversationID{ID: conversationId},
		specification.OwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if conversation == nil {
		return nil, apperror.NotFound("conversation not found")
	}

	if err := uow.MessageRepository().DeleteByConversationId(ctx, conversationId); err != nil {
		return nil, err
	}
	if err := uow.ConversationRepository().Delete(ctx, conversationId); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}
	committed = true

	reader := s.uowFactory.NewUnitOfWork(ctx)
	remaining, err := reader.ConversationRepository().FindAll(ctx,
		specification.OwnedBy{UserID: userId},
		specification.OrderBy{Field: "updated_at", Desc: true},
		specification.Pagination{Limit: 1, Offset: 0},
	)
	if err != nil {
		return nil, err
	}
	if len(remaining) == 0 {
		return nil, nil
	}
	return toConversationResponse(remaining[0]), nil
}

func (s *conversationService) Share(ctx context.Context, userId uuid.UUID, conversationId int64) (*dto.ShareResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	conversation, err := uow.ConversationRepository().FindOne(ctx,
		specification.ByConversationID{ID: conversationId},
	)
	if err != nil {
		return nil, err
	}
	if conversation == nil {
		return nil, apperror.NotFound("conversation not found")
	}
	if conversation.UserId != userId {
		return nil, apperror.Forbidden("conversation belongs to another user")
	}

	return &dto.ShareResponse{
		ShareUrl: s.baseURL + "/shared/" + conversation.ShareToken.String(),
	}, nil
}

func (s *conversationService) SharedView(ctx context.Context, token uuid.UUID) (*dto.SharedConversationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	conversation, err := uow.ConversationRepository().FindOneWithMessages(ctx,
		specification.ByShareToken{Token: token},
	)
	if err != nil {
		return nil, err
	}
	if conversation == nil {
		return nil, apperror.NotFound("shared conversation not found")
	}

	owner, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: conversation.UserId})
	if err != nil {
		return nil, err
	}
	ownerName := ""
	if owner != nil {
		ownerName = owner.FullName
	}

	return &dto.SharedConversationResponse{
		Title:     conversation.Title,
		OwnerName: ownerName,
		Messages:  toMessageResponses(conversation.Messages),
	}, nil
}

func toConversationResponse(c *entity.Conversation) *dto.ConversationResponse {
	return &dto.ConversationResponse{
		Id:        c.Id,
		Title:     c.Title,
		Model:     c.Model,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		Messages:  toMessageResponses(c.Messages),
	}
}

func toMessageResponses(messages []entity.Message) []dto.MessageResponse {
	responses := make([]dto.MessageResponse, 0, len(messages))
	for _, m := range messages {
		responses = append(responses, dto.MessageResponse{
			Id:        m.Id,
			Role:      m.Role,
			Content:   m.Content,
			CreatedAt: m.CreatedAt,
		})
	}
	return responses
}
