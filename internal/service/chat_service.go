package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/changzhiho/mini-chatgpt/internal/constant"
	"github.com/changzhiho/mini-chatgpt/internal/dto"
	"github.com/changzhiho/mini-chatgpt/internal/entity"
	"github.com/changzhiho/mini-chatgpt/internal/pkg/apperror"
	"github.com/changzhiho/mini-chatgpt/internal/pkg/logger"
	"github.com/changzhiho/mini-chatgpt/internal/repository/specification"
	"github.com/changzhiho/mini-chatgpt/internal/repository/unitofwork"
	"github.com/changzhiho/mini-chatgpt/pkg/chat/command"
	"github.com/changzhiho/mini-chatgpt/pkg/chat/prompt"
	"github.com/changzhiho/mini-chatgpt/pkg/chat/title"
	"github.com/changzhiho/mini-chatgpt/pkg/llm"
)

// ModelResolver abstracts the model catalog lookups the chat flow needs.
type ModelResolver interface {
	Resolve(ctx context.Context, id string) (string, error)
	Default() string
}

// StreamEmitter is the transport-side sink for outgoing stream text.
// Emit returns an error once the client is gone.
type StreamEmitter interface {
	Emit(text string) error
}

// TurnContext carries everything StreamTurn needs, resolved and
// persisted by PrepareTurn before the first response byte is written.
type TurnContext struct {
	UserId        uuid.UUID
	UserName      string
	Conversation  *entity.Conversation
	Model         string
	RawMessage    string
	Messages      []llm.Message
	FirstExchange bool
}

type IChatService interface {
	// PrepareTurn validates the request, resolves the conversation and
	// model, expands commands, persists the raw user message, and builds
	// the outbound payload. All failures here still map to status codes.
	PrepareTurn(ctx context.Context, userId uuid.UUID, req *dto.AskRequest) (*TurnContext, error)

	// StreamTurn relays the model response through the emitter and runs
	// the post-stream bookkeeping (persistence, usage event, title).
	StreamTurn(ctx context.Context, turn *TurnContext, emitter StreamEmitter) error
}

type chatService struct {
	uowFactory unitofwork.RepositoryFactory
	provider   llm.ChatProvider
	models     ModelResolver
	commands   *command.Processor
	prompts    *prompt.Builder
	titles     *title.Generator
	publisher  IPublisherService
	logger     logger.ILogger
	now        func() time.Time
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	provider llm.ChatProvider,
	models ModelResolver,
	commands *command.Processor,
	prompts *prompt.Builder,
	titles *title.Generator,
	publisher IPublisherService,
	log logger.ILogger,
) IChatService {
	return &chatService{
		uowFactory: uowFactory,
		provider:   provider,
		models:     models,
		commands:   commands,
		prompts:    prompts,
		titles:     titles,
		publisher:  publisher,
		logger:     log,
		now:        time.Now,
	}
}

func (s *chatService) PrepareTurn(ctx context.Context, userId uuid.UUID, req *dto.AskRequest) (*TurnContext, error) {
	model, err := s.models.Resolve(ctx, req.Model)
	if err != nil {
		return nil, apperror.Upstream("could not resolve model", err)
	}

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

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NotFound("user not found")
	}

	var conversation *entity.Conversation
	if req.ConversationId != nil {
		conversation, err = uow.ConversationRepository().FindOne(ctx,
			specification.ByConversationID{ID: *req.ConversationId},
			specification.OwnedBy{UserID: userId},
		)
		if err != nil {
			return nil, err
		}
		if conversation == nil {
			return nil, apperror.NotFound("conversation not found")
		}
		if conversation.Model != model {
			conversation.Model = model
			if err := uow.ConversationRepository().Update(ctx, conversation); err != nil {
				return nil, err
			}
		}
	} else {
		conversation = &entity.Conversation{
			UserId:     userId,
			Title:      constant.SentinelTitle,
			Model:      model,
			ShareToken: uuid.New(),
		}
		if err := uow.ConversationRepository().Create(ctx, conversation); err != nil {
			return nil, err
		}
	}

	// The resolved model becomes the user's sticky preference.
	if user.PreferredModel == nil || *user.PreferredModel != model {
		user.PreferredModel = &model
		if err := uow.UserRepository().Update(ctx, user); err != nil {
			return nil, err
		}
	}

	// History stores the raw input; command expansion only affects the
	// outbound payload.
	userMessage := &entity.Message{
		ConversationId: conversation.Id,
		Role:           constant.ChatMessageRoleUser,
		Content:        req.Message,
	}
	if err := uow.MessageRepository().Create(ctx, userMessage); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}
	committed = true

	processed := s.commands.Process(ctx, req.Message, derefString(user.CustomCommands))

	reader := s.uowFactory.NewUnitOfWork(ctx)
	history, err := reader.MessageRepository().FindAll(ctx,
		specification.ByConversation{ConversationID: conversation.Id},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	llmHistory := make([]llm.Message, 0, len(history))
	for _, m := range history {
		llmHistory = append(llmHistory, llm.Message{Role: m.Role, Content: m.Content})
	}

	messages := s.prompts.Build(llmHistory, processed, req.Message, prompt.Instructions{
		About: derefString(user.InstructionsAbout),
		Style: derefString(user.InstructionsHow),
	})

	return &TurnContext{
		UserId:        userId,
		UserName:      user.FullName,
		Conversation:  conversation,
		Model:         model,
		RawMessage:    req.Message,
		Messages:      messages,
		FirstExchange: len(history) == 1,
	}, nil
}

func (s *chatService) StreamTurn(ctx context.Context, turn *TurnContext, emitter StreamEmitter) error {
	// A failed flush means the client hung up; cancel the upstream
	// request instead of draining it to completion.
	streamCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var emitErr error
	full, streamErr := s.provider.ChatStream(streamCtx, turn.Messages, func(chunk string) {
		if emitErr != nil {
			return
		}
		if err := emitter.Emit(chunk); err != nil {
			emitErr = err
			cancel()
		}
	}, llm.WithModel(turn.Model), llm.WithUserName(turn.UserName))

	if streamErr != nil {
		s.logger.Error("chat", "stream interrupted", map[string]interface{}{
			"conversation_id": turn.Conversation.Id,
			"error":           streamErr.Error(),
		})
	}

	// The assistant row is always written, even truncated or empty, so
	// what the client saw and what is stored never diverge.
	if err := s.persistAssistantReply(ctx, turn, full); err != nil {
		s.logger.Error("chat", "failed to persist assistant reply", map[string]interface{}{
			"conversation_id": turn.Conversation.Id,
			"error":           err.Error(),
		})
		return err
	}

	_ = s.publisher.PublishTurnCompleted(dto.PublishTurnCompletedMessage{
		UserId:         turn.UserId,
		ConversationId: turn.Conversation.Id,
		Model:          turn.Model,
		CompletedAt:    s.now(),
	})

	if streamErr != nil {
		return streamErr
	}
	if emitErr != nil {
		return emitErr
	}

	if turn.FirstExchange && turn.Conversation.Title == constant.SentinelTitle {
		return s.finishWithTitle(ctx, turn, full, emitter)
	}

	return nil
}

func (s *chatService) persistAssistantReply(ctx context.Context, turn *TurnContext, full string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	assistantMessage := &entity.Message{
		ConversationId: turn.Conversation.Id,
		Role:           constant.ChatMessageRoleAssistant,
		Content:        full,
	}
	if err := uow.MessageRepository().Create(ctx, assistantMessage); err != nil {
		_ = uow.Rollback()
		return err
	}

	if err := uow.ConversationRepository().Touch(ctx, turn.Conversation.Id, s.now()); err != nil {
		_ = uow.Rollback()
		return err
	}

	return uow.Commit()
}

// finishWithTitle runs the one-shot title exchange on the tail of the
// same connection: end-of-message marker, then the framed title payload.
func (s *chatService) finishWithTitle(ctx context.Context, turn *TurnContext, full string, emitter StreamEmitter) error {
	if err := emitter.Emit(constant.MessageEndMarker); err != nil {
		return err
	}

	generated := s.titles.Generate(ctx, turn.RawMessage, full)
	if generated == "" {
		// Generation failed, the sentinel title stays.
		return nil
	}

	turn.Conversation.Title = generated
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.ConversationRepository().Update(ctx, turn.Conversation); err != nil {
		s.logger.Error("chat", "failed to persist generated title", map[string]interface{}{
			"conversation_id": turn.Conversation.Id,
			"error":           err.Error(),
		})
		return err
	}

	payload, err := json.Marshal(dto.TitlePayload{
		Title:          generated,
		ConversationId: turn.Conversation.Id,
	})
	if err != nil {
		return err
	}

	return emitter.Emit(constant.TitleStartMarker + string(payload) + constant.TitleEndMarker)
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
