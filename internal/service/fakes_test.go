package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/changzhiho/mini-chatgpt/internal/dto"
	"github.com/changzhiho/mini-chatgpt/internal/entity"
	"github.com/changzhiho/mini-chatgpt/internal/repository/contract"
	"github.com/changzhiho/mini-chatgpt/internal/repository/specification"
	"github.com/changzhiho/mini-chatgpt/internal/repository/unitofwork"
	"github.com/changzhiho/mini-chatgpt/pkg/llm"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

// memoryStore is a shared in-memory backing for the repository fakes.
// Specifications are interpreted by type switch instead of SQL.
type memoryStore struct {
	mu            sync.Mutex
	users         map[uuid.UUID]*entity.User
	conversations map[int64]*entity.Conversation
	messages      []*entity.Message
	nextConvId    int64
	nextMsgId     int64
	clock         time.Time
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		users:         make(map[uuid.UUID]*entity.User),
		conversations: make(map[int64]*entity.Conversation),
		clock:         time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

// tick returns a strictly increasing timestamp so creation order is
// always unambiguous.
func (s *memoryStore) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func (s *memoryStore) addUser(u *entity.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.Id] = u
}

// --- fake unit of work ---

type fakeUowFactory struct {
	store *memoryStore
}

func (f *fakeUowFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &fakeUow{store: f.store}
}

type fakeUow struct {
	store *memoryStore
}

func (u *fakeUow) Begin(ctx context.Context) error { return nil }
func (u *fakeUow) Commit() error                   { return nil }
func (u *fakeUow) Rollback() error                 { return nil }

func (u *fakeUow) UserRepository() contract.UserRepository {
	return &fakeUserRepo{store: u.store}
}

func (u *fakeUow) ConversationRepository() contract.ConversationRepository {
	return &fakeConversationRepo{store: u.store}
}

func (u *fakeUow) MessageRepository() contract.MessageRepository {
	return &fakeMessageRepo{store: u.store}
}

// --- fake user repository ---

type fakeUserRepo struct {
	store *memoryStore
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.users[user.Id] = user
	return nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *entity.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.users[user.Id] = user
	return nil
}

func (r *fakeUserRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, spec := range specs {
		if byId, ok := spec.(specification.ByID); ok {
			if u, exists := r.store.users[byId.ID]; exists {
				copied := *u
				return &copied, nil
			}
			return nil, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return int64(len(r.store.users)), nil
}

// --- fake conversation repository ---

type fakeConversationRepo struct {
	store *memoryStore
}

func (r *fakeConversationRepo) Create(ctx context.Context, conversation *entity.Conversation) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.nextConvId++
	conversation.Id = r.store.nextConvId
	conversation.CreatedAt = r.store.tick()
	copied := *conversation
	r.store.conversations[conversation.Id] = &copied
	return nil
}

func (r *fakeConversationRepo) Update(ctx context.Context, conversation *entity.Conversation) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	copied := *conversation
	r.store.conversations[conversation.Id] = &copied
	return nil
}

func (r *fakeConversationRepo) Touch(ctx context.Context, id int64, now time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if c, exists := r.store.conversations[id]; exists {
		c.UpdatedAt = &now
	}
	return nil
}

func (r *fakeConversationRepo) Delete(ctx context.Context, id int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.conversations, id)
	return nil
}

func (r *fakeConversationRepo) match(c *entity.Conversation, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByConversationID:
			if c.Id != s.ID {
				return false
			}
		case specification.OwnedBy:
			if c.UserId != s.UserID {
				return false
			}
		case specification.ByShareToken:
			if c.ShareToken != s.Token {
				return false
			}
		}
	}
	return true
}

func (r *fakeConversationRepo) findAll(specs []specification.Specification, withMessages bool) []*entity.Conversation {
	var results []*entity.Conversation
	for _, c := range r.store.conversations {
		if !r.match(c, specs) {
			continue
		}
		copied := *c
		if withMessages {
			copied.Messages = nil
			for _, m := range r.store.messages {
				if m.ConversationId == c.Id {
					copied.Messages = append(copied.Messages, *m)
				}
			}
		}
		results = append(results, &copied)
	}

	// Newest activity first, mirroring the updated_at DESC ordering the
	// services ask for.
	for i := 0; i < len(results); i++ {
		for j := i + 1; j < len(results); j++ {
			if lastActivity(results[j]).After(lastActivity(results[i])) {
				results[i], results[j] = results[j], results[i]
			}
		}
	}

	for _, spec := range specs {
		if p, ok := spec.(specification.Pagination); ok && len(results) > p.Limit {
			results = results[p.Offset : p.Offset+p.Limit]
		}
	}

	return results
}

func lastActivity(c *entity.Conversation) time.Time {
	if c.UpdatedAt != nil {
		return *c.UpdatedAt
	}
	return c.CreatedAt
}

func (r *fakeConversationRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Conversation, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	results := r.findAll(specs, false)
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (r *fakeConversationRepo) FindOneWithMessages(ctx context.Context, specs ...specification.Specification) (*entity.Conversation, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	results := r.findAll(specs, true)
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (r *fakeConversationRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Conversation, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.findAll(specs, false), nil
}

func (r *fakeConversationRepo) FindAllWithMessages(ctx context.Context, specs ...specification.Specification) ([]*entity.Conversation, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.findAll(specs, true), nil
}

func (r *fakeConversationRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return int64(len(r.findAll(specs, false))), nil
}

// --- fake message repository ---

type fakeMessageRepo struct {
	store *memoryStore
}

func (r *fakeMessageRepo) Create(ctx context.Context, message *entity.Message) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.nextMsgId++
	message.Id = r.store.nextMsgId
	message.CreatedAt = r.store.tick()
	copied := *message
	r.store.messages = append(r.store.messages, &copied)
	return nil
}

func (r *fakeMessageRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Message, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var results []*entity.Message
	for _, m := range r.store.messages {
		matched := true
		for _, spec := range specs {
			if byConv, ok := spec.(specification.ByConversation); ok && m.ConversationId != byConv.ConversationID {
				matched = false
			}
		}
		if matched {
			copied := *m
			results = append(results, &copied)
		}
	}
	return results, nil
}

func (r *fakeMessageRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	found, _ := r.FindAll(ctx, specs...)
	return int64(len(found)), nil
}

func (r *fakeMessageRepo) DeleteByConversationId(ctx context.Context, conversationId int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	kept := r.store.messages[:0]
	for _, m := range r.store.messages {
		if m.ConversationId != conversationId {
			kept = append(kept, m)
		}
	}
	r.store.messages = kept
	return nil
}

// --- fake chat provider ---

type scriptedProvider struct {
	chunks      []string
	streamErr   error
	chatReply   string
	chatErr     error
	gotMessages []llm.Message
}

func (p *scriptedProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return p.chatReply, p.chatErr
}

func (p *scriptedProvider) ChatStream(ctx context.Context, history []llm.Message, onChunk llm.ChunkHandler, options ...llm.Option) (string, error) {
	p.gotMessages = history
	var full string
	for _, chunk := range p.chunks {
		if ctx.Err() != nil {
			return full, nil
		}
		onChunk(chunk)
		full += chunk
	}
	return full, p.streamErr
}

// --- fake model resolver ---

type staticResolver struct {
	known        map[string]bool
	defaultModel string
}

func (r *staticResolver) Resolve(ctx context.Context, id string) (string, error) {
	if r.known[id] {
		return id, nil
	}
	return r.defaultModel, nil
}

func (r *staticResolver) Default() string {
	return r.defaultModel
}

// --- fake publisher ---

type recordingPublisher struct {
	published []dto.PublishTurnCompletedMessage
}

func (p *recordingPublisher) PublishTurnCompleted(payload dto.PublishTurnCompletedMessage) error {
	p.published = append(p.published, payload)
	return nil
}

// --- fake stream emitter ---

type recordingEmitter struct {
	emitted   []string
	failAfter int // fail on the Nth emit, 0 = never
	err       error
}

func (e *recordingEmitter) Emit(text string) error {
	if e.failAfter > 0 && len(e.emitted)+1 >= e.failAfter && e.err != nil {
		return e.err
	}
	e.emitted = append(e.emitted, text)
	return nil
}
