package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/model"
	"ai-chat-be/internal/pkg/logger"
	"ai-chat-be/internal/repository/contract"
	"ai-chat-be/internal/repository/memory"
	"ai-chat-be/internal/repository/unitofwork"
	"ai-chat-be/internal/testutil"
	"ai-chat-be/pkg/events"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var t0 = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

type fakeCompleter struct {
	reply  string
	err    error
	calls  int
	prompt string
	onCall func()
}

func (f *fakeCompleter) Complete(ctx context.Context, message, systemPrompt string) (string, error) {
	f.calls++
	f.prompt = systemPrompt
	if f.onCall != nil {
		f.onCall()
	}
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.EventType())
	}
	return out
}

type fixture struct {
	db        *gorm.DB
	factory   unitofwork.RepositoryFactory
	cache     *memory.UserCache
	log       logger.ILogger
	publisher *recordingPublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	return &fixture{
		db:        db,
		factory:   unitofwork.NewRepositoryFactory(db),
		cache:     memory.NewUserCache(time.Minute),
		log:       logger.NewNopLogger(),
		publisher: &recordingPublisher{},
	}
}

func (f *fixture) count(t *testing.T, m interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(m).Count(&n).Error)
	return n
}

func (f *fixture) messages(t *testing.T, sessionId uint) []model.ChatMessage {
	t.Helper()
	var out []model.ChatMessage
	require.NoError(t, f.db.Where("chat_session_id = ?", sessionId).Order("created_at asc, id asc").Find(&out).Error)
	return out
}

// failingExchangeFactory hands out units of work whose message repository
// writes the batch and then reports failure, leaving the rollback to the caller.
type failingExchangeFactory struct {
	unitofwork.RepositoryFactory
	err error
}

func (f failingExchangeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return failingExchangeUnitOfWork{UnitOfWork: f.RepositoryFactory.NewUnitOfWork(ctx), err: f.err}
}

type failingExchangeUnitOfWork struct {
	unitofwork.UnitOfWork
	err error
}

func (u failingExchangeUnitOfWork) ChatMessageRepository() contract.ChatMessageRepository {
	return failingMessageRepository{ChatMessageRepository: u.UnitOfWork.ChatMessageRepository(), err: u.err}
}

type failingMessageRepository struct {
	contract.ChatMessageRepository
	err error
}

func (r failingMessageRepository) CreateBulk(ctx context.Context, messages []*entity.ChatMessage) error {
	if err := r.ChatMessageRepository.CreateBulk(ctx, messages); err != nil {
		return err
	}
	return r.err
}
