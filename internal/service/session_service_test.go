package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"ai-chat-be/internal/dto"
	"ai-chat-be/internal/model"
	"ai-chat-be/internal/pkg/apperror"
	"ai-chat-be/internal/pkg/mailer"
	"ai-chat-be/internal/testutil"
	"ai-chat-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const transcriptTopic = "SEND_CHAT_TRANSCRIPT"

type fakeMailer struct {
	mu    sync.Mutex
	sent  map[string]mailer.Transcript
	ready chan struct{}
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{sent: map[string]mailer.Transcript{}, ready: make(chan struct{}, 8)}
}

func (m *fakeMailer) SendEmail(toEmail, subject, content string) error { return nil }

func (m *fakeMailer) SendTranscript(toEmail string, transcript mailer.Transcript) error {
	m.mu.Lock()
	m.sent[toEmail] = transcript
	m.mu.Unlock()
	m.ready <- struct{}{}
	return nil
}

func newPubSub(t *testing.T) *gochannel.GoChannel {
	t.Helper()
	ps := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	t.Cleanup(func() { _ = ps.Close() })
	return ps
}

func (f *fixture) sessions(ps *gochannel.GoChannel) ISessionService {
	return NewSessionService(f.factory, f.cache, NewPublisherService(transcriptTopic, ps), f.publisher, f.log)
}

func TestCreateSessionDefaultsTitle(t *testing.T) {
	f := newFixture(t)
	testutil.SeedUser(t, f.db, "a@x.io")
	svc := f.sessions(newPubSub(t))

	res, err := svc.CreateSession(context.Background(), &dto.CreateSessionRequest{UserEmail: "a@x.io"})
	require.NoError(t, err)
	assert.Equal(t, "New Chat", res.Title)
	assert.False(t, res.CreatedAt.IsZero())

	res, err = svc.CreateSession(context.Background(), &dto.CreateSessionRequest{UserEmail: "a@x.io", Title: "Trip plans"})
	require.NoError(t, err)
	assert.Equal(t, "Trip plans", res.Title)

	_, err = svc.CreateSession(context.Background(), &dto.CreateSessionRequest{UserEmail: "ghost@x.io"})
	assert.ErrorIs(t, err, apperror.ErrUserNotFound)
}

func TestDeleteSessionCascadesAndChecksOwner(t *testing.T) {
	f := newFixture(t)
	owner := testutil.SeedUser(t, f.db, "a@x.io")
	testutil.SeedUser(t, f.db, "b@x.io")
	session := testutil.SeedSession(t, f.db, owner.Id, "t", t0)
	require.NoError(t, f.db.Create(&model.ChatMessage{ChatSessionId: session.Id, Role: "user", Content: "hi", CreatedAt: t0}).Error)
	svc := f.sessions(newPubSub(t))

	err := svc.DeleteSession(context.Background(), &dto.DeleteSessionRequest{UserEmail: "b@x.io", SessionId: session.Id})
	assert.ErrorIs(t, err, apperror.ErrSessionNotFound)
	assert.Equal(t, int64(1), f.count(t, &model.ChatSession{}))

	require.NoError(t, svc.DeleteSession(context.Background(), &dto.DeleteSessionRequest{UserEmail: "a@x.io", SessionId: session.Id}))
	assert.Zero(t, f.count(t, &model.ChatSession{}))
	assert.Zero(t, f.count(t, &model.ChatMessage{}))
	assert.Contains(t, f.publisher.types(), events.TypeChatSessionDeleted)
}

func TestTranscriptIsQueuedAndDelivered(t *testing.T) {
	f := newFixture(t)
	owner := testutil.SeedUser(t, f.db, "a@x.io")
	session := testutil.SeedSession(t, f.db, owner.Id, "Hello...", t0)
	require.NoError(t, f.db.Create([]*model.ChatMessage{
		{ChatSessionId: session.Id, Role: "user", Content: "Hello", CreatedAt: t0},
		{ChatSessionId: session.Id, Role: "assistant", Content: "Hi!", CreatedAt: t0.Add(time.Second)},
	}).Error)

	ps := newPubSub(t)
	mail := newFakeMailer()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, NewConsumerService(ps, transcriptTopic, f.factory, mail, f.log).Consume(ctx))

	res, err := f.sessions(ps).RequestTranscript(context.Background(), &dto.SendTranscriptRequest{UserEmail: "a@x.io", SessionId: session.Id})
	require.NoError(t, err)
	assert.NotEmpty(t, res.JobId)

	select {
	case <-mail.ready:
	case <-time.After(5 * time.Second):
		t.Fatal("transcript was not delivered")
	}

	mail.mu.Lock()
	defer mail.mu.Unlock()
	got := mail.sent["a@x.io"]
	assert.Equal(t, session.Id, got.SessionId)
	require.Len(t, got.Lines, 2)
	assert.Equal(t, "user", got.Lines[0].Role)
	assert.Equal(t, "Hi!", got.Lines[1].Content)
}

func TestTranscriptRequiresOwnership(t *testing.T) {
	f := newFixture(t)
	owner := testutil.SeedUser(t, f.db, "a@x.io")
	testutil.SeedUser(t, f.db, "b@x.io")
	session := testutil.SeedSession(t, f.db, owner.Id, "t", t0)

	_, err := f.sessions(newPubSub(t)).RequestTranscript(context.Background(), &dto.SendTranscriptRequest{UserEmail: "b@x.io", SessionId: session.Id})
	assert.ErrorIs(t, err, apperror.ErrSessionNotFound)
}
