package implementation_test

import (
	"context"
	"testing"
	"time"

	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/model"
	"ai-chat-be/internal/repository/contract"
	"ai-chat-be/internal/repository/implementation"
	"ai-chat-be/internal/repository/specification"
	"ai-chat-be/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

func TestUserRepositoryDuplicateEmail(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := implementation.NewUserRepository(db)
	ctx := context.Background()

	first := &entity.User{Email: "a@x.io", PasswordHash: "h", CreatedAt: base}
	require.NoError(t, repo.Create(ctx, first))
	assert.NotZero(t, first.Id)

	err := repo.Create(ctx, &entity.User{Email: "a@x.io", PasswordHash: "h", CreatedAt: base})
	assert.ErrorIs(t, err, contract.ErrDuplicate)
}

func TestUserRepositoryEmailIsExactMatch(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := implementation.NewUserRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &entity.User{Email: "a@x.io", PasswordHash: "h", CreatedAt: base}))

	found, err := repo.FindOne(ctx, specification.ByEmail{Email: "a@x.io"})
	require.NoError(t, err)
	require.NotNil(t, found)

	missing, err := repo.FindOne(ctx, specification.ByEmail{Email: "A@X.IO"})
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestChatSessionRepositoryNewestFirst(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	user := testutil.SeedUser(t, db, "a@x.io")
	other := testutil.SeedUser(t, db, "b@x.io")
	repo := implementation.NewChatSessionRepository(db)
	ctx := context.Background()

	s1 := &entity.ChatSession{UserId: user.Id, Title: "s1", CreatedAt: base}
	s2 := &entity.ChatSession{UserId: user.Id, Title: "s2", CreatedAt: base.Add(time.Minute)}
	s3 := &entity.ChatSession{UserId: other.Id, Title: "s3", CreatedAt: base.Add(2 * time.Minute)}
	for _, s := range []*entity.ChatSession{s1, s2, s3} {
		require.NoError(t, repo.Create(ctx, s))
	}

	sessions, err := repo.FindAll(ctx, specification.UserOwnedBy{UserID: user.Id}, specification.NewestFirst())
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, s2.Id, sessions[0].Id)
	assert.Equal(t, s1.Id, sessions[1].Id)
	assert.True(t, sessions[0].CreatedAt.Equal(s2.CreatedAt))
}

func TestChatSessionRepositoryDefaultTitle(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	user := testutil.SeedUser(t, db, "a@x.io")
	repo := implementation.NewChatSessionRepository(db)
	ctx := context.Background()

	s := &entity.ChatSession{UserId: user.Id, CreatedAt: base}
	require.NoError(t, repo.Create(ctx, s))

	found, err := repo.FindOne(ctx, specification.ByID{ID: s.Id})
	require.NoError(t, err)
	assert.Equal(t, "New Chat", found.Title)
}

func TestChatMessageRepositoryChronologicalWithTiebreak(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	user := testutil.SeedUser(t, db, "a@x.io")
	session := testutil.SeedSession(t, db, user.Id, "t", base)
	repo := implementation.NewChatMessageRepository(db)
	ctx := context.Background()

	msgs := []*entity.ChatMessage{
		{ChatSessionId: session.Id, Role: entity.ChatRoleUser, Content: "second", CreatedAt: base.Add(time.Second)},
		{ChatSessionId: session.Id, Role: entity.ChatRoleUser, Content: "first", CreatedAt: base},
		{ChatSessionId: session.Id, Role: entity.ChatRoleAssistant, Content: "third", CreatedAt: base.Add(time.Second)},
	}
	require.NoError(t, repo.CreateBulk(ctx, msgs))
	for _, m := range msgs {
		assert.NotZero(t, m.Id)
	}

	found, err := repo.FindAll(ctx, specification.ByChatSessionID{ChatSessionID: session.Id}, specification.Chronological())
	require.NoError(t, err)
	require.Len(t, found, 3)
	assert.Equal(t, "first", found[0].Content)
	assert.Equal(t, "second", found[1].Content)
	assert.Equal(t, "third", found[2].Content)
}

func TestChatSessionDeleteCascadesToMessages(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	user := testutil.SeedUser(t, db, "a@x.io")
	keep := testutil.SeedSession(t, db, user.Id, "keep", base)
	drop := testutil.SeedSession(t, db, user.Id, "drop", base)
	messages := implementation.NewChatMessageRepository(db)
	sessions := implementation.NewChatSessionRepository(db)
	ctx := context.Background()

	require.NoError(t, messages.CreateBulk(ctx, []*entity.ChatMessage{
		{ChatSessionId: keep.Id, Role: entity.ChatRoleUser, Content: "k", CreatedAt: base},
		{ChatSessionId: drop.Id, Role: entity.ChatRoleUser, Content: "d1", CreatedAt: base},
		{ChatSessionId: drop.Id, Role: entity.ChatRoleAssistant, Content: "d2", CreatedAt: base},
	}))

	require.NoError(t, sessions.Delete(ctx, drop.Id))

	gone, err := sessions.FindOne(ctx, specification.ByID{ID: drop.Id})
	require.NoError(t, err)
	assert.Nil(t, gone)

	var orphans int64
	require.NoError(t, db.Model(&model.ChatMessage{}).Where("chat_session_id = ?", drop.Id).Count(&orphans).Error)
	assert.Zero(t, orphans)

	left, err := messages.Count(ctx, specification.ByChatSessionID{ChatSessionID: keep.Id})
	require.NoError(t, err)
	assert.Equal(t, int64(1), left)
}

func TestChatMessageRequiresExistingSession(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := implementation.NewChatMessageRepository(db)

	err := repo.Create(context.Background(), &entity.ChatMessage{
		ChatSessionId: 999,
		Role:          entity.ChatRoleUser,
		Content:       "orphan",
		CreatedAt:     base,
	})
	assert.Error(t, err)
}
