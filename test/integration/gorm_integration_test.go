package integration

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/model"
	"ai-chat-be/internal/repository/specification"
	"ai-chat-be/internal/repository/unitofwork"
	"ai-chat-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormConnection(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	require.NoError(t, err, "Failed to connect to DB")
	require.NoError(t, model.AutoMigrate(gormDB))

	sqlDB, _ := gormDB.DB()
	assert.NoError(t, sqlDB.Ping())

	ctx := context.Background()
	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	now := time.Now().UTC().Truncate(time.Microsecond)

	user := &entity.User{
		Email:        "test-integration-" + uuid.NewString() + "@example.com",
		PasswordHash: "x",
		CreatedAt:    now,
	}
	require.NoError(t, uowFactory.NewUnitOfWork(ctx).UserRepository().Create(ctx, user))

	t.Run("Exact email lookup", func(t *testing.T) {
		uow := uowFactory.NewUnitOfWork(ctx)
		found, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: user.Email})
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, user.Id, found.Id)
	})

	t.Run("Transactional exchange and cascade delete", func(t *testing.T) {
		uow := uowFactory.NewUnitOfWork(ctx)
		session := &entity.ChatSession{UserId: user.Id, Title: "Integration...", CreatedAt: now}
		require.NoError(t, uow.ChatSessionRepository().Create(ctx, session))

		require.NoError(t, uow.Begin(ctx))
		defer uow.Rollback()

		err := uow.ChatMessageRepository().CreateBulk(ctx, []*entity.ChatMessage{
			{ChatSessionId: session.Id, Role: entity.ChatRoleUser, Content: "hi", CreatedAt: now},
			{ChatSessionId: session.Id, Role: entity.ChatRoleAssistant, Content: "hello", CreatedAt: now.Add(time.Microsecond)},
		})
		require.NoError(t, err)
		require.NoError(t, uow.Commit())

		messages, err := uow.ChatMessageRepository().FindAll(ctx,
			specification.ByChatSessionID{ChatSessionID: session.Id},
			specification.Chronological(),
		)
		require.NoError(t, err)
		require.Len(t, messages, 2)
		assert.Equal(t, entity.ChatRoleUser, messages[0].Role)
		assert.Equal(t, entity.ChatRoleAssistant, messages[1].Role)

		require.NoError(t, uow.ChatSessionRepository().Delete(ctx, session.Id))
		count, err := uow.ChatMessageRepository().Count(ctx, specification.ByChatSessionID{ChatSessionID: session.Id})
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Cleanup(func() {
		gormDB.Where("id = ?", user.Id).Delete(&model.User{})
	})
}
