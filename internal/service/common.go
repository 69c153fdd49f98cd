package service

import (
	"context"
	"strings"
	"time"

	"ai-chat-be/internal/constant"
	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/pkg/apperror"
	"ai-chat-be/internal/repository/memory"
	"ai-chat-be/internal/repository/specification"
	"ai-chat-be/internal/repository/unitofwork"
)

// Clock returns the current instant. Stored timestamps are UTC at microsecond
// precision so they round-trip identically through Postgres and SQLite.
type Clock func() time.Time

func systemClock() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

func clockOrDefault(c Clock) Clock {
	if c == nil {
		return systemClock
	}
	return func() time.Time {
		return c().UTC().Truncate(time.Microsecond)
	}
}

// BuildSessionTitle keeps the first few whitespace-separated words of the
// opening message and always appends the ellipsis suffix.
func BuildSessionTitle(message string) string {
	words := strings.Fields(message)
	if len(words) > constant.SessionTitleWordCount {
		words = words[:constant.SessionTitleWordCount]
	}
	return strings.Join(words, " ") + constant.SessionTitleSuffix
}

// findUserByEmail returns nil, nil when no user has that exact email.
func findUserByEmail(ctx context.Context, uow unitofwork.UnitOfWork, cache *memory.UserCache, email string) (*entity.User, error) {
	if user, ok := cache.Get(email); ok {
		return user, nil
	}

	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: email})
	if err != nil {
		return nil, apperror.Persistence(err)
	}
	if user != nil {
		cache.Save(user)
	}
	return user, nil
}

// findOwnedSession returns SessionNotFound both for missing sessions and for
// sessions owned by someone else, so ids cannot be probed across users.
func findOwnedSession(ctx context.Context, uow unitofwork.UnitOfWork, sessionId, userId uint) (*entity.ChatSession, error) {
	session, err := uow.ChatSessionRepository().FindOne(ctx,
		specification.ByID{ID: sessionId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, apperror.Persistence(err)
	}
	if session == nil {
		return nil, apperror.SessionNotFound()
	}
	return session, nil
}
