// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"testing"
	"time"

	"ai-chat-be/internal/model"
	"ai-chat-be/pkg/database"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// NewSQLiteDB opens a fresh, migrated in-memory database closed at test end.
func NewSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.NewSQLiteDB(":memory:")
	require.NoError(t, err)
	require.NoError(t, model.AutoMigrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// SeedUser inserts a user directly and returns it.
func SeedUser(t *testing.T, db *gorm.DB, email string) *model.User {
	t.Helper()
	u := &model.User{Email: email, PasswordHash: "x", CreatedAt: time.Now().UTC()}
	require.NoError(t, db.Create(u).Error)
	return u
}

// SeedSession inserts a session for userId created at the given time.
func SeedSession(t *testing.T, db *gorm.DB, userId uint, title string, createdAt time.Time) *model.ChatSession {
	t.Helper()
	s := &model.ChatSession{UserId: userId, Title: title, CreatedAt: createdAt.UTC()}
	require.NoError(t, db.Create(s).Error)
	return s
}

// FixedClock returns a clock that starts at start and advances by step on every call.
func FixedClock(start time.Time, step time.Duration) func() time.Time {
	next := start
	return func() time.Time {
		now := next
		next = next.Add(step)
		return now
	}
}
