package unitofwork

import (
	"context"

	"ai-chat-be/internal/repository/contract"
)

// UnitOfWork scopes repository access to one request. Without Begin the
// repositories run directly against the database; between Begin and
// Commit/Rollback they share one transaction.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	ChatSessionRepository() contract.ChatSessionRepository
	ChatMessageRepository() contract.ChatMessageRepository
}
