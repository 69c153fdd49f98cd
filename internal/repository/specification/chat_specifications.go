package specification

import (
	"ai-chat-be/internal/repository/scope"

	"gorm.io/gorm"
)

type ByChatSessionID struct {
	ChatSessionID uint
}

func (s ByChatSessionID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("chat_session_id = ?", s.ChatSessionID)
}

// NewestFirst orders by creation time descending with the id as tiebreaker.
func NewestFirst() Specification {
	return Scoped(scope.OrderByCreatedDesc)
}

// Chronological orders by creation time ascending with the id as tiebreaker.
func Chronological() Specification {
	return Scoped(scope.OrderByCreatedAsc)
}
