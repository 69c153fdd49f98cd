package model

import "time"

type ChatSession struct {
	Id        uint          `gorm:"primaryKey;autoIncrement"`
	UserId    uint          `gorm:"not null;index"`
	Title     string        `gorm:"type:text;not null;default:'New Chat'"`
	CreatedAt time.Time     `gorm:"not null;index"`
	Messages  []ChatMessage `gorm:"foreignKey:ChatSessionId;constraint:OnDelete:CASCADE"`
}

func (ChatSession) TableName() string {
	return "chat_sessions"
}
