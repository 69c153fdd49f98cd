package model

import "time"

type ChatMessage struct {
	Id            uint      `gorm:"primaryKey;autoIncrement"`
	ChatSessionId uint      `gorm:"not null;index"`
	Role          string    `gorm:"type:varchar(20);not null"`
	Content       string    `gorm:"type:text;not null"`
	CreatedAt     time.Time `gorm:"not null;index"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
