package model

import "time"

type User struct {
	Id           uint          `gorm:"primaryKey;autoIncrement"`
	Email        string        `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string        `gorm:"type:varchar(255);not null"`
	CreatedAt    time.Time     `gorm:"not null"`
	Sessions     []ChatSession `gorm:"foreignKey:UserId;constraint:OnDelete:CASCADE"`
}

func (User) TableName() string {
	return "users"
}
