package dto

import "time"

type AskRequest struct {
	Message      string `json:"message" validate:"required"`
	UserEmail    string `json:"user_email" validate:"required"`
	SessionId    *uint  `json:"session_id,omitempty"`
	SystemPrompt string `json:"system_prompt,omitempty"`
}

type AskResponse struct {
	Response  string `json:"response"`
	SessionId uint   `json:"session_id"`
}

type ChatHistoryResponse struct {
	History []*SessionSummary `json:"history"`
}

type SessionSummary struct {
	Id        uint      `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

type SessionDetailResponse struct {
	Id       uint           `json:"id"`
	Messages []*MessageItem `json:"messages"`
}

type MessageItem struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateSessionRequest struct {
	UserEmail string `json:"user_email" validate:"required"`
	Title     string `json:"title,omitempty" validate:"max=255"`
}

type DeleteSessionRequest struct {
	UserEmail string `validate:"required"`
	SessionId uint   `validate:"required"`
}

type SendTranscriptRequest struct {
	UserEmail string `validate:"required,email"`
	SessionId uint   `validate:"required"`
}

type SendTranscriptResponse struct {
	JobId string `json:"job_id"`
}

// PublishTranscriptMessage is the job payload on the transcript topic.
type PublishTranscriptMessage struct {
	SessionId uint   `json:"session_id"`
	ToEmail   string `json:"to_email"`
}
