package events

import "time"

const (
	TypeChatSessionCreated    = "chat.session_created"
	TypeChatExchangeCompleted = "chat.exchange_completed"
	TypeChatSessionDeleted    = "chat.session_deleted"
)

func NewChatSessionCreated(sessionId, userId uint, title string, at time.Time) BaseEvent {
	return BaseEvent{
		Type: TypeChatSessionCreated,
		Data: map[string]interface{}{
			"session_id":  sessionId,
			"user_id":     userId,
			"title":       title,
			"occurred_at": at.Format(time.RFC3339Nano),
		},
		OccurredAt: at,
	}
}

func NewChatExchangeCompleted(sessionId, userId uint, sessionCreated bool, at time.Time) BaseEvent {
	return BaseEvent{
		Type: TypeChatExchangeCompleted,
		Data: map[string]interface{}{
			"session_id":      sessionId,
			"user_id":         userId,
			"session_created": sessionCreated,
			"occurred_at":     at.Format(time.RFC3339Nano),
		},
		OccurredAt: at,
	}
}

func NewChatSessionDeleted(sessionId, userId uint, at time.Time) BaseEvent {
	return BaseEvent{
		Type: TypeChatSessionDeleted,
		Data: map[string]interface{}{
			"session_id":  sessionId,
			"user_id":     userId,
			"occurred_at": at.Format(time.RFC3339Nano),
		},
		OccurredAt: at,
	}
}
