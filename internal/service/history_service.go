package service

import (
	"context"
	"fmt"

	"ai-chat-be/internal/constant"
	"ai-chat-be/internal/dto"
	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/pkg/apperror"
	"ai-chat-be/internal/pkg/logger"
	"ai-chat-be/internal/repository/memory"
	"ai-chat-be/internal/repository/specification"
	"ai-chat-be/internal/repository/unitofwork"
)

type IHistoryService interface {
	ListSessions(ctx context.Context, email string) (*dto.ChatHistoryResponse, error)
	// GetSessionDetail restricts the lookup to ownerEmail's sessions when it is non-empty.
	GetSessionDetail(ctx context.Context, sessionId uint, ownerEmail string) (*dto.SessionDetailResponse, error)
}

type historyService struct {
	uowFactory unitofwork.RepositoryFactory
	userCache  *memory.UserCache
	logger     logger.ILogger
}

func NewHistoryService(uowFactory unitofwork.RepositoryFactory, userCache *memory.UserCache, logger logger.ILogger) IHistoryService {
	return &historyService{
		uowFactory: uowFactory,
		userCache:  userCache,
		logger:     logger,
	}
}

func (s *historyService) ListSessions(ctx context.Context, email string) (*dto.ChatHistoryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	res := &dto.ChatHistoryResponse{History: make([]*dto.SessionSummary, 0)}

	user, err := findUserByEmail(ctx, uow, s.userCache, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return res, nil
	}

	sessions, err := uow.ChatSessionRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: user.Id},
		specification.NewestFirst(),
	)
	if err != nil {
		return nil, apperror.Persistence(err)
	}

	for _, session := range sessions {
		summary, err := summarizeSession(session)
		if err != nil {
			s.logger.Warn(constant.ModuleHistory, "Skipping session", map[string]interface{}{
				"session_id": sessionIdOf(session),
				"error":      err.Error(),
			})
			continue
		}
		res.History = append(res.History, summary)
	}

	return res, nil
}

func (s *historyService) GetSessionDetail(ctx context.Context, sessionId uint, ownerEmail string) (*dto.SessionDetailResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	var (
		session *entity.ChatSession
		err     error
	)
	if ownerEmail != "" {
		user, ferr := findUserByEmail(ctx, uow, s.userCache, ownerEmail)
		if ferr != nil {
			return nil, ferr
		}
		if user == nil {
			return nil, apperror.SessionNotFound()
		}
		session, err = findOwnedSession(ctx, uow, sessionId, user.Id)
	} else {
		session, err = uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: sessionId})
		if err != nil {
			err = apperror.Persistence(err)
		} else if session == nil {
			err = apperror.SessionNotFound()
		}
	}
	if err != nil {
		return nil, err
	}

	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: session.Id},
		specification.Chronological(),
	)
	if err != nil {
		return nil, apperror.Persistence(err)
	}

	res := &dto.SessionDetailResponse{
		Id:       session.Id,
		Messages: make([]*dto.MessageItem, 0, len(messages)),
	}
	for _, m := range messages {
		res.Messages = append(res.Messages, &dto.MessageItem{
			Role:      string(m.Role),
			Content:   m.Content,
			CreatedAt: m.CreatedAt,
		})
	}

	return res, nil
}

// summarizeSession rejects rows that cannot be shown to a client.
func summarizeSession(session *entity.ChatSession) (*dto.SessionSummary, error) {
	if session == nil {
		return nil, fmt.Errorf("nil session")
	}
	if session.Id == 0 {
		return nil, fmt.Errorf("session without id")
	}
	if session.CreatedAt.IsZero() {
		return nil, fmt.Errorf("session %d has no creation time", session.Id)
	}
	return &dto.SessionSummary{
		Id:        session.Id,
		Title:     session.Title,
		CreatedAt: session.CreatedAt,
	}, nil
}

func sessionIdOf(session *entity.ChatSession) uint {
	if session == nil {
		return 0
	}
	return session.Id
}
