package service

import (
	"context"
	"encoding/json"

	"ai-chat-be/internal/constant"
	"ai-chat-be/internal/dto"
	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/pkg/apperror"
	"ai-chat-be/internal/pkg/logger"
	"ai-chat-be/internal/repository/memory"
	"ai-chat-be/internal/repository/unitofwork"
	"ai-chat-be/pkg/events"
)

type ISessionService interface {
	CreateSession(ctx context.Context, request *dto.CreateSessionRequest) (*dto.SessionSummary, error)
	DeleteSession(ctx context.Context, request *dto.DeleteSessionRequest) error
	RequestTranscript(ctx context.Context, request *dto.SendTranscriptRequest) (*dto.SendTranscriptResponse, error)
}

type sessionService struct {
	uowFactory       unitofwork.RepositoryFactory
	userCache        *memory.UserCache
	publisherService IPublisherService
	eventPublisher   events.Publisher
	logger           logger.ILogger
	now              Clock
}

func NewSessionService(
	uowFactory unitofwork.RepositoryFactory,
	userCache *memory.UserCache,
	publisherService IPublisherService,
	eventPublisher events.Publisher,
	logger logger.ILogger,
) ISessionService {
	return &sessionService{
		uowFactory:       uowFactory,
		userCache:        userCache,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
		logger:           logger,
		now:              systemClock,
	}
}

func (s *sessionService) CreateSession(ctx context.Context, request *dto.CreateSessionRequest) (*dto.SessionSummary, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := s.requireUser(ctx, uow, request.UserEmail)
	if err != nil {
		return nil, err
	}

	title := request.Title
	if title == "" {
		title = constant.DefaultSessionTitle
	}

	session := &entity.ChatSession{
		UserId:    user.Id,
		Title:     title,
		CreatedAt: s.now(),
	}
	if err := uow.ChatSessionRepository().Create(ctx, session); err != nil {
		return nil, apperror.Persistence(err)
	}

	s.publish(ctx, events.NewChatSessionCreated(session.Id, user.Id, session.Title, session.CreatedAt))

	return &dto.SessionSummary{
		Id:        session.Id,
		Title:     session.Title,
		CreatedAt: session.CreatedAt,
	}, nil
}

func (s *sessionService) DeleteSession(ctx context.Context, request *dto.DeleteSessionRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := s.requireUser(ctx, uow, request.UserEmail)
	if err != nil {
		return err
	}

	session, err := findOwnedSession(ctx, uow, request.SessionId, user.Id)
	if err != nil {
		return err
	}

	if err := uow.ChatSessionRepository().Delete(ctx, session.Id); err != nil {
		return apperror.Persistence(err)
	}

	s.logger.Info(constant.ModuleHistory, "Session deleted", map[string]interface{}{
		"session_id": session.Id,
		"user_id":    user.Id,
	})
	s.publish(ctx, events.NewChatSessionDeleted(session.Id, user.Id, s.now()))
	return nil
}

// RequestTranscript queues an email of the session for its owner.
func (s *sessionService) RequestTranscript(ctx context.Context, request *dto.SendTranscriptRequest) (*dto.SendTranscriptResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := s.requireUser(ctx, uow, request.UserEmail)
	if err != nil {
		return nil, err
	}
	session, err := findOwnedSession(ctx, uow, request.SessionId, user.Id)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(dto.PublishTranscriptMessage{
		SessionId: session.Id,
		ToEmail:   user.Email,
	})
	if err != nil {
		return nil, err
	}

	jobId, err := s.publisherService.Publish(ctx, payload)
	if err != nil {
		return nil, apperror.Persistence(err)
	}

	s.logger.Info(constant.ModuleTranscript, "Transcript queued", map[string]interface{}{
		"job_id":     jobId,
		"session_id": session.Id,
	})
	return &dto.SendTranscriptResponse{JobId: jobId}, nil
}

func (s *sessionService) requireUser(ctx context.Context, uow unitofwork.UnitOfWork, email string) (*entity.User, error) {
	user, err := findUserByEmail(ctx, uow, s.userCache, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.UserNotFound()
	}
	return user, nil
}

func (s *sessionService) publish(ctx context.Context, event events.Event) {
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		s.logger.Warn(constant.ModuleHistory, "Failed to publish event", map[string]interface{}{
			"event": event.EventType(),
			"error": err.Error(),
		})
	}
}
