package service

import (
	"context"
	"time"

	"ai-chat-be/internal/constant"
	"ai-chat-be/internal/dto"
	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/pkg/apperror"
	"ai-chat-be/internal/pkg/logger"
	"ai-chat-be/internal/repository/memory"
	"ai-chat-be/internal/repository/unitofwork"
	"ai-chat-be/pkg/events"
	"ai-chat-be/pkg/llm"
)

type IConversationService interface {
	Ask(ctx context.Context, request *dto.AskRequest) (*dto.AskResponse, error)
}

type ConversationOptions struct {
	DefaultSystemPrompt string
	// KeepSessionOnFailure leaves an auto-created session in place when the
	// exchange fails afterwards. When false the session is removed again.
	KeepSessionOnFailure bool
	Clock                Clock
}

type conversationService struct {
	uowFactory unitofwork.RepositoryFactory
	completer  llm.Completer
	userCache  *memory.UserCache
	publisher  events.Publisher
	logger     logger.ILogger
	opts       ConversationOptions
	now        Clock
}

func NewConversationService(
	uowFactory unitofwork.RepositoryFactory,
	completer llm.Completer,
	userCache *memory.UserCache,
	publisher events.Publisher,
	logger logger.ILogger,
	opts ConversationOptions,
) IConversationService {
	if opts.DefaultSystemPrompt == "" {
		opts.DefaultSystemPrompt = constant.DefaultSystemPrompt
	}
	return &conversationService{
		uowFactory: uowFactory,
		completer:  completer,
		userCache:  userCache,
		publisher:  publisher,
		logger:     logger,
		opts:       opts,
		now:        clockOrDefault(opts.Clock),
	}
}

// Ask records one user message and the assistant's reply in a session.
// The two messages are written in one transaction after the completion
// returns, so a failed exchange never leaves a partial pair behind.
func (s *conversationService) Ask(ctx context.Context, request *dto.AskRequest) (*dto.AskResponse, error) {
	if request.Message == "" {
		return nil, apperror.Validation(apperror.FieldError{Field: "message", Message: "field is required"})
	}
	systemPrompt := request.SystemPrompt
	if systemPrompt == "" {
		systemPrompt = s.opts.DefaultSystemPrompt
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := findUserByEmail(ctx, uow, s.userCache, request.UserEmail)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.UserNotFound()
	}

	session, created, err := s.resolveSession(ctx, uow, user, request)
	if err != nil {
		return nil, err
	}

	userMessage := &entity.ChatMessage{
		ChatSessionId: session.Id,
		Role:          entity.ChatRoleUser,
		Content:       request.Message,
		CreatedAt:     s.now(),
	}

	reply, err := s.completer.Complete(ctx, request.Message, systemPrompt)
	if err != nil {
		s.logger.Error(constant.ModuleConversation, "Completion failed", map[string]interface{}{
			"session_id": session.Id,
			"error":      err,
		})
		s.discardSession(session, created)
		return nil, apperror.Provider(err)
	}

	assistantMessage := &entity.ChatMessage{
		ChatSessionId: session.Id,
		Role:          entity.ChatRoleAssistant,
		Content:       reply,
		CreatedAt:     s.after(userMessage.CreatedAt),
	}

	if err := s.saveExchange(ctx, uow, userMessage, assistantMessage); err != nil {
		s.logger.Error(constant.ModuleConversation, "Failed to save exchange", map[string]interface{}{
			"session_id": session.Id,
			"error":      err,
		})
		s.discardSession(session, created)
		return nil, apperror.Persistence(err)
	}

	s.publish(ctx, events.NewChatExchangeCompleted(session.Id, user.Id, created, assistantMessage.CreatedAt))

	return &dto.AskResponse{
		Response:  reply,
		SessionId: session.Id,
	}, nil
}

// resolveSession loads the caller's session, or creates and commits a new
// one when no id was given. A zero id counts as no id.
func (s *conversationService) resolveSession(ctx context.Context, uow unitofwork.UnitOfWork, user *entity.User, request *dto.AskRequest) (*entity.ChatSession, bool, error) {
	if request.SessionId != nil && *request.SessionId != 0 {
		session, err := findOwnedSession(ctx, uow, *request.SessionId, user.Id)
		return session, false, err
	}

	session := &entity.ChatSession{
		UserId:    user.Id,
		Title:     BuildSessionTitle(request.Message),
		CreatedAt: s.now(),
	}
	if err := uow.ChatSessionRepository().Create(ctx, session); err != nil {
		return nil, false, apperror.Persistence(err)
	}

	s.logger.Info(constant.ModuleConversation, "Session created", map[string]interface{}{
		"session_id": session.Id,
		"user_id":    user.Id,
	})
	s.publish(ctx, events.NewChatSessionCreated(session.Id, user.Id, session.Title, session.CreatedAt))

	return session, true, nil
}

func (s *conversationService) saveExchange(ctx context.Context, uow unitofwork.UnitOfWork, messages ...*entity.ChatMessage) error {
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.ChatMessageRepository().CreateBulk(ctx, messages); err != nil {
		return err
	}

	return uow.Commit()
}

// discardSession removes a session created by this request when the
// exchange could not be completed, unless sessions are kept on failure.
// It runs on a fresh context so a cancelled request still cleans up.
func (s *conversationService) discardSession(session *entity.ChatSession, created bool) {
	if !created || s.opts.KeepSessionOnFailure {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.ChatSessionRepository().Delete(ctx, session.Id); err != nil {
		s.logger.Error(constant.ModuleConversation, "Failed to discard session", map[string]interface{}{
			"session_id": session.Id,
			"error":      err,
		})
	}
}

// after returns a clock reading strictly later than t.
func (s *conversationService) after(t time.Time) time.Time {
	now := s.now()
	if !now.After(t) {
		now = t.Add(time.Microsecond)
	}
	return now
}

func (s *conversationService) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn(constant.ModuleConversation, "Failed to publish event", map[string]interface{}{
			"event": event.EventType(),
			"error": err.Error(),
		})
	}
}
