package service

import (
	"context"
	"encoding/json"

	"ai-chat-be/internal/constant"
	"ai-chat-be/internal/dto"
	"ai-chat-be/internal/pkg/logger"
	"ai-chat-be/internal/pkg/mailer"
	"ai-chat-be/internal/repository/specification"
	"ai-chat-be/internal/repository/unitofwork"

	"github.com/ThreeDotsLabs/watermill/message"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService delivers queued transcript emails.
type consumerService struct {
	subscriber   message.Subscriber
	topicName    string
	uowFactory   unitofwork.RepositoryFactory
	emailService mailer.IEmailService
	logger       logger.ILogger
}

func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	emailService mailer.IEmailService,
	logger logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber:   subscriber,
		topicName:    topicName,
		uowFactory:   uowFactory,
		emailService: emailService,
		logger:       logger,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

// processMessage always acks: a transcript that cannot be built or sent is
// logged and dropped rather than retried forever.
func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	defer msg.Ack()

	var payload dto.PublishTranscriptMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error(constant.ModuleTranscript, "Invalid transcript job", map[string]interface{}{
			"job_id": msg.UUID,
			"error":  err,
		})
		return
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: payload.SessionId})
	if err != nil {
		cs.logger.Error(constant.ModuleTranscript, "Failed to load session", map[string]interface{}{
			"job_id":     msg.UUID,
			"session_id": payload.SessionId,
			"error":      err,
		})
		return
	}
	if session == nil {
		cs.logger.Warn(constant.ModuleTranscript, "Session gone before transcript was sent", map[string]interface{}{
			"job_id":     msg.UUID,
			"session_id": payload.SessionId,
		})
		return
	}

	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: session.Id},
		specification.Chronological(),
	)
	if err != nil {
		cs.logger.Error(constant.ModuleTranscript, "Failed to load messages", map[string]interface{}{
			"job_id":     msg.UUID,
			"session_id": session.Id,
			"error":      err,
		})
		return
	}

	transcript := mailer.Transcript{
		SessionId: session.Id,
		Title:     session.Title,
		Lines:     make([]mailer.TranscriptLine, 0, len(messages)),
	}
	for _, m := range messages {
		transcript.Lines = append(transcript.Lines, mailer.TranscriptLine{
			Role:      string(m.Role),
			Content:   m.Content,
			CreatedAt: m.CreatedAt,
		})
	}

	if err := cs.emailService.SendTranscript(payload.ToEmail, transcript); err != nil {
		cs.logger.Error(constant.ModuleTranscript, "Failed to send transcript", map[string]interface{}{
			"job_id":     msg.UUID,
			"session_id": session.Id,
			"error":      err,
		})
		return
	}

	cs.logger.Info(constant.ModuleTranscript, "Transcript sent", map[string]interface{}{
		"job_id":     msg.UUID,
		"session_id": session.Id,
		"messages":   len(messages),
	})
}
