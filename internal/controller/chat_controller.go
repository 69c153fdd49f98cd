package controller

import (
	"strconv"

	"ai-chat-be/internal/dto"
	"ai-chat-be/internal/pkg/apperror"
	"ai-chat-be/internal/pkg/serverutils"
	"ai-chat-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router, askMiddleware ...fiber.Handler)
	Ask(ctx *fiber.Ctx) error
	ListSessions(ctx *fiber.Ctx) error
	CreateSession(ctx *fiber.Ctx) error
	GetSessionDetail(ctx *fiber.Ctx) error
	DeleteSession(ctx *fiber.Ctx) error
	SendTranscript(ctx *fiber.Ctx) error
}

type chatController struct {
	conversationService service.IConversationService
	historyService      service.IHistoryService
	sessionService      service.ISessionService
	enforceOwner        bool
}

func NewChatController(
	conversationService service.IConversationService,
	historyService service.IHistoryService,
	sessionService service.ISessionService,
	enforceOwner bool,
) IChatController {
	return &chatController{
		conversationService: conversationService,
		historyService:      historyService,
		sessionService:      sessionService,
		enforceOwner:        enforceOwner,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router, askMiddleware ...fiber.Handler) {
	r.Post("/ask", append(askMiddleware, c.Ask)...)

	h := r.Group("/chat_history")
	h.Get("", c.ListSessions)
	h.Post("", c.CreateSession)
	h.Get("/:session_id", c.GetSessionDetail)
	h.Delete("/:session_id", c.DeleteSession)
	h.Post("/:session_id/email", c.SendTranscript)
}

// Ask, ListSessions and GetSessionDetail answer with the bare payload, which
// is the shape existing chat clients read.
func (c *chatController) Ask(ctx *fiber.Ctx) error {
	var req dto.AskRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.conversationService.Ask(ctx.UserContext(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}

func (c *chatController) ListSessions(ctx *fiber.Ctx) error {
	email, err := requiredQuery(ctx, "email")
	if err != nil {
		return err
	}

	res, err := c.historyService.ListSessions(ctx.UserContext(), email)
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}

func (c *chatController) CreateSession(ctx *fiber.Ctx) error {
	var req dto.CreateSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.sessionService.CreateSession(ctx.UserContext(), &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(res)
}

func (c *chatController) GetSessionDetail(ctx *fiber.Ctx) error {
	sessionId, err := sessionIdParam(ctx)
	if err != nil {
		return err
	}

	email := ctx.Query("email")
	if c.enforceOwner && email == "" {
		return apperror.Validation(apperror.FieldError{Field: "email", Message: "field is required"})
	}

	res, err := c.historyService.GetSessionDetail(ctx.UserContext(), sessionId, email)
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}

func (c *chatController) DeleteSession(ctx *fiber.Ctx) error {
	sessionId, err := sessionIdParam(ctx)
	if err != nil {
		return err
	}
	email, err := requiredQuery(ctx, "email")
	if err != nil {
		return err
	}

	req := dto.DeleteSessionRequest{UserEmail: email, SessionId: sessionId}
	if err := c.sessionService.DeleteSession(ctx.UserContext(), &req); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Session deleted", nil))
}

func (c *chatController) SendTranscript(ctx *fiber.Ctx) error {
	sessionId, err := sessionIdParam(ctx)
	if err != nil {
		return err
	}
	email, err := requiredQuery(ctx, "email")
	if err != nil {
		return err
	}

	req := dto.SendTranscriptRequest{UserEmail: email, SessionId: sessionId}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.sessionService.RequestTranscript(ctx.UserContext(), &req)
	if err != nil {
		return err
	}

	resp := serverutils.SuccessResponse("Transcript queued", res)
	resp.Code = fiber.StatusAccepted
	return ctx.Status(fiber.StatusAccepted).JSON(resp)
}

func sessionIdParam(ctx *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(ctx.Params("session_id"), 10, 0)
	if err != nil {
		return 0, apperror.Validation(apperror.FieldError{Field: "session_id", Message: "must be a positive integer"})
	}
	return uint(id), nil
}

func requiredQuery(ctx *fiber.Ctx, key string) (string, error) {
	v := ctx.Query(key)
	if v == "" {
		return "", apperror.Validation(apperror.FieldError{Field: key, Message: "field is required"})
	}
	return v, nil
}
