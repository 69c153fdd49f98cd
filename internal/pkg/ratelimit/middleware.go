package ratelimit

import (
	"context"

	"ai-chat-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
)

type Limiter interface {
	Allow(ctx context.Context, key string) bool
}

// KeyFunc derives the bucket key for a request.
type KeyFunc func(ctx *fiber.Ctx) string

// Middleware rejects requests over quota with 429. A nil limiter lets everything through.
func Middleware(limiter Limiter, keyFunc KeyFunc) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if limiter == nil {
			return ctx.Next()
		}
		if !limiter.Allow(ctx.UserContext(), keyFunc(ctx)) {
			return ctx.Status(fiber.StatusTooManyRequests).
				JSON(serverutils.ErrorResponse(fiber.StatusTooManyRequests, "Too many requests, slow down"))
		}
		return ctx.Next()
	}
}

// UserEmailAndIP keys on the "user_email" field of a JSON body plus the client IP.
func UserEmailAndIP(ctx *fiber.Ctx) string {
	var body struct {
		UserEmail string `json:"user_email"`
	}
	// Body stays readable for the handler; fiber buffers it.
	_ = ctx.BodyParser(&body)
	return body.UserEmail + "|" + ctx.IP()
}
