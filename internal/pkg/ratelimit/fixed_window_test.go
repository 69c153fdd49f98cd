package ratelimit

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLimiter(t *testing.T, limit int) (*FixedWindowLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	limiter, err := NewRedisFixedWindowLimiter("redis://"+mr.Addr(), "test:ratelimit", limit, time.Minute)
	require.NoError(t, err)
	t.Cleanup(func() { _ = limiter.Close() })
	return limiter, mr
}

func TestFixedWindowLimiter(t *testing.T) {
	limiter, _ := newLimiter(t, 2)
	ctx := context.Background()

	assert.True(t, limiter.Allow(ctx, "a@x.io|1.2.3.4"))
	assert.True(t, limiter.Allow(ctx, "a@x.io|1.2.3.4"))
	assert.False(t, limiter.Allow(ctx, "a@x.io|1.2.3.4"))
	assert.True(t, limiter.Allow(ctx, "b@x.io|1.2.3.4"), "other keys keep their own quota")
}

func TestFixedWindowLimiterResetsInNextWindow(t *testing.T) {
	limiter, _ := newLimiter(t, 1)
	ctx := context.Background()

	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return base }
	assert.True(t, limiter.Allow(ctx, "k"))
	assert.False(t, limiter.Allow(ctx, "k"))

	limiter.now = func() time.Time { return base.Add(time.Minute) }
	assert.True(t, limiter.Allow(ctx, "k"))
}

func TestFixedWindowLimiterFailClosed(t *testing.T) {
	limiter, mr := newLimiter(t, 5)
	mr.Close()
	assert.False(t, limiter.Allow(context.Background(), "k"))
}

func TestNewRedisFixedWindowLimiterValidation(t *testing.T) {
	_, err := NewRedisFixedWindowLimiter("", "", 1, time.Second)
	assert.Error(t, err)

	_, err = NewRedisFixedWindowLimiter("redis://localhost:6379", "", 0, time.Second)
	assert.Error(t, err)

	_, err = NewRedisFixedWindowLimiter("::not a url::", "", 1, time.Second)
	assert.Error(t, err)
}

func TestMiddleware(t *testing.T) {
	limiter, _ := newLimiter(t, 1)

	app := fiber.New()
	app.Post("/ask", Middleware(limiter, UserEmailAndIP), func(ctx *fiber.Ctx) error {
		var body struct {
			UserEmail string `json:"user_email"`
		}
		require.NoError(t, ctx.BodyParser(&body))
		return ctx.SendString(body.UserEmail)
	})

	send := func() int {
		req := httptest.NewRequest("POST", "/ask", strings.NewReader(`{"user_email":"a@x.io","message":"hi"}`))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp.StatusCode
	}

	assert.Equal(t, 200, send())
	assert.Equal(t, 429, send())
}

func TestMiddlewareNilLimiter(t *testing.T) {
	app := fiber.New()
	app.Get("/", Middleware(nil, UserEmailAndIP), func(ctx *fiber.Ctx) error { return ctx.SendStatus(204) })

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, 204, resp.StatusCode)
}
