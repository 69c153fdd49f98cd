package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"ai-chat-be/internal/bootstrap"
	"ai-chat-be/internal/config"
	"ai-chat-be/internal/dto"
	"ai-chat-be/internal/model"
	"ai-chat-be/pkg/database"

	"github.com/fatih/color"
)

const (
	probeEmail    = "check_db@example.com"
	probePassword = "check-db-probe"
)

func main() {
	color.Cyan("Database check\n")

	cfg := config.Load()
	// The probe never needs a real completion provider or event bus.
	cfg.Ai.LLMProvider = "mock"
	cfg.Nats.URL = ""
	cfg.Redis.URL = ""

	db, err := database.Open(cfg.Database.Driver, cfg.Database.Connection)
	if err != nil {
		fail("connect", err)
	}
	pass("connect (%s)", driverName(cfg.Database.Driver))

	if err := model.AutoMigrate(db); err != nil {
		fail("migrate", err)
	}
	pass("migrate")

	container := bootstrap.NewContainer(db, cfg)
	defer container.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	user, created, err := container.UserService.GetOrCreateUser(ctx, probeEmail, probePassword)
	if err != nil {
		fail("get or create user", err)
	}
	if created {
		pass("created probe user %s (id=%d)", user.Email, user.Id)
	} else {
		pass("found probe user %s (id=%d)", user.Email, user.Id)
	}

	session, err := container.SessionService.CreateSession(ctx, &dto.CreateSessionRequest{
		UserEmail: probeEmail,
		Title:     fmt.Sprintf("check_db %s", time.Now().UTC().Format(time.RFC3339)),
	})
	if err != nil {
		fail("create session", err)
	}
	pass("created session %d", session.Id)

	history, err := container.HistoryService.ListSessions(ctx, probeEmail)
	if err != nil {
		fail("list sessions", err)
	}
	pass("listed %d session(s), newest first", len(history.History))

	// Projection problems are reported per row and do not stop the scan.
	invalid := 0
	for i, s := range history.History {
		if s.Id == 0 || s.CreatedAt.IsZero() {
			invalid++
			color.Yellow("  [WARN] session #%d has an incomplete projection: %+v", i, s)
			continue
		}
		if i > 0 && s.CreatedAt.After(history.History[i-1].CreatedAt) {
			invalid++
			color.Yellow("  [WARN] session %d is out of order", s.Id)
			continue
		}
		fmt.Printf("  %d  %-40s  %s\n", s.Id, s.Title, s.CreatedAt.Format(time.RFC3339))
	}
	if invalid > 0 {
		color.Yellow("[WARN] %d session(s) failed validation", invalid)
	}

	if err := container.SessionService.DeleteSession(ctx, &dto.DeleteSessionRequest{
		UserEmail: probeEmail,
		SessionId: session.Id,
	}); err != nil {
		fail("delete probe session", err)
	}
	pass("deleted probe session %d", session.Id)

	color.Green("\nAll checks passed")
}

func pass(format string, args ...interface{}) {
	color.Green("[PASS] "+format, args...)
}

func fail(step string, err error) {
	color.Red("[FAIL] %s: %v", step, err)
	os.Exit(1)
}

func driverName(driver string) string {
	if driver == "" {
		return database.DriverPostgres
	}
	return driver
}
