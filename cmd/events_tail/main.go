package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"ai-chat-be/internal/config"
	"ai-chat-be/internal/pkg/logger"
	"ai-chat-be/pkg/events"
	pktNats "ai-chat-be/pkg/nats"
)

const module = "EVENTS_TAIL"

// events_tail prints chat domain events from the JetStream stream as they arrive.
func main() {
	cfg := config.Load()
	if cfg.Nats.URL == "" {
		log.Fatal("Error: NATS_URL is not set")
	}

	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	defer sysLogger.Sync()

	sub, err := pktNats.NewSubscriber(cfg.Nats.URL)
	if err != nil {
		log.Fatalf("Error: Failed to connect to NATS: %v", err)
	}
	defer sub.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	durable := getenv("EVENTS_TAIL_DURABLE", "events-tail")
	err = sub.Subscribe(ctx, pktNats.Subject("chat.>"), durable, func(_ context.Context, event events.Event) error {
		details := map[string]interface{}{
			"type":        event.EventType(),
			"occurred_at": event.Timestamp(),
		}
		for k, v := range event.Payload() {
			details[k] = v
		}
		sysLogger.Info(module, "Event received", details)
		return nil
	})
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	<-ctx.Done()
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
