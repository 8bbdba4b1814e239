package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"

	"github.com/deekshith1818/MULTI-PDF-RAG/internal/config"
	"github.com/deekshith1818/MULTI-PDF-RAG/pkg/events"
	"github.com/deekshith1818/MULTI-PDF-RAG/pkg/nats"
)

// Tails ingest progress events mirrored onto NATS. Useful when the
// server runs elsewhere and you want pipeline visibility without a
// WebSocket client.
func main() {
	cfg := config.Load()
	if cfg.App.NatsURL == "" {
		log.Fatal("NATS_URL is not set; the server only mirrors events when it is")
	}

	sub, err := nats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Fatalf("NATS connection failed: %v", err)
	}
	defer sub.Close()

	// The publisher mirrors every event under events.<type>.
	err = sub.Subscribe("events.INGEST_PROGRESS", "progress-tail", func(_ context.Context, event events.Event) error {
		printProgress(event.Payload())
		return nil
	})
	if err != nil {
		log.Fatalf("Subscribe failed: %v", err)
	}

	color.Cyan("Tailing ingest progress (Ctrl-C to stop)...")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
}

func printProgress(payload map[string]interface{}) {
	session, _ := payload["session_id"].(string)
	stage, _ := payload["stage"].(string)
	document, _ := payload["document"].(string)
	detail, _ := payload["detail"].(string)

	line := fmt.Sprintf("[%s] %-10s %s", shortID(session), stage, document)
	if detail != "" {
		line += " (" + detail + ")"
	}

	switch stage {
	case events.StageIndexed, events.StageCacheHit:
		color.Green("%s", line)
	case events.StageFailed:
		color.Red("%s", line)
	default:
		color.Yellow("%s", line)
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
