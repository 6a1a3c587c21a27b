package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/uma-arai/sbcntr-eventwave/internal/config"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("eventwave: ")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	a, err := newApp(cfg, os.Stdout, os.Stderr)
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}

	// シグナルを受けたら実行中のリクエストをキャンセルする
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := a.run(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}
