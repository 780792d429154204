package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	consumerconfig "github.com/voteagora/near-merkle-claim/internal/app/consumer/config"
	consumerserver "github.com/voteagora/near-merkle-claim/internal/app/consumer/server"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := consumerconfig.Load(ctx)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	srv, err := consumerserver.New(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to init consumer: %v", err)
	}
	defer srv.Close()

	log.Printf("event indexer listening on topic %s", cfg.KafkaTopic)
	if err := srv.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatalf("consumer stopped: %v", err)
	}
}
