package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	apiconfig "github.com/voteagora/near-merkle-claim/internal/app/api/config"
	apiserver "github.com/voteagora/near-merkle-claim/internal/app/api/server"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := apiconfig.Load(ctx)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	srv, err := apiserver.New(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to initialize api server: %v", err)
	}
	defer srv.Close()

	log.Printf("claim api listening on %s", cfg.Port)
	if err := srv.Run(ctx); err != nil {
		log.Fatalf("api server stopped: %v", err)
	}
}
