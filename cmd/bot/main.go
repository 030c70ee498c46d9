package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"chatBot/internal/app/runtime"
	"chatBot/internal/infrastructure/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	run, err := runtime.Start(ctx, cfg)
	if err != nil {
		log.Fatalf("error iniciando el bot: %v", err)
	}

	<-ctx.Done()
	log.Println("Deteniendo bot...")
	if err := run.Stop(); err != nil {
		log.Printf("error deteniendo el bot: %v", err)
	}
}
