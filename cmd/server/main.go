package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bankcore/internal/config"
	"bankcore/internal/handler"
	"bankcore/internal/infrastructure/cache"
	"bankcore/internal/infrastructure/database"
	"bankcore/internal/infrastructure/lock"
	"bankcore/internal/infrastructure/mq"
	"bankcore/internal/infrastructure/session"
	"bankcore/internal/job"
	"bankcore/internal/repository"
)

func main() {
	cfg := config.LoadConfig("config/config.yaml")

	db := database.InitMySQL(&cfg.MySQL)
	redisClient := cache.InitRedis(&cfg.Redis)

	mq.InitKafka(&cfg.Kafka)
	defer mq.CloseKafka()

	store := repository.NewGormStore(db)
	sessions := session.NewStore(redisClient, time.Duration(cfg.Session.TTLMinutes)*time.Minute)
	locks := lock.NewManager(redisClient)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	outboxSender := job.NewOutboxSender(store, cfg.Business.MaxRetryCount)
	go outboxSender.Start(ctx)

	outboxRetry := job.NewOutboxRetryJob(store)
	go outboxRetry.Start(ctx)

	router := handler.SetupRouter(store, sessions, locks, cfg)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Printf("listening on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("serve: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}

	log.Println("server stopped")
}
