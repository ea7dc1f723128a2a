package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aliounendiaye221/J-ngatub-sub000/config"
	"github.com/aliounendiaye221/J-ngatub-sub000/internal/database"
	"github.com/aliounendiaye221/J-ngatub-sub000/internal/pkg/ai"
	"github.com/aliounendiaye221/J-ngatub-sub000/internal/pkg/oss"
	"github.com/aliounendiaye221/J-ngatub-sub000/internal/pkg/pubsub"
	"github.com/aliounendiaye221/J-ngatub-sub000/internal/pkg/queue"
	"github.com/aliounendiaye221/J-ngatub-sub000/internal/repository"
	"github.com/aliounendiaye221/J-ngatub-sub000/internal/worker"
)

func main() {
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.NewMySQL(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}
	log.Println("Database connected")

	rdb, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect redis: %v", err)
	}
	log.Println("Redis connected")

	ossClient, err := oss.NewClient(&cfg.OSS)
	if err != nil {
		log.Fatalf("Failed to init OSS client: %v", err)
	}
	log.Println("OSS client initialized")

	jobQueue := queue.NewQueue(rdb, cfg.Queue.QuizQueue)
	publisher := pubsub.NewPublisher(rdb)

	processor := worker.NewProcessor(
		repository.NewQuizRepository(db),
		repository.NewDocumentRepository(db),
		ai.NewClient(&cfg.AI),
		ossClient,
		publisher,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Println("Received shutdown signal")
		cancel()
	}()

	log.Printf("Worker started, max workers: %d", cfg.Queue.MaxWorkers)

	for i := 0; i < cfg.Queue.MaxWorkers; i++ {
		go func(workerID int) {
			for {
				select {
				case <-ctx.Done():
					log.Printf("Worker %d shutting down", workerID)
					return
				default:
					msg, err := jobQueue.Pop(ctx, 5*time.Second)
					if err != nil {
						if ctx.Err() != nil {
							return
						}
						log.Printf("Worker %d: failed to pop job: %v", workerID, err)
						continue
					}

					if msg == nil {
						continue
					}

					log.Printf("Worker %d: processing quiz %d", workerID, msg.QuizID)
					if err := processor.Process(ctx, msg); err != nil {
						log.Printf("Worker %d: quiz %d failed: %v", workerID, msg.QuizID, err)
					}
				}
			}
		}(i)
	}

	<-ctx.Done()
	log.Println("Worker shutdown complete")
}
