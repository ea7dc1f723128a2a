package main

import (
	"context"
	"fmt"
	"log"

	"github.com/aliounendiaye221/J-ngatub-sub000/config"
	"github.com/aliounendiaye221/J-ngatub-sub000/internal/api"
	"github.com/aliounendiaye221/J-ngatub-sub000/internal/api/handler"
	"github.com/aliounendiaye221/J-ngatub-sub000/internal/database"
	"github.com/aliounendiaye221/J-ngatub-sub000/internal/pkg/email"
	"github.com/aliounendiaye221/J-ngatub-sub000/internal/pkg/oauth"
	"github.com/aliounendiaye221/J-ngatub-sub000/internal/pkg/oss"
	"github.com/aliounendiaye221/J-ngatub-sub000/internal/pkg/pubsub"
	"github.com/aliounendiaye221/J-ngatub-sub000/internal/pkg/queue"
	"github.com/aliounendiaye221/J-ngatub-sub000/internal/pkg/wave"
	"github.com/aliounendiaye221/J-ngatub-sub000/internal/pkg/ws"
	"github.com/aliounendiaye221/J-ngatub-sub000/internal/repository"
	"github.com/aliounendiaye221/J-ngatub-sub000/internal/service"
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
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database connected")

	rdb, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect redis: %v", err)
	}
	log.Println("Redis connected")

	var ossClient *oss.Client
	if cfg.OSS.Endpoint != "" && cfg.OSS.AccessKeyID != "" {
		ossClient, err = oss.NewClient(&cfg.OSS)
		if err != nil {
			log.Fatalf("Failed to init OSS client: %v", err)
		}
		log.Println("OSS client initialized")
	}

	jobQueue := queue.NewQueue(rdb, cfg.Queue.QuizQueue)
	wsHub := ws.NewHub()

	userRepo := repository.NewUserRepository(db)
	subRepo := repository.NewSubscriptionRepository(db)
	docRepo := repository.NewDocumentRepository(db)
	quizRepo := repository.NewQuizRepository(db)
	webhookRepo := repository.NewWebhookEventRepository(db)

	emailSvc := email.NewService(&cfg.Email)
	waveClient := wave.NewClient(&cfg.Wave)

	authService := service.NewAuthService(userRepo, emailSvc, cfg)
	premiumService := service.NewPremiumService(subRepo, userRepo)
	userService := service.NewUserService(userRepo, premiumService, ossClient)
	billingService := service.NewBillingService(subRepo, userRepo, waveClient, emailSvc, cfg)
	documentService := service.NewDocumentService(docRepo, premiumService, ossClient)
	quizService := service.NewQuizService(quizRepo, docRepo, premiumService, jobQueue)

	authHandler := handler.NewAuthHandler(authService, oauth.NewStateStore(rdb))
	userHandler := handler.NewUserHandler(userService)
	billingHandler := handler.NewBillingHandler(billingService, premiumService)
	webhookHandler := handler.NewWebhookHandler(billingService, webhookRepo, cfg.Wave.WebhookSecret)
	documentHandler := handler.NewDocumentHandler(documentService, authService)
	quizHandler := handler.NewQuizHandler(quizService)
	websocketHandler := handler.NewWebSocketHandler(wsHub, cfg.JWT.Secret)

	// Relay worker progress events to the owner's websocket connections.
	subscriber := pubsub.NewSubscriber(rdb)
	go func() {
		err := subscriber.Subscribe(context.Background(), func(msg *pubsub.ProgressMessage) {
			if err := wsHub.SendToUser(msg.UserID, &ws.Message{
				Type: msg.Type,
				Data: msg,
			}); err != nil {
				log.Printf("relay progress to user %d failed: %v", msg.UserID, err)
			}
		})
		if err != nil {
			log.Printf("pubsub subscription ended: %v", err)
		}
	}()

	router := api.NewRouter(
		authHandler,
		userHandler,
		billingHandler,
		webhookHandler,
		documentHandler,
		quizHandler,
		websocketHandler,
		authService,
		premiumService,
		cfg,
	)
	engine := router.Setup()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Server starting on %s", addr)
	if err := engine.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
