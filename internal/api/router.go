package api

import (
	"github.com/gin-gonic/gin"

	"github.com/aliounendiaye221/J-ngatub-sub000/config"
	"github.com/aliounendiaye221/J-ngatub-sub000/internal/api/handler"
	"github.com/aliounendiaye221/J-ngatub-sub000/internal/api/middleware"
	"github.com/aliounendiaye221/J-ngatub-sub000/internal/model"
	"github.com/aliounendiaye221/J-ngatub-sub000/internal/service"
)

type Router struct {
	authHandler      *handler.AuthHandler
	userHandler      *handler.UserHandler
	billingHandler   *handler.BillingHandler
	webhookHandler   *handler.WebhookHandler
	documentHandler  *handler.DocumentHandler
	quizHandler      *handler.QuizHandler
	websocketHandler *handler.WebSocketHandler
	authService      *service.AuthService
	premiumService   *service.PremiumService
	cfg              *config.Config
}

func NewRouter(
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	billingHandler *handler.BillingHandler,
	webhookHandler *handler.WebhookHandler,
	documentHandler *handler.DocumentHandler,
	quizHandler *handler.QuizHandler,
	websocketHandler *handler.WebSocketHandler,
	authService *service.AuthService,
	premiumService *service.PremiumService,
	cfg *config.Config,
) *Router {
	return &Router{
		authHandler:      authHandler,
		userHandler:      userHandler,
		billingHandler:   billingHandler,
		webhookHandler:   webhookHandler,
		documentHandler:  documentHandler,
		quizHandler:      quizHandler,
		websocketHandler: websocketHandler,
		authService:      authService,
		premiumService:   premiumService,
		cfg:              cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	if r.cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.CORS(r.cfg.CORS))

	api := engine.Group("/api/v1")
	{
		// WebSocket
		api.GET("/ws", r.websocketHandler.Handle)

		// Webhooks are signed by the provider, never by user tokens.
		api.POST("/webhooks/wave", r.webhookHandler.HandleWave)

		auth := api.Group("/auth")
		{
			auth.POST("/register", r.authHandler.Register)
			auth.POST("/login", r.authHandler.Login)
			auth.POST("/verify-email", r.authHandler.VerifyEmail)
			auth.GET("/google", r.authHandler.GoogleAuth)
			auth.GET("/google/callback", r.authHandler.GoogleCallback)
		}

		// Public catalogue, richer for authenticated subscribers.
		documents := api.Group("/documents")
		documents.Use(middleware.OptionalAuth(r.cfg.JWT.Secret))
		{
			documents.GET("", r.documentHandler.List)
		}

		authenticated := api.Group("")
		authenticated.Use(middleware.Auth(r.cfg.JWT.Secret))
		{
			user := authenticated.Group("/users/me")
			{
				user.GET("", r.userHandler.GetProfile)
				user.PUT("", r.userHandler.UpdateProfile)
				user.POST("/avatar", r.userHandler.UploadAvatar)
			}

			billing := authenticated.Group("/billing")
			{
				billing.POST("/checkout", r.billingHandler.CreateCheckout)
				billing.GET("/checkout/:txRef/status", r.billingHandler.CheckStatus)
				billing.GET("/premium", r.billingHandler.GetPremiumStatus)
				billing.GET("/subscriptions", r.billingHandler.ListSubscriptions)
			}

			docsAuth := authenticated.Group("/documents")
			{
				docsAuth.GET("/:id", r.documentHandler.GetByID)
				docsAuth.GET("/:id/download", r.documentHandler.Download)
				docsAuth.DELETE("/:id", r.documentHandler.Delete)
			}

			// Uploading exam documents is for teachers and admins.
			docsUpload := authenticated.Group("/documents")
			docsUpload.Use(middleware.RequireRole(r.authService, model.RoleTeacher, model.RoleAdmin))
			{
				docsUpload.POST("", r.documentHandler.Create)
			}

			// Quiz generation is a premium feature.
			quizzes := authenticated.Group("/quizzes")
			quizzes.Use(middleware.RequirePremium(r.premiumService))
			{
				quizzes.POST("", r.quizHandler.Create)
				quizzes.GET("", r.quizHandler.List)
				quizzes.GET("/:id", r.quizHandler.GetByID)
				quizzes.DELETE("/:id", r.quizHandler.Delete)
			}
		}
	}

	return engine
}
