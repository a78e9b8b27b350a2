package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"ragdocai/internal/ai"
	appsvc "ragdocai/internal/app"
	"ragdocai/internal/bootstrap"
	"ragdocai/internal/cache"
	"ragdocai/internal/ledger"
	"ragdocai/internal/platform/rabbitmq"
	"ragdocai/internal/repository"
	"ragdocai/internal/transport/http/handler"
	"ragdocai/internal/transport/http/middleware"
	"ragdocai/internal/tts"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/healthz", healthHandler.Check)

	userRepo := repository.NewUserRepository(app.MySQL)
	docRepo := repository.NewDocumentRepository(app.MySQL)
	qaPairRepo := repository.NewQAPairRepository(app.MySQL)

	authService := appsvc.NewAuthService(
		userRepo,
		app.Config.Auth.JWTSecret,
		time.Duration(app.Config.Auth.JWTExpireMinute)*time.Minute,
	)

	llmClient := ai.NewOpenAICompatibleClient()
	chatCfg := ai.ChatConfig{
		BaseURL: app.Config.LLM.BaseURL,
		APIKey:  app.Config.LLM.APIKey,
		Model:   app.Config.LLM.Model,
	}
	embCfg := ai.EmbeddingConfig{
		BaseURL: app.Config.LLM.BaseURL,
		APIKey:  app.Config.LLM.APIKey,
		Model:   app.Config.LLM.EmbeddingModel,
	}
	callTimeout := time.Duration(app.Config.LLM.RequestTimeoutSec) * time.Second

	docService := appsvc.NewDocumentService(llmClient, embCfg, docRepo, appsvc.DocumentServiceConfig{
		UploadDir:    app.Config.Storage.UploadDir,
		IndexDir:     app.Config.Storage.IndexDir,
		Collection:   app.Config.Storage.Collection,
		ChunkSize:    app.Config.RAG.ChunkSize,
		ChunkOverlap: app.Config.RAG.ChunkOverlap,
	})

	qaLedger := ledger.New(app.Config.Storage.HistoryDir)
	historyCache := cache.NewHistoryCache(app.Redis, time.Duration(app.Config.Redis.HistoryTTLSeconds)*time.Second)
	qaPublisher := rabbitmq.NewQAPublisher(app.MQConn, app.Config.RabbitMQ.QAPersistQueue)

	ragService := appsvc.NewRAGService(
		docService,
		llmClient,
		embCfg,
		chatCfg,
		qaLedger,
		qaPublisher,
		historyCache,
		qaPairRepo,
		app.Config.RAG.TopK,
		callTimeout,
	)

	ttsClient := tts.NewClient(app.Config.TTS.BaseURL, time.Duration(app.Config.TTS.RequestTimeoutSec)*time.Second)
	narrationService := appsvc.NewNarrationService(
		docService,
		llmClient,
		chatCfg,
		ttsClient,
		app.Config.Storage.UploadDir,
		app.Config.TTS.DefaultLang,
		callTimeout,
		time.Duration(app.Config.TTS.RequestTimeoutSec)*time.Second,
	)

	authHandler := handler.NewAuthHandler(authService)
	docHandler := handler.NewDocumentHandler(docService)
	qaHandler := handler.NewQAHandler(ragService)
	narrationHandler := handler.NewNarrationHandler(narrationService)

	v1 := router.Group("/api/v1")
	authGroup := v1.Group("/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.GET("/me", middleware.AuthJWT(app.Config.Auth.JWTSecret), authHandler.Me)

	docGroup := v1.Group("/documents")
	docGroup.Use(middleware.AuthJWT(app.Config.Auth.JWTSecret))
	docGroup.POST("", docHandler.Upload)
	docGroup.GET("", docHandler.List)
	docGroup.GET("/active", docHandler.Active)

	qaGroup := v1.Group("/qa")
	qaGroup.Use(middleware.AuthJWT(app.Config.Auth.JWTSecret))
	qaGroup.POST("/answer", qaHandler.Ask)
	qaGroup.GET("/history", qaHandler.History)

	ttsGroup := v1.Group("/tts")
	ttsGroup.GET("/langs", narrationHandler.Langs)
	ttsGroup.POST("/audiobook", middleware.AuthJWT(app.Config.Auth.JWTSecret), narrationHandler.Narrate)

	return router
}
