package main

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/vivekkumar9751/smart-doc-assistant/config"
	"github.com/vivekkumar9751/smart-doc-assistant/controllers"
	"github.com/vivekkumar9751/smart-doc-assistant/routes"
	"github.com/vivekkumar9751/smart-doc-assistant/services"
	"github.com/vivekkumar9751/smart-doc-assistant/store"
)

func main() {
	// A .env file is optional; deployments usually set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig("./config/config.yml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	transport, err := buildTransport(cfg)
	if err != nil {
		logger.Fatal("failed to initialize completion transport", zap.Error(err))
	}

	llm := services.NewResilientClient(
		transport,
		cfg.Model(),
		cfg.LLM.RetryCount,
		time.Duration(cfg.LLM.BaseBackoffSeconds*float64(time.Second)),
		logger,
	)
	assistant := services.NewAssistant(llm, logger)
	docs := store.NewDocumentStore()

	dc := controllers.NewDocumentController(assistant, docs, logger, cfg.Upload.MaxBytes, transport.Name(), cfg.Model())

	router := setupRouter(cfg, dc)
	port := strconv.Itoa(cfg.Server.Port)
	logger.Info("server starting",
		zap.String("port", port),
		zap.String("provider", transport.Name()),
		zap.String("model", cfg.Model()))

	if err := router.Run(":" + port); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}

func buildTransport(cfg *config.Config) (services.CompletionTransport, error) {
	switch cfg.LLM.Provider {
	case "gemini":
		return services.NewGeminiTransport(context.Background(), cfg.Gemini.ApiKey)
	default:
		return services.NewGroqTransport(cfg.Groq.ApiKey, cfg.Groq.BaseUrl), nil
	}
}

func setupRouter(cfg *config.Config, dc *controllers.DocumentController) *gin.Engine {
	router := gin.Default()
	router.SetTrustedProxies([]string{"127.0.0.1", "localhost"})

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.Cors.AllowedOrigin},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	routes.SetupDocumentRoutes(router, dc)
	return router
}
