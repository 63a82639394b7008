package main

import (
	"context"
	"log"

	"github.com/BerylCAtieno/sales-opener-agent/internal/a2a"
	"github.com/BerylCAtieno/sales-opener-agent/internal/assistant"
	"github.com/BerylCAtieno/sales-opener-agent/internal/config"
	"github.com/BerylCAtieno/sales-opener-agent/internal/logging"
	"github.com/BerylCAtieno/sales-opener-agent/internal/persona"
	"github.com/BerylCAtieno/sales-opener-agent/internal/relay"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogDev)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	profile, err := loadProfile(cfg.ProfilePath)
	if err != nil {
		logger.Fatal("failed to load persona profile", zap.String("path", cfg.ProfilePath), zap.Error(err))
	}
	generator := persona.NewGeneratorFromProfile(profile,
		persona.WithSeparator(cfg.Separator),
		persona.WithLogger(logger.Named("persona")))

	// Chat relay is optional; without a key /chat answers 503.
	var chatRelay *relay.Relay
	if cfg.ChatEnabled() {
		geminiClient, err := assistant.NewGeminiClient(context.Background(), cfg.GeminiKey, cfg.GeminiModel, assistant.BuildSystemPrompt(profile))
		if err != nil {
			logger.Fatal("failed to create Gemini client", zap.Error(err))
		}
		defer geminiClient.Close()

		chatRelay = relay.New(geminiClient, relay.NewThreadStore(),
			relay.WithTimeout(cfg.ChatTimeout),
			relay.WithBannedPhrases(profile.BannedPhrases()),
			relay.WithLogger(logger.Named("relay")))
	} else {
		logger.Warn("GEMINI_API_KEY not set, chat relay disabled")
	}

	endpoint := cfg.OpenerEndpoint()
	a2aHandler := a2a.NewA2AHandler(generator, endpoint, logger.Named("a2a"))
	chatHandler := relay.NewHandler(chatRelay)

	router := gin.New()
	router.Use(gin.Recovery(), logging.GinMiddleware(logger.Named("http")))

	// Endpoints
	router.GET("/.well-known/agent.json", a2aHandler.ServeAgentCard)
	router.POST("/a2a/opener", a2aHandler.HandleOpener)
	router.POST("/chat", chatHandler.Chat)
	router.GET("/healthz", chatHandler.Healthz)
	router.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	logger.Info("sales opener agent starting",
		zap.String("port", cfg.Port),
		zap.String("agent_card", cfg.BaseURL()+"/.well-known/agent.json"),
		zap.String("a2a_endpoint", endpoint),
		zap.Bool("chat_enabled", cfg.ChatEnabled()))

	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Fatal("server failed to start", zap.Error(err))
	}
}

func loadProfile(path string) (*persona.Profile, error) {
	if path == "" {
		return persona.DefaultProfile()
	}
	return persona.LoadProfile(path)
}
