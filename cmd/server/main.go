package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sorcererxstreme/chatbot/internal/api"
	"github.com/sorcererxstreme/chatbot/internal/api/controller"
	"github.com/sorcererxstreme/chatbot/internal/config"
	"github.com/sorcererxstreme/chatbot/internal/divination"
	"github.com/sorcererxstreme/chatbot/internal/infrastructure/database"
	"github.com/sorcererxstreme/chatbot/internal/infrastructure/embedding"
	"github.com/sorcererxstreme/chatbot/internal/infrastructure/llm"
	"github.com/sorcererxstreme/chatbot/internal/infrastructure/tuvi"
	"github.com/sorcererxstreme/chatbot/internal/infrastructure/vectordb"
	"github.com/sorcererxstreme/chatbot/internal/knowledge"
	"github.com/sorcererxstreme/chatbot/internal/repository"
	"github.com/sorcererxstreme/chatbot/internal/service"
)

// @title           SorcererXstreme Chat API
// @version         1.0
// @description     Numerology, astrology, Tử Vi and Tarot chat backend on Gin + Qdrant.
//
// @host            localhost:8080
// @BasePath        /api/v1
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Only enforced when jwt.secret is set. Format: "Bearer <token>".
func main() {
	conf, err := config.LoadConfig()
	if err != nil {
		slog.Error("load config failed", "err", err)
		os.Exit(1)
	}

	// 1. logger: JSON with source location
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		AddSource: true,
		Level:     conf.Log.SlogLevel(),
	}))
	slog.SetDefault(logger)
	slog.Info("sorcerer chat backend starting")

	// 2. infrastructure
	db, err := database.Open(conf.Database.Driver, conf.Database.DSN, conf.Server.Mode == gin.DebugMode)
	if err != nil {
		slog.Error("database init failed", "err", err)
		os.Exit(1)
	}

	vecClient, err := vectordb.NewQdrantClient(conf.Qdrant.Host, conf.Qdrant.Port, conf.Qdrant.CollectionName, conf.Qdrant.VectorSize)
	if err != nil {
		slog.Error("qdrant init failed", "err", err)
		os.Exit(1)
	}
	defer vecClient.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := vecClient.InitCollection(ctx); err != nil {
		// retrieval is best-effort, the chat still answers without it
		slog.Warn("qdrant collection not ready", "err", err)
	}
	cancel()

	embedder := embedding.NewOpenAIClient(conf.OpenAI.APIKey, conf.OpenAI.BaseURL, conf.OpenAI.Model)
	retriever := knowledge.NewVectorRetriever(embedder, vectordb.NewQdrantRepository(vecClient), conf.Chat.RetrievalTopK)

	generator := llm.NewBreakerProvider(
		llm.NewChatClient(conf.LLM.APIKey, conf.LLM.BaseURL, conf.LLM.Model, conf.LLM.Temperature, conf.LLM.MaxTokens),
		llm.DefaultBreakerConfig(),
	)

	var horoscope divination.HoroscopeLookup
	if conf.Tuvi.BaseURL != "" {
		horoscope = tuvi.NewClient(conf.Tuvi.BaseURL, conf.Tuvi.Timeout)
	} else {
		slog.Info("tuvi service not configured, charts disabled")
	}

	// 3. wiring
	svc := service.NewChatService(horoscope, retriever, llm.NewTimeoutProvider(generator, conf.LLM.Timeout),
		repository.NewMessageRepo(db), conf.Chat.HistoryLimit, conf.Chat.Location())

	gin.SetMode(conf.Server.Mode)
	r := api.NewRouter(controller.NewChatController(svc), api.RouterOptions{
		JWTSecret:         conf.JWT.Secret,
		RequestsPerSecond: conf.RateLimit.RequestsPerSecond,
		Burst:             conf.RateLimit.Burst,
		HealthDetails: func() gin.H {
			return gin.H{"llm_breaker": generator.State()}
		},
	})

	// 4. serve
	slog.Info("http server listening", "port", conf.Server.Port)
	if err := r.Run(conf.Server.Port); err != nil {
		slog.Error("http server stopped", "err", err)
		os.Exit(1)
	}
}
