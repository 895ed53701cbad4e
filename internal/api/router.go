package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sorcererxstreme/chatbot/internal/api/controller"
	"github.com/sorcererxstreme/chatbot/internal/api/middleware"
	"github.com/sorcererxstreme/chatbot/internal/api/response"
)

// RouterOptions switch the optional middleware on.
type RouterOptions struct {
	JWTSecret         string  // empty: chat route is public
	RequestsPerSecond float64 // 0: no rate limit
	Burst             int
	// HealthDetails is merged into the /health body.
	HealthDetails func() gin.H
}

// NewRouter builds the engine with recovery, CORS and the routes.
func NewRouter(chatCtrl *controller.ChatController, opts RouterOptions) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		slog.Error("panic while handling request", "path", c.FullPath(), "panic", recovered)
		response.Error(c, http.StatusInternalServerError, response.GenericError)
	}))
	r.Use(middleware.Cors())

	RegisterRoutes(r, chatCtrl, opts)
	return r
}

// RegisterRoutes registers every route on r.
func RegisterRoutes(r *gin.Engine, chatCtrl *controller.ChatController, opts RouterOptions) {
	r.GET("/health", func(c *gin.Context) {
		body := gin.H{"status": "ok"}
		if opts.HealthDetails != nil {
			for k, v := range opts.HealthDetails() {
				body[k] = v
			}
		}
		c.JSON(http.StatusOK, body)
	})

	v1 := r.Group("/api/v1")
	if opts.RequestsPerSecond > 0 {
		v1.Use(middleware.RateLimit(opts.RequestsPerSecond, opts.Burst))
	}
	if opts.JWTSecret != "" {
		v1.Use(middleware.JWTAuth(opts.JWTSecret))
	}
	{
		v1.POST("/chat", chatCtrl.Chat)
	}
}
