package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/moodjournal-backend/internal/http/handlers"
	httpMW "github.com/yungbote/moodjournal-backend/internal/http/middleware"
)

type RouterConfig struct {
	AuthMiddleware  *httpMW.AuthMiddleware
	EntryHandler    *httpH.EntryHandler
	RealtimeHandler *httpH.RealtimeHandler
	HealthHandler   *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.Default()
	r.Use(otelgin.Middleware("moodjournal-backend"))
	r.Use(httpMW.CORS())

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		// Middleware
		if cfg.AuthMiddleware != nil {
			api.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// Entries
		if cfg.EntryHandler != nil {
			api.POST("/entries", cfg.EntryHandler.Create)
			api.GET("/entries", cfg.EntryHandler.List)
			api.GET("/entries/chart", cfg.EntryHandler.MoodChart)
			api.GET("/entries/calendar", cfg.EntryHandler.Calendar)
		}

		// Realtime (SSE)
		if cfg.RealtimeHandler != nil {
			api.GET("/entries/stream", cfg.RealtimeHandler.SSEStream)
		}
	}

	return r
}
