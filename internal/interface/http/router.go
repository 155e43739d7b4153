package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/itinerary-planner/internal/infra/config"
)

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(cfg *config.Config, handler *Handler) *http.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(
		gin.Recovery(),
		requestLogger(handler.logger),
		corsMiddleware(cfg.HTTP.CORS.AllowedOrigins),
		errorHandlingMiddleware(handler.logger),
		rateLimitMiddleware(cfg.HTTP.RateLimit, handler.logger),
	)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	itineraries := router.Group("/api/itineraries")
	{
		itineraries.POST("", handler.CreateItinerary)
		itineraries.GET("/popular", handler.PopularItineraries)
		itineraries.GET("/:id", handler.GetItinerary)
		itineraries.POST("/:id/places", handler.AddPlaces)
		itineraries.GET("/:id/calendar.ics", handler.ExportCalendar)
		itineraries.POST("/:id/share", handler.ShareItinerary)
		itineraries.GET("/:id/share", handler.OpenSharedCalendar)
	}

	api := router.Group("/api/v1")
	{
		api.POST("/auth/register", handler.Register)
		api.POST("/auth/login", handler.Login)
		api.POST("/auth/refresh", handler.Refresh)
	}

	secured := api.Group("")
	secured.Use(authMiddleware(handler.authSvc))
	{
		secured.GET("/auth/me", handler.Me)

		sessions := secured.Group("/planner/sessions")
		sessions.POST("", handler.CreateSession)
		sessions.GET("/:sessionId", handler.GetSession)
		sessions.DELETE("/:sessionId", handler.CloseSession)
		sessions.PUT("/:sessionId/candidates", handler.SetCandidates)
		sessions.GET("/:sessionId/events", handler.ListEvents)
		sessions.POST("/:sessionId/events", handler.DropPlace)
		sessions.DELETE("/:sessionId/events/:eventId", handler.RemoveEvent)
		sessions.GET("/:sessionId/slots", handler.SlotEvents)
		sessions.POST("/:sessionId/week", handler.ShiftWeek)
		sessions.GET("/:sessionId/grid", handler.Grid)
		sessions.POST("/:sessionId/save", handler.SaveSession)
		sessions.POST("/:sessionId/load", handler.LoadItinerary)
	}

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        withRetry(router, cfg.HTTP.Retry, handler.logger),
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("http request", "method", c.Request.Method, "path", c.Request.URL.Path, "status", c.Writer.Status(), "latency_ms", latency.Milliseconds())
	}
}
