package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jonesrussell/contentagent/internal/logger"
)

// NewRouter builds the gin engine with the API routes and middleware.
func NewRouter(h *Handlers, log logger.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(log))

	router.GET("/health", h.Health)

	apiGroup := router.Group("/api")
	{
		apiGroup.POST("/generate", h.Generate)
		apiGroup.GET("/history", h.History)
	}

	return router
}

// requestLogger attaches a request id and logs each request with its
// duration and status.
func requestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.NewString()
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)

		start := time.Now()
		c.Next()

		log.Info("Request handled",
			logger.String("request_id", requestID),
			logger.String("method", c.Request.Method),
			logger.String("path", c.Request.URL.Path),
			logger.Int("status", c.Writer.Status()),
			logger.Duration("duration", time.Since(start)),
		)
	}
}
