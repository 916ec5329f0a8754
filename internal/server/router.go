package server

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Register adds the routes served by h to r.
func Register(r *gin.Engine, h *Handler) {
	r.GET("/", h.Health)
	r.GET("/healthz", h.Health)

	// Routes are served both under /api and at the root.
	for _, g := range []*gin.RouterGroup{r.Group("/api"), r.Group("")} {
		g.POST("/compress", h.Compress)
		g.POST("/decompress", h.Decompress)
		g.GET("/download/:name", h.Download)
	}
}

// NewEngine returns a gin engine serving h, with panic recovery and one
// log line per request.
func NewEngine(h *Handler) *gin.Engine {
	r := gin.New()
	r.MaxMultipartMemory = h.maxUpload
	r.Use(gin.Recovery(), requestLogger(h.logger))
	Register(r, h)
	return r
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
