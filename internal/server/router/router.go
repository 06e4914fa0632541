package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/mamadbah2/perfdash/internal/config"
	"github.com/mamadbah2/perfdash/internal/server/handlers"
)

const requestIDHeader = "X-Request-ID"

// Handlers groups the HTTP adapters mounted under /api.
type Handlers struct {
	Dashboard *handlers.DashboardHandler
	Slack     *handlers.SlackHandler
	Tasks     *handlers.TasksHandler
}

// New wires the Gin engine with required routes and middlewares.
// gatherer may be nil, in which case /metrics is not mounted.
func New(h Handlers, corsCfg config.CORSConfig, gatherer prometheus.Gatherer, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestIDMiddleware())
	r.Use(zapLoggerMiddleware(logger))
	r.Use(cors.New(corsConfig(corsCfg)))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	api := r.Group("/api")
	api.GET("/performance", h.Dashboard.Performance)
	api.GET("/campaigns", h.Dashboard.Campaigns)
	api.GET("/financial", h.Dashboard.Financial)
	api.GET("/invoices", h.Dashboard.Invoices)
	api.GET("/payroll", h.Dashboard.Payroll)
	api.GET("/network-terms", h.Dashboard.NetworkTerms)
	api.GET("/profit-loss", h.Dashboard.ProfitLoss)
	api.GET("/cash-flow", h.Dashboard.CashFlow)
	api.GET("/summary", h.Dashboard.Summary)

	api.POST("/slack/send", h.Slack.Send)
	api.POST("/slack/summary", h.Slack.Summary)
	api.GET("/summaries", h.Slack.History)

	api.GET("/monday/tasks", h.Tasks.List)
	api.POST("/monday/tasks", h.Tasks.Create)
	api.PATCH("/monday/tasks/:id", h.Tasks.Update)

	logger.Info("router initialized", zap.Strings("cors_origins", corsCfg.AllowedOrigins))
	return r
}

func corsConfig(cfg config.CORSConfig) cors.Config {
	c := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) == 0 || (len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*") {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = cfg.AllowedOrigins
	}
	c.AddAllowHeaders("Authorization", requestIDHeader)
	c.AddExposeHeaders("Content-Length", requestIDHeader)
	return c
}

// requestIDMiddleware keeps an incoming X-Request-ID or assigns a new one.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
			zap.String("request_id", c.GetString("request_id")))
	}
}
