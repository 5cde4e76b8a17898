package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/polkiloo/verigate/internal/metrics"
	"github.com/polkiloo/verigate/internal/pkg/auth"
	"github.com/polkiloo/verigate/internal/server/http/handlers"
	"github.com/polkiloo/verigate/internal/server/http/middleware"
)

// Params collects router dependencies.
type Params struct {
	fx.In

	Facade  handlers.Facade
	Webhook *auth.SharedSecret
	Metrics *metrics.Metrics
	Logger  *slog.Logger
}

// Setup configures gin router with handlers and middleware.
// The payment webhook is only routed when a secret is configured.
func Setup(p Params) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(p.Logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	healthHandler := handlers.NewHealthHandler(p.Facade)
	verificationHandler := handlers.NewVerificationHandler(p.Facade)
	orderHandler := handlers.NewOrderHandler(p.Facade)

	engine.GET("/healthz", healthHandler.Check)
	engine.GET("/metrics", gin.WrapH(p.Metrics.Handler()))

	api := engine.Group("/api")
	if p.Webhook.Enabled() {
		paymentHandler := handlers.NewPaymentHandler(p.Facade, p.Webhook, p.Logger)
		api.POST("/payments/webhook", paymentHandler.Webhook)
	} else {
		p.Logger.Warn("payment webhook disabled, no secret configured")
	}

	user := api.Group("")
	user.Use(middleware.AuthRequired(p.Facade))
	user.GET("/checks", verificationHandler.List)
	user.POST("/verify/:check", verificationHandler.Verify)
	user.POST("/verify/:check/prepare", verificationHandler.Prepare)
	user.POST("/verify/:check/confirm", verificationHandler.Confirm)
	user.POST("/orders", orderHandler.Purchase)
	user.GET("/orders", orderHandler.List)
	user.GET("/orders/:id", orderHandler.Get)
	user.GET("/quota", orderHandler.Quota)

	return engine
}
