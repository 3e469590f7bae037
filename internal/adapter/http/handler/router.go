package handler

import (
	"net/http"

	"subscription-ledger/internal/adapter/http/middleware"
	"subscription-ledger/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	ProtocolSvc     ports.ProtocolService
	VaultSvc        ports.VaultService
	WalletSvc       ports.WalletService
	PaymentSvc      ports.PaymentService
	SubscriptionSvc ports.SubscriptionService
	TokenSvc        ports.TokenService
	WebhookSvc      ports.WebhookService // nil = merchant webhooks disabled
	AnalyticsSvc    ports.AnalyticsService
	HealthCheckers  []ports.HealthChecker
	RateLimitStore  middleware.RateLimitStore // nil = rate limiting disabled
	Events          ports.EventRecorder       // nil = access audit disabled
	HTTPMetrics     middleware.HTTPMetrics    // nil = request metrics disabled
	MetricsHandler  http.Handler              // nil = no metrics route
	MetricsPath     string                    // defaults to /metrics
	Logger          zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Logger))
	if deps.HTTPMetrics != nil {
		r.Use(middleware.Metrics(deps.HTTPMetrics))
	}
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit
	if deps.Events != nil {
		r.Use(middleware.AccessAudit(deps.Events))
	}

	// Deep health check of the configured stores
	r.GET("/health", HealthCheck(deps.HealthCheckers...))
	if deps.MetricsHandler != nil {
		path := deps.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.GET(path, gin.WrapH(deps.MetricsHandler))
	}

	swagger := r.Group("/swagger")
	{
		swagger.GET("", SwaggerUI)
		swagger.GET("/spec", SwaggerSpec)
	}

	rules := middleware.DefaultRateLimitRules()

	// Helper: return rate limiter middleware if store is available, else noop.
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return func(c *gin.Context) { c.Next() }
		}
		rule, ok := rules[group]
		if !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	// Every API route is JWT-authenticated; the subject is the caller principal.
	v1 := r.Group("/api/v1", middleware.JWTAuth(deps.TokenSvc, deps.Logger))

	v1.GET("/auth/whoami", rl("read"), WhoAmI)

	protocolHandler := NewProtocolHandler(deps.ProtocolSvc)
	protocol := v1.Group("/protocol")
	{
		protocol.GET("", rl("read"), protocolHandler.Get)
		protocol.POST("", rl("admin"), protocolHandler.Initialize)
		protocol.PUT("/fee", rl("admin"), protocolHandler.UpdateFee)
	}

	vaultHandler := NewVaultHandler(deps.VaultSvc)
	vaults := v1.Group("/vaults")
	{
		vaults.POST("", rl("admin"), vaultHandler.Initialize)
		vaults.GET("/:currency", rl("read"), vaultHandler.Get)
		vaults.POST("/:currency/rebalance", rl("admin"), vaultHandler.Rebalance)
		vaults.PUT("/:currency/emergency", rl("admin"), vaultHandler.SetEmergency)
	}

	walletHandler := NewWalletHandler(deps.WalletSvc)
	yieldHandler := NewYieldHandler(deps.VaultSvc)
	paymentHandler := NewPaymentHandler(deps.PaymentSvc)
	wallets := v1.Group("/wallets")
	{
		wallets.POST("", rl("wallet"), walletHandler.Create)
		wallets.GET("/:currency", rl("read"), walletHandler.Get)
		wallets.POST("/:currency/deposit", rl("wallet"), walletHandler.Deposit)
		wallets.POST("/:currency/withdraw", rl("wallet"), paymentHandler.WithdrawIdle)
		wallets.GET("/:currency/ledger", rl("read"), walletHandler.Ledger)

		wallets.POST("/:currency/yield/enable", rl("yield"), yieldHandler.Enable)
		wallets.POST("/:currency/yield/deposit", rl("yield"), yieldHandler.Deposit)
		wallets.POST("/:currency/yield/withdraw", rl("yield"), yieldHandler.Withdraw)
		wallets.POST("/:currency/yield/disable", rl("yield"), yieldHandler.Disable)
	}

	planHandler := NewPlanHandler(deps.SubscriptionSvc)
	plans := v1.Group("/plans")
	{
		plans.POST("", rl("admin"), planHandler.Register)
		plans.POST("/:currency/:plan_id/deactivate", rl("admin"), planHandler.Deactivate)
	}

	subscriptionHandler := NewSubscriptionHandler(deps.SubscriptionSvc)
	subscriptions := v1.Group("/subscriptions")
	{
		subscriptions.POST("", rl("subscribe"), subscriptionHandler.Subscribe)
		subscriptions.DELETE("/:merchant/:currency", rl("subscribe"), subscriptionHandler.Cancel)
		subscriptions.GET("/:user/:merchant/:currency", rl("read"), subscriptionHandler.Get)
		subscriptions.POST("/:user/:merchant/:currency/execute", rl("payment"), paymentHandler.Execute)
	}

	// The caller is the merchant.
	merchants := v1.Group("/merchants/me")
	dashboardHandler := NewDashboardHandler(deps.AnalyticsSvc)
	merchants.GET("/customers", rl("read"), dashboardHandler.Customers)
	merchants.GET("/analytics/:currency", rl("read"), dashboardHandler.Summary)
	merchants.GET("/analytics/:currency/revenue", rl("read"), dashboardHandler.Revenue)
	merchants.GET("/analytics/:currency/growth", rl("read"), dashboardHandler.Growth)
	merchants.GET("/analytics/:currency/churn", rl("read"), dashboardHandler.Churn)
	merchants.GET("/analytics/:currency/plans", rl("read"), dashboardHandler.Plans)

	if deps.WebhookSvc != nil {
		webhookHandler := NewWebhookHandler(deps.WebhookSvc)
		merchants.GET("/webhook", rl("read"), webhookHandler.Get)
		merchants.PUT("/webhook", rl("admin"), webhookHandler.Set)
		merchants.GET("/webhook/deliveries", rl("read"), webhookHandler.Deliveries)
	}

	return r
}
