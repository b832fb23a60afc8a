package v1

import (
	"time"

	"asperro-contact-backend/config"
	"asperro-contact-backend/internal/delivery/http/middleware"
	"asperro-contact-backend/internal/domain"
	"asperro-contact-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	ContactUC domain.ContactUsecase
	HealthUC  domain.HealthUsecase // optional, plain "OK" when nil
	Redis     *goredis.Client      // optional rate limit store
	Config    *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	// ClientIP keys the rate limiter, so forwarded headers count only from known proxies
	if err := r.SetTrustedProxies(deps.Config.TrustedProxies); err != nil {
		logger.Log.Error("Invalid trusted proxies, trusting none", "error", err)
		_ = r.SetTrustedProxies(nil)
	}

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(deps.Config.AllowedOrigin)) // CORS must be first!
	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery())
	if gin.Mode() == gin.DebugMode {
		r.Use(gin.Logger())
	}
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.ErrorHandler())

	// Health Check
	NewHealthHandler(r, deps.HealthUC)

	api := r.Group("/api")

	var limiter []gin.HandlerFunc
	if deps.Config.RateLimitContactPerIP > 0 {
		window := time.Duration(deps.Config.RateLimitWindowSeconds) * time.Second
		limiter = append(limiter, middleware.RateLimitMiddleware(middleware.ContactRateLimitConfig(
			deps.Config.RateLimitContactPerIP, window, deps.Config.RateLimitFailClosed, deps.Redis,
		)))
	}
	NewContactHandler(api, deps.ContactUC, deps.Config.MaxBodyBytes, limiter...)

	// Swagger
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}
