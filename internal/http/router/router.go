package router

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/quickfix/internal/config"
	"github.com/ignatzorin/quickfix/internal/http/handlers"
	"github.com/ignatzorin/quickfix/internal/http/middleware"
	"github.com/ignatzorin/quickfix/internal/service"
)

// Handlers собирает все хэндлеры стенда.
type Handlers struct {
	Auth     *handlers.AuthHandler
	User     *handlers.UserHandler
	Provider *handlers.ProviderHandler
	Request  *handlers.RequestHandler
	Service  *handlers.ServiceHandler
	Media    *handlers.MediaHandler
	Health   *handlers.HealthHandler
	Seed     *handlers.SeedHandler
}

// NewHandlers создаёт хэндлеры поверх одного сервиса стенда.
func NewHandlers(market *service.Marketplace, seed *service.SeedService) Handlers {
	return Handlers{
		Auth:     handlers.NewAuthHandler(market),
		User:     handlers.NewUserHandler(market),
		Provider: handlers.NewProviderHandler(market),
		Request:  handlers.NewRequestHandler(market),
		Service:  handlers.NewServiceHandler(market),
		Media:    handlers.NewMediaHandler(market),
		Health:   handlers.NewHealthHandler(market),
		Seed:     handlers.NewSeedHandler(seed),
	}
}

// SetupRouter регистрирует маршруты REST API стенда.
func SetupRouter(cfg *config.Config, h Handlers, tokenManager *service.TokenManager) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimitMiddleware(cfg.Stub.RateLimitLimit, cfg.Stub.RateLimitPeriod))

	r.GET("/health", h.Health.Health)
	r.GET("/media/:name", h.Media.Serve)
	if h.Seed != nil && cfg.Env == "development" {
		r.POST("/seed", h.Seed.Seed)
	}

	// Без токена
	r.POST("/login", h.Auth.Login)
	r.POST("/user", h.Auth.Register)
	r.GET("/profilePicture/:id", middleware.IDValidator("id"), h.Media.GetPicture)

	protected := r.Group("/")
	protected.Use(middleware.AuthMiddleware(tokenManager))
	{
		protected.GET("/user/me", h.User.Me)
		protected.GET("/user/:id", middleware.IDValidator("id"), h.User.Get)
		protected.PATCH("/user", h.User.Update)
		protected.DELETE("/user", h.User.Delete)
		protected.PUT("/profilePicture", h.Media.UploadPicture)

		protected.GET("/providers", h.Provider.List)
		protected.GET("/providers/details/:id", middleware.IDValidator("id"), h.Provider.Details)
		protected.GET("/provider/roles", h.Provider.MyRoles)
		protected.POST("/provider", h.Provider.Add)
		protected.PATCH("/provider", h.Provider.Update)
		protected.DELETE("/provider", h.Provider.Remove)
		protected.GET("/serviceTypes", h.Provider.ServiceTypes)

		protected.GET("/requests", h.Request.List)
		protected.GET("/requests/client", h.Request.ClientList)
		protected.POST("/request", h.Request.Create)
		protected.PATCH("/request/decision", h.Request.Decide)
		protected.GET("/request/check-ownership/:id", middleware.IDValidator("id"), h.Request.CheckOwnership)
		protected.GET("/request/:id", middleware.IDValidator("id"), h.Request.Get)
		protected.PATCH("/request/:id", middleware.IDValidator("id"), h.Request.Update)
		protected.DELETE("/request/:id", middleware.IDValidator("id"), h.Request.Delete)

		protected.GET("/service/:id", middleware.IDValidator("id"), h.Service.Get)
		protected.PATCH("/service/status", h.Service.UpdateStatus)
		protected.GET("/services/provider/:id", middleware.IDValidator("id"), h.Service.ListByProvider)
	}

	return r
}
