package routes

import (
	"net/http"

	"storefront-backend/handlers"
	"storefront-backend/logger"
	"storefront-backend/middleware"
	"storefront-backend/services"
	"storefront-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"
)

type Deps struct {
	DB          *gorm.DB
	Cart        *services.CartService
	Log         *logger.Logger
	AuthLimiter *middleware.RateLimiter
	ServiceName string
}

func SetupRoutes(r *gin.Engine, deps Deps) {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		utils.UseJSONFieldNames(v)
	}

	serviceName := deps.ServiceName
	if serviceName == "" {
		serviceName = "storefront-backend"
	}
	r.Use(otelgin.Middleware(serviceName))
	r.Use(middleware.RequestLogger(deps.Log))

	authHandler := &handlers.AuthHandler{DB: deps.DB, Log: deps.Log}
	cartHandler := &handlers.CartHandler{Service: deps.Cart}

	api := r.Group("/api")

	// Public auth routes, rate limited per client IP
	auth := api.Group("/auth")
	if deps.AuthLimiter != nil {
		auth.Use(deps.AuthLimiter.Middleware())
	}
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
	}

	// Protected routes (require authentication)
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.GET("/auth/profile", authHandler.GetProfile)

		protected.GET("/cart", cartHandler.GetCart)
		protected.POST("/cart", cartHandler.AddToCart)
		protected.PATCH("/cart", cartHandler.UpdateCartItem)
		protected.DELETE("/cart", cartHandler.RemoveFromCart)
	}

	r.GET("/health", func(c *gin.Context) {
		sqlDB, err := deps.DB.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "database": "down"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "database": "up"})
	})
}
