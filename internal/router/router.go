package router

import (
	"github.com/shopfront-next/internal/config"
	storehandlers "github.com/shopfront-next/internal/http/handlers/store"
	"github.com/shopfront-next/internal/http/response"
	"github.com/shopfront-next/internal/logger"
	"github.com/shopfront-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	storeHandler := storehandlers.New(c)

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		auth := apiV1.Group("/auth")
		{
			auth.POST("/login", storeHandler.Login)
			auth.POST("/register", storeHandler.Register)
			auth.POST("/logout", storeHandler.Logout)
			auth.GET("/session", storeHandler.Session)
		}

		cart := apiV1.Group("/cart")
		{
			cart.GET("", storeHandler.Cart)
			cart.POST("/items", storeHandler.CartAdd)
			cart.POST("/items/:id/increment", storeHandler.CartIncrement)
			cart.POST("/items/:id/decrement", storeHandler.CartDecrement)
			cart.DELETE("/items/:id", storeHandler.CartRemove)
			cart.DELETE("", storeHandler.CartClear)
		}

		checkout := apiV1.Group("/checkout")
		{
			checkout.POST("/validate", storeHandler.CheckoutValidate)
			checkout.GET("/totals", storeHandler.CheckoutTotals)
			checkout.POST("/submit", storeHandler.CheckoutSubmit)
			checkout.GET("/state", storeHandler.CheckoutState)
		}

		apiV1.GET("/products", storeHandler.Products)
		apiV1.GET("/products/:id", storeHandler.ProductDetail)
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		response.Success(c, gin.H{"status": "ok"})
	})

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c, "not found")
	})

	return r
}
