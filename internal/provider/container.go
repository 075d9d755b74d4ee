package provider

import (
	"github.com/shopfront-next/internal/catalog"
	"github.com/shopfront-next/internal/config"
	"github.com/shopfront-next/internal/kvstore"
	"github.com/shopfront-next/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config *config.Config
	Store  kvstore.Store

	CatalogClient *catalog.Client

	SessionService  *service.SessionService
	CartService     *service.CartService
	CheckoutService *service.CheckoutService
}

// NewContainer 初始化容器并装配各服务
func NewContainer(cfg *config.Config, store kvstore.Store) *Container {
	sessionService := service.NewSessionService(cfg, store)
	cartService := service.NewCartService(store)
	// 登出需要清空购物车，构造后装配避免循环依赖
	sessionService.SetCartClearer(cartService)
	checkoutService := service.NewCheckoutService(cfg, cartService)

	return &Container{
		Config:          cfg,
		Store:           store,
		CatalogClient:   catalog.NewClient(cfg.Catalog),
		SessionService:  sessionService,
		CartService:     cartService,
		CheckoutService: checkoutService,
	}
}
