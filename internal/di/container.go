package di

import (
	"github.com/bcod/campus-market/internal/handler"
	"github.com/bcod/campus-market/internal/repository"
	"github.com/bcod/campus-market/internal/security"
	"github.com/bcod/campus-market/internal/service"
	"github.com/bcod/campus-market/internal/token"
	"github.com/bcod/campus-market/pkg/database"
	"github.com/bcod/campus-market/pkg/redis"
)

// Container holds all dependencies for the marketplace backend
type Container struct {
	// Infrastructure
	DB    *database.PostgresDB
	Redis *redis.Client
	Codec *token.Codec

	// Repositories
	UserRepo     repository.UserRepository
	CatalogRepo  repository.CatalogRepository
	CartRepo     repository.CartRepository
	OrderRepo    repository.OrderRepository
	LocationRepo repository.CodLocationRepository

	// Services
	AuthService     service.AuthService
	CatalogService  service.CatalogService
	CartService     service.CartService
	OrderService    service.OrderService
	LocationService service.CodLocationService

	// Handlers
	HealthHandler   *handler.HealthHandler
	AuthHandler     *handler.AuthHandler
	CatalogHandler  *handler.CatalogHandler
	CartHandler     *handler.CartHandler
	OrderHandler    *handler.OrderHandler
	LocationHandler *handler.CodLocationHandler
}

// ContainerConfig contains configuration for building the container
type ContainerConfig struct {
	DB        *database.PostgresDB
	Redis     *redis.Client
	Codec     *token.Codec
	Publisher service.EventPublisher
	Cookie    security.CookieConfig
	// BcryptCost of 0 takes the service default
	BcryptCost int
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *ContainerConfig) *Container {
	c := &Container{
		DB:    cfg.DB,
		Redis: cfg.Redis,
		Codec: cfg.Codec,
	}

	// Repositories
	pool := cfg.DB.Pool()
	c.UserRepo = repository.NewPostgresUserRepository(pool)
	c.CatalogRepo = repository.NewPostgresCatalogRepository(pool)
	c.CartRepo = repository.NewPostgresCartRepository(pool)
	c.OrderRepo = repository.NewPostgresOrderRepository(pool)
	c.LocationRepo = repository.NewPostgresCodLocationRepository(pool)

	// Services
	c.AuthService = service.NewAuthService(c.UserRepo, c.Codec, &service.AuthServiceConfig{
		BcryptCost: cfg.BcryptCost,
		Cookie:     cfg.Cookie,
	})

	var cache service.ProductCache
	if cfg.Redis != nil {
		cache = service.NewRedisProductCache(cfg.Redis)
	}
	c.CatalogService = service.NewCatalogService(c.CatalogRepo, cache)
	c.CartService = service.NewCartService(c.CartRepo, c.CatalogRepo)
	c.OrderService = service.NewOrderService(c.OrderRepo, c.CartRepo, c.UserRepo, c.LocationRepo, cfg.Publisher)
	c.LocationService = service.NewCodLocationService(c.LocationRepo)

	// Handlers
	c.HealthHandler = handler.NewHealthHandler(c.DB, c.Redis)
	c.AuthHandler = handler.NewAuthHandler(c.AuthService)
	c.CatalogHandler = handler.NewCatalogHandler(c.CatalogService)
	c.CartHandler = handler.NewCartHandler(c.CartService)
	c.OrderHandler = handler.NewOrderHandler(c.OrderService)
	c.LocationHandler = handler.NewCodLocationHandler(c.LocationService)

	return c
}
