package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bcod/campus-market/internal/di"
	"github.com/bcod/campus-market/internal/domain"
	"github.com/bcod/campus-market/internal/security"
	"github.com/bcod/campus-market/internal/service"
	"github.com/bcod/campus-market/internal/token"
	"github.com/bcod/campus-market/pkg/config"
	"github.com/bcod/campus-market/pkg/database"
	"github.com/bcod/campus-market/pkg/events"
	"github.com/bcod/campus-market/pkg/logger"
	"github.com/bcod/campus-market/pkg/middleware"
	"github.com/bcod/campus-market/pkg/redis"
	"github.com/bcod/campus-market/pkg/telemetry"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Init(&logger.Config{
		Level:       "info",
		ServiceName: cfg.App.Name,
		Development: cfg.IsDevelopment(),
	}); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	appLog := logger.Get()
	appLog.Info("Starting campus marketplace backend...")

	ctx := context.Background()

	// Initialize tracing
	if _, err := telemetry.Init(ctx, &telemetry.Config{
		Enabled:        cfg.OTel.Enabled,
		ServiceName:    cfg.OTel.ServiceName,
		ServiceVersion: cfg.App.Version,
		Environment:    cfg.App.Environment,
		CollectorAddr:  cfg.OTel.CollectorAddr,
		SampleRatio:    cfg.OTel.SampleRatio,
	}); err != nil {
		appLog.Fatal(fmt.Sprintf("Telemetry init failed: %v", err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = telemetry.Shutdown(shutdownCtx)
	}()

	// Initialize database connection
	db, err := database.NewPostgres(ctx, &database.PostgresConfig{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		MaxConns:        int32(cfg.Database.MaxOpenConns),
		MinConns:        int32(cfg.Database.MaxIdleConns),
		MaxConnLifetime: cfg.Database.ConnMaxLifetime,
		MaxConnIdleTime: cfg.Database.ConnMaxIdleTime,
		ConnectTimeout:  5 * time.Second,
		MaxRetries:      3,
		RetryInterval:   time.Second,
		EnableTracing:   cfg.OTel.Enabled,
	})
	if err != nil {
		appLog.Fatal(fmt.Sprintf("Database connection failed: %v", err))
	}
	defer db.Close()
	appLog.Info("Database connected")

	// Initialize Redis (optional)
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = redis.NewClient(ctx, &redis.Config{
			Host:          cfg.Redis.Host,
			Port:          cfg.Redis.Port,
			Password:      cfg.Redis.Password,
			DB:            cfg.Redis.DB,
			PoolSize:      cfg.Redis.PoolSize,
			MinIdleConns:  cfg.Redis.MinIdleConns,
			DialTimeout:   cfg.Redis.DialTimeout,
			ReadTimeout:   cfg.Redis.ReadTimeout,
			WriteTimeout:  cfg.Redis.WriteTimeout,
			MaxRetries:    3,
			RetryInterval: time.Second,
		})
		if err != nil {
			appLog.Fatal(fmt.Sprintf("Redis connection failed: %v", err))
		}
		defer redisClient.Close()
		appLog.Info("Redis connected")
	}

	// Initialize Kafka producer (optional)
	var publisher service.EventPublisher
	if cfg.Kafka.Enabled {
		producer, err := events.NewProducer(ctx, &events.ProducerConfig{
			Brokers:  cfg.Kafka.Brokers,
			ClientID: cfg.Kafka.ClientID,
		})
		if err != nil {
			appLog.Fatal(fmt.Sprintf("Kafka connection failed: %v", err))
		}
		defer producer.Close()
		publisher = producer
		appLog.Info("Kafka producer connected")
	}

	// Session token codec and cookie settings
	codec := token.NewCodec(cfg.Session.Secret, cfg.Session.TokenTTL)
	cookie := security.CookieConfig{
		Name:   cfg.Session.CookieName,
		Path:   cfg.Session.CookiePath,
		Domain: cfg.Session.CookieDomain,
		Secure: cfg.Session.CookieSecure,
	}

	// Build dependency injection container
	container := di.NewContainer(&di.ContainerConfig{
		DB:         db,
		Redis:      redisClient,
		Codec:      codec,
		Publisher:  publisher,
		Cookie:     cookie,
		BcryptCost: cfg.Session.BcryptCost,
	})

	// Setup Gin
	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.OTel.Enabled {
		router.Use(telemetry.TracingMiddleware())
	}

	// Health check endpoints
	router.GET("/health", container.HealthHandler.Health)
	router.GET("/ready", container.HealthHandler.Ready)

	// Every /api route runs through the authenticator; authorization is
	// decided per route group below.
	api := router.Group("/api")
	api.Use(security.Authenticate(codec, container.UserRepo, cookie.Name))
	{
		auth := api.Group("/auth")
		{
			auth.POST("/signin", container.AuthHandler.Signin)
			auth.POST("/signup", container.AuthHandler.Signup)
			auth.POST("/signout", container.AuthHandler.Signout)

			session := auth.Group("")
			session.Use(security.RequireRoles(domain.RoleUser, domain.RoleAdmin, domain.RoleManager))
			{
				session.GET("/user", container.AuthHandler.CurrentUser)
				session.GET("/username", container.AuthHandler.CurrentUsername)
				session.PUT("/user/update-limited", container.AuthHandler.UpdateLimited)
			}
		}

		public := api.Group("/public")
		{
			public.GET("/products", container.CatalogHandler.ListProducts)
			public.GET("/products/:id", container.CatalogHandler.GetProduct)
			public.GET("/categories", container.CatalogHandler.ListCategories)
		}

		api.GET("/cod-locations", container.LocationHandler.ListActive)

		authed := api.Group("")
		authed.Use(security.RequireRoles(domain.RoleUser, domain.RoleAdmin, domain.RoleManager))
		{
			authed.GET("/cart", container.CartHandler.GetCart)
			authed.POST("/cart/items", container.CartHandler.AddItem)
			authed.PUT("/cart/items/:productId", container.CartHandler.UpdateItem)
			authed.DELETE("/cart/items/:productId", container.CartHandler.RemoveItem)

			orders := authed.Group("/orders")
			{
				place := orders.Group("")
				if redisClient != nil {
					place.Use(middleware.Idempotency(&middleware.IdempotencyConfig{
						Redis: redisClient,
						CallerID: func(c *gin.Context) string {
							return security.FromGin(c).Username
						},
					}))
				}
				place.POST("", container.OrderHandler.PlaceOrder)

				orders.GET("", container.OrderHandler.ListOrders)
				orders.GET("/:id", container.OrderHandler.GetOrder)
			}
		}

		admin := api.Group("/admin")
		admin.Use(security.RequireRoles(domain.RoleAdmin, domain.RoleManager))
		{
			admin.POST("/products", container.CatalogHandler.CreateProduct)
			admin.PUT("/products/:id", container.CatalogHandler.UpdateProduct)
			admin.DELETE("/products/:id", container.CatalogHandler.DeleteProduct)

			admin.PUT("/orders/:id/status", container.OrderHandler.UpdateStatus)

			admin.GET("/cod-locations", container.LocationHandler.List)
			admin.POST("/cod-locations", container.LocationHandler.Create)
			admin.PUT("/cod-locations/:id", container.LocationHandler.Update)
			admin.PUT("/cod-locations/:id/status", container.LocationHandler.SetActive)
		}
	}

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		ReadHeaderTimeout: 2 * time.Second,
	}

	// Start server in goroutine
	go func() {
		appLog.Info(fmt.Sprintf("Listening on %s", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLog.Fatal(fmt.Sprintf("Failed to start server: %v", err))
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLog.Fatal(fmt.Sprintf("Server forced to shutdown: %v", err))
	}

	appLog.Info("Server exited gracefully")
}
