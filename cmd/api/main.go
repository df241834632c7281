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

	"github.com/jmoiron/sqlx"

	"github.com/tabelamed/backend/internal/adapters/auth"
	"github.com/tabelamed/backend/internal/adapters/cache"
	"github.com/tabelamed/backend/internal/adapters/catalog"
	"github.com/tabelamed/backend/internal/adapters/database"
	"github.com/tabelamed/backend/internal/adapters/events"
	"github.com/tabelamed/backend/internal/api/handlers"
	"github.com/tabelamed/backend/internal/api/routes"
	"github.com/tabelamed/backend/internal/application/services"
	"github.com/tabelamed/backend/internal/domain/providers"
	"github.com/tabelamed/backend/internal/domain/repositories"
	"github.com/tabelamed/backend/internal/infrastructure/clients/postgres"
	"github.com/tabelamed/backend/internal/infrastructure/clients/redis"
	"github.com/tabelamed/backend/internal/infrastructure/observability"
	"github.com/tabelamed/backend/internal/migrations"
	"github.com/tabelamed/backend/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Server.Env)

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	var shutdown func(context.Context) error
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err = observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			log.Printf("Warning: Failed to set up OpenTelemetry: %v", err)
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Printf("Error shutting down OpenTelemetry: %v", err)
				}
			}()
			log.Println("OpenTelemetry initialized successfully")
		}
	}

	// Initialize metrics
	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatalf("Failed to initialize metrics: %v", err)
	}

	// Initialize database client
	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize PostgreSQL client: %v", err)
	}
	defer pgClient.Close()
	log.Println("PostgreSQL client initialized successfully")

	// Apply schema migrations
	if err := migrations.Up(ctx, pgClient.DB()); err != nil {
		log.Fatalf("Failed to apply migrations: %v", err)
	}
	log.Println("Schema migrations applied")

	// Initialize Redis client
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Printf("Warning: Failed to initialize Redis client: %v", err)
		// Continue without Redis - the application can work without caching
		redisClient = nil
	} else {
		defer redisClient.Close()
		log.Println("Redis client initialized successfully")
	}

	var cacheProvider providers.CacheProvider
	if redisClient != nil {
		cacheProvider = cache.NewRedisAdapter(redisClient)
	}

	// Initialize event bus for cross-instance cache invalidation
	var eventBus providers.EventBus
	if redisClient != nil {
		eventBus = events.NewRedisEventBus(redisClient)
		defer eventBus.Close()
		log.Println("Event bus initialized successfully")
	} else {
		log.Println("Event bus disabled (Redis not available)")
	}

	// Initialize adapters
	catalogLoader := catalog.NewHTTPLoader(cfg.Catalog.URL)

	basePackageAdapter := database.NewPackageAdapter(pgClient)
	basePrivatePackageAdapter := database.NewPrivatePackageAdapter(pgClient)
	baseOpmeAdapter := database.NewOpmeAdapter(pgClient)

	var packageAdapter repositories.PackageRepository
	var privatePackageAdapter repositories.PrivatePackageRepository
	var opmeAdapter repositories.OpmeRepository
	if cacheProvider != nil {
		packageAdapter = database.NewCachedPackageAdapter(basePackageAdapter, cacheProvider)
		privatePackageAdapter = database.NewCachedPrivatePackageAdapter(basePrivatePackageAdapter, cacheProvider)
		opmeAdapter = database.NewCachedOpmeAdapter(baseOpmeAdapter, cacheProvider)
		log.Println("List adapters wrapped with caching layer")
	} else {
		packageAdapter = basePackageAdapter
		privatePackageAdapter = basePrivatePackageAdapter
		opmeAdapter = baseOpmeAdapter
		log.Println("List adapters running without cache (Redis unavailable)")
	}

	favoriteAdapter := database.NewFavoriteAdapter(pgClient)
	sharedPackageAdapter := database.NewSharedPackageAdapter(pgClient)
	userAdapter := database.NewUserAdapter(pgClient)

	sqlxDB := sqlx.NewDb(pgClient.DB(), "postgres")
	notificationAdapter := database.NewNotificationAdapter(sqlxDB)

	authProvider := auth.NewJWTProvider(cfg.Auth.JWTSecret)

	// Initialize services
	catalogService := services.NewCatalogService(catalogLoader)
	packageService := services.NewPackageService(packageAdapter, eventBus)
	privatePackageService := services.NewPrivatePackageService(privatePackageAdapter, eventBus)
	opmeService := services.NewOpmeService(opmeAdapter, eventBus)
	favoriteService := services.NewFavoriteService(favoriteAdapter, catalogService)
	notificationService := services.NewNotificationService(notificationAdapter)
	sharingService := services.NewSharingService(
		packageAdapter,
		privatePackageAdapter,
		sharedPackageAdapter,
		notificationAdapter,
		userAdapter,
	)

	// Start cache invalidation when both cache and bus are available
	if cacheProvider != nil && eventBus != nil {
		invalidation := services.NewCacheInvalidationService(cacheProvider, eventBus)
		if err := invalidation.Start(); err != nil {
			log.Printf("Warning: cache invalidation not started: %v", err)
		} else {
			defer invalidation.Stop()
		}
	}

	// Initialize handlers
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	packageHandler := handlers.NewPackageHandler(packageService)
	privatePackageHandler := handlers.NewPrivatePackageHandler(privatePackageService)
	opmeHandler := handlers.NewOpmeHandler(opmeService)
	favoriteHandler := handlers.NewFavoriteHandler(favoriteService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	shareHandler := handlers.NewShareHandler(sharingService)

	// Set up routes
	router := routes.NewRouter(
		catalogHandler,
		packageHandler,
		privatePackageHandler,
		opmeHandler,
		favoriteHandler,
		notificationHandler,
		shareHandler,
		authProvider,
		metrics,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.SetupRoutes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
