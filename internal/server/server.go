package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"storefront/internal/cache"
	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/events"
	custommiddleware "storefront/internal/middleware"
	"storefront/internal/repository"
	"storefront/internal/service"
	"storefront/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Services groups the business services behind the HTTP routes
type Services struct {
	Users   service.UserService
	Roles   service.RoleService
	Catalog service.CatalogService
	Cart    service.CartService
	Orders  service.OrderService
}

// HealthFunc reports the state of a backing dependency
type HealthFunc func(ctx context.Context) map[string]string

type Server struct {
	*http.Server
	config    *config.Config
	logger    *zap.Logger
	db        database.Service
	redis     *redis.Client
	publisher events.Publisher
}

// NewServer wires repositories, services and handlers. redisClient may be
// nil, which disables caching and rate limiting.
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	db database.Service,
	redisClient *redis.Client,
	publisher events.Publisher,
) *Server {
	if publisher == nil {
		publisher = events.Noop{}
	}

	var catalogCache cache.Cache = cache.Noop{}
	if redisClient != nil {
		catalogCache = cache.NewRedisCache(redisClient, cfg.Redis.CacheTTL)
	}

	// Initialize repositories
	sqlDB := db.DB()
	roleRepo := repository.NewRoleRepository(sqlDB)
	userRepo := repository.NewUserRepository(sqlDB)
	productRepo := repository.NewProductRepository(sqlDB)
	categoryRepo := repository.NewCategoryRepository(sqlDB)
	cartRepo := repository.NewCartRepository(sqlDB)
	orderRepo := repository.NewOrderRepository(sqlDB)

	// Initialize services
	tokenTTL := time.Duration(cfg.JWT.AccessExpiry) * time.Minute
	services := Services{
		Users:   service.NewUserService(userRepo, roleRepo, cfg.JWT.Secret, tokenTTL),
		Roles:   service.NewRoleService(roleRepo),
		Catalog: service.NewCatalogService(productRepo, categoryRepo, catalogCache, logger),
		Cart:    service.NewCartService(cartRepo, productRepo),
		Orders:  service.NewOrderService(orderRepo, userRepo, publisher, logger),
	}

	router := NewRouter(cfg, logger, services, redisClient, db.Health)

	return &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config:    cfg,
		logger:    logger,
		db:        db,
		redis:     redisClient,
		publisher: publisher,
	}
}

// NewRouter builds the HTTP routes under /api
func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	services Services,
	redisClient *redis.Client,
	health HealthFunc,
) http.Handler {
	router := chi.NewRouter()

	for _, mw := range custommiddleware.DefaultMiddlewareStack() {
		router.Use(mw)
	}
	router.Use(middleware.Recoverer)
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(cfg.Server.AllowedOrigins, cfg.Server.Env == "development"))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		status := map[string]interface{}{"status": "ok"}
		code := http.StatusOK
		if health != nil {
			db := health(r.Context())
			status["database"] = db
			if db["status"] != "up" {
				status["status"] = "degraded"
				code = http.StatusServiceUnavailable
			}
		}
		custommiddleware.RespondWithJSON(w, code, status)
	})

	authMiddleware := custommiddleware.AuthMiddleware(cfg.JWT.Secret, logger)

	router.Route("/api", func(r chi.Router) {
		if redisClient != nil {
			r.Use(custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
				RequestsPerWindow: cfg.RateLimit.RequestsPerWindow,
				Window:            cfg.RateLimit.Window,
				KeyPrefix:         "ratelimit:api",
			}, logger))
		}

		transport.NewAuthHandler(services.Users, logger).RegisterRoutes(r, authMiddleware)
		transport.NewUserHandler(services.Users, logger).RegisterRoutes(r, authMiddleware)
		transport.NewRoleHandler(services.Roles, logger).RegisterRoutes(r, authMiddleware)
		transport.NewCatalogHandler(services.Catalog, logger).RegisterRoutes(r, authMiddleware)
		transport.NewCartHandler(services.Cart, logger).RegisterRoutes(r, authMiddleware)
		transport.NewOrderHandler(services.Orders, logger).RegisterRoutes(r, authMiddleware)
	})

	return router
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if err := s.publisher.Close(); err != nil {
		s.logger.Error("Failed to close event producer", zap.Error(err))
	}

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis client", zap.Error(err))
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
