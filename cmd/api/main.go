package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/Gayasri72/Hotline-Backend/internal/config"
	"github.com/Gayasri72/Hotline-Backend/internal/domain/auth"
	"github.com/Gayasri72/Hotline-Backend/internal/domain/permission"
	"github.com/Gayasri72/Hotline-Backend/internal/domain/promotion"
	"github.com/Gayasri72/Hotline-Backend/internal/domain/role"
	"github.com/Gayasri72/Hotline-Backend/internal/domain/sale"
	"github.com/Gayasri72/Hotline-Backend/internal/domain/user"
	"github.com/Gayasri72/Hotline-Backend/internal/middleware"
	"github.com/Gayasri72/Hotline-Backend/internal/pkg/database"
	"github.com/Gayasri72/Hotline-Backend/internal/pkg/jwt"
	"github.com/Gayasri72/Hotline-Backend/internal/pkg/logger"
	"github.com/Gayasri72/Hotline-Backend/internal/pkg/response"
)

func main() {
	cfg := config.Load()
	logger.Init(logger.Config{Level: cfg.LogLevel, Environment: cfg.Env})

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Msg("Starting Hotline API")

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	rdb, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer database.CloseRedis(rdb)

	jwtService := jwt.NewService(cfg.JWTSecret, cfg.JWTAccessTTL, cfg.JWTRefreshTTL)

	// ---------- Repositories ----------
	userRepo := user.NewRepository(db)
	roleRepo := role.NewRepository(db)
	promotionRepo := promotion.NewRepository(db)
	returnsRepo := sale.NewRepository(db)

	// ---------- Services ----------
	userService := user.NewService(userRepo, user.NewPermissionCache(rdb))
	roleService := role.NewService(roleRepo)
	authService := auth.NewService(userRepo, jwtService, rdb)
	promotionService := promotion.NewService(promotionRepo, promotion.NewCache(rdb, cfg.PromotionCacheTTL))
	returnsService := sale.NewService(returnsRepo, promotionService)

	// ---------- Handlers ----------
	authHandler := auth.NewHandler(authService)
	userHandler := user.NewHandler(userService)
	roleHandler := role.NewHandler(roleService)
	permissionHandler := permission.NewHandler()
	promotionHandler := promotion.NewHandler(promotionService)
	returnsHandler := sale.NewHandler(returnsService)

	authMiddleware := middleware.Auth(jwtService)

	// ---------- Router ----------
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(chimw.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		response.OK(w, map[string]string{
			"status":  "ok",
			"version": "1.0.0",
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/auth", authHandler.Routes(authMiddleware))
		r.Mount("/users", userHandler.Routes(authMiddleware, userService))
		r.Mount("/roles", roleHandler.Routes(authMiddleware, userService))
		r.Mount("/permissions", permissionHandler.Routes(authMiddleware, userService))
		r.Mount("/promotions", promotionHandler.Routes(authMiddleware, userService))
		r.Mount("/returns", returnsHandler.Routes(authMiddleware, userService))
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}
