package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/MarcoGiova99/tutor/internal/auth"
	"github.com/MarcoGiova99/tutor/internal/config"
	"github.com/MarcoGiova99/tutor/internal/database"
	"github.com/MarcoGiova99/tutor/internal/gamification"
	"github.com/MarcoGiova99/tutor/internal/logger"
	"github.com/MarcoGiova99/tutor/internal/middleware"
	"github.com/MarcoGiova99/tutor/internal/observability"
	"github.com/MarcoGiova99/tutor/internal/practice"
	"github.com/MarcoGiova99/tutor/internal/questions"
	"github.com/MarcoGiova99/tutor/internal/srs"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zlog, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zlog.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.InitTracing(ctx, cfg, zlog)
	if err != nil {
		zlog.Fatal("failed to init tracing", zap.Error(err))
	}

	loc, err := cfg.App.Location()
	if err != nil {
		zlog.Fatal("invalid app timezone", zap.Error(err))
	}

	// Initialize database
	if cfg.DB.MigrateOnStart {
		if err := database.Migrate(cfg.DB.DSN); err != nil {
			zlog.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	pool, err := database.Connect(ctx, cfg.DB.DSN, database.PoolConfig{
		MaxConns:        int32(cfg.DB.MaxConnections),
		MaxConnLifetime: cfg.DB.MaxConnLifetime,
	})
	if err != nil {
		zlog.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()
	tx := database.NewTransactor(pool)

	rdb, err := database.ConnectRedis(ctx, database.RedisConfig{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		zlog.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	// Initialize services
	questionStore := questions.NewStore(pool, tx)
	questionService := questions.NewService(questionStore, zlog)

	gamificationStore := gamification.NewStore(pool, tx)
	gamificationService := gamification.NewService(gamificationStore, questionService, gamification.Config{
		Profiles:         cfg.Goals.Profiles(),
		Location:         loc,
		DailyExerciseCap: cfg.Practice.DailyExerciseCap,
	}, zlog)

	srsService := srs.NewService(srs.NewStore(pool, tx), gamificationService, tx, zlog)

	practiceService := practice.NewService(
		practice.NewRedisStore(rdb, cfg.Redis.SessionTTL),
		questionService,
		gamificationService,
		srsService,
		zlog,
	)

	if cfg.Jobs.StreakSweepCron != "" {
		sweeper := gamification.NewSweeper(gamificationStore, loc, zlog)
		if err := sweeper.Start(ctx, cfg.Jobs.StreakSweepCron); err != nil {
			zlog.Fatal("failed to schedule streak sweep", zap.Error(err))
		}
	}

	// Setup router
	r := mux.NewRouter()
	r.Use(middleware.AccessLog(zlog))
	api := r.PathPrefix("/api/v1").Subrouter()

	// Protected routes
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth(auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.Issuer), zlog))

	questions.NewHandler(questionService).RegisterRoutes(protected)
	practice.NewHandler(practiceService).RegisterRoutes(protected)
	srs.NewHandler(srsService).RegisterRoutes(protected)
	gamification.NewHandler(gamificationService).RegisterRoutes(protected)

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.App.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           c.Handler(r),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zlog.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zlog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("server shutdown failed", zap.Error(err))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		zlog.Error("tracing shutdown failed", zap.Error(err))
	}
}
