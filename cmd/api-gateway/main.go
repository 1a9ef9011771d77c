package main

import (
	"context"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/mergington-activities-api/api/swagger"
	"github.com/noah-isme/mergington-activities-api/internal/handler"
	internalmiddleware "github.com/noah-isme/mergington-activities-api/internal/middleware"
	"github.com/noah-isme/mergington-activities-api/internal/repository"
	"github.com/noah-isme/mergington-activities-api/internal/service"
	"github.com/noah-isme/mergington-activities-api/pkg/cache"
	"github.com/noah-isme/mergington-activities-api/pkg/config"
	"github.com/noah-isme/mergington-activities-api/pkg/database"
	"github.com/noah-isme/mergington-activities-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/mergington-activities-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/mergington-activities-api/pkg/middleware/requestid"
)

// @title Mergington High School Activities API
// @version 1.0.0
// @description View and sign up for extracurricular activities
// @BasePath /
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()
	validate := validator.New()

	var metricsSvc *service.MetricsService
	if cfg.Metrics.Enabled {
		metricsSvc = service.NewMetricsService()
	}

	var checks []handler.ReadinessCheck

	var sessions service.SessionRepository = repository.NewMemorySessionRepository()
	if cfg.Session.Store == config.StoreRedis {
		redisClient, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Fatal("failed to connect redis", zap.Error(err))
		}
		defer redisClient.Close() //nolint:errcheck
		sessions = repository.NewRedisSessionRepository(redisClient, logr)
		checks = append(checks, handler.ReadinessCheck{
			Name:  "redis",
			Check: func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
		})
	}

	var activities service.ActivityRepository = repository.NewMemoryActivityRepository(repository.DefaultActivities())
	if cfg.Activities.Store == config.StorePostgres {
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			logr.Fatal("failed to connect postgres", zap.Error(err))
		}
		defer db.Close() //nolint:errcheck

		var observer repository.QueryObserver
		if metricsSvc != nil {
			observer = metricsSvc
		}
		pgRepo := repository.NewPostgresActivityRepository(db, observer)
		if err := pgRepo.Migrate(ctx); err != nil {
			logr.Fatal("failed to migrate activities schema", zap.Error(err))
		}
		if err := pgRepo.Seed(ctx, repository.DefaultActivities()); err != nil {
			logr.Fatal("failed to seed activities", zap.Error(err))
		}
		activities = pgRepo
		checks = append(checks, handler.ReadinessCheck{Name: "postgres", Check: db.PingContext})
	}

	authSvc := service.NewAuthService(
		repository.NewFileTeacherRepository(cfg.UsersFile),
		sessions,
		validate,
		logr,
		metricsSvc,
		service.AuthConfig{SessionTTL: cfg.Session.MaxAge},
	)
	activitySvc := service.NewActivityService(activities, validate, logr, metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS))
	r.Use(internalmiddleware.Metrics(metricsSvc))

	handler.Routes{
		Auth: handler.NewAuthHandler(authSvc, handler.CookieConfig{
			Name:   cfg.Session.CookieName,
			MaxAge: authSvc.SessionTTL(),
			Secure: cfg.Session.CookieSecure,
		}),
		Activities:    handler.NewActivityHandler(activitySvc),
		Metrics:       handler.NewMetricsHandler(metricsSvc, checks...),
		Authenticator: authSvc,
		CookieName:    cfg.Session.CookieName,
		StaticDir:     cfg.StaticDir,
	}.Register(r)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting",
		"addr", addr,
		"env", cfg.Env,
		"session_store", cfg.Session.Store,
		"activity_store", cfg.Activities.Store,
	)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
