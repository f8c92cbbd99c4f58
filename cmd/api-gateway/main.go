package main

import (
	"context"
	"fmt"
	"log"
	"net/http/pprof"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/campus-timetable/scheduler/api/swagger"
	internalhandler "github.com/campus-timetable/scheduler/internal/handler"
	internalmiddleware "github.com/campus-timetable/scheduler/internal/middleware"
	"github.com/campus-timetable/scheduler/internal/models"
	"github.com/campus-timetable/scheduler/internal/prep"
	"github.com/campus-timetable/scheduler/internal/repository"
	"github.com/campus-timetable/scheduler/internal/service"
	"github.com/campus-timetable/scheduler/pkg/cache"
	"github.com/campus-timetable/scheduler/pkg/config"
	"github.com/campus-timetable/scheduler/pkg/database"
	"github.com/campus-timetable/scheduler/pkg/export"
	"github.com/campus-timetable/scheduler/pkg/jobs"
	"github.com/campus-timetable/scheduler/pkg/logger"
	corsmiddleware "github.com/campus-timetable/scheduler/pkg/middleware/cors"
	reqidmiddleware "github.com/campus-timetable/scheduler/pkg/middleware/requestid"
	"github.com/campus-timetable/scheduler/pkg/storage"
)

// @title University Timetabling API
// @version 0.1.0
// @description Constraint-based timetable generation and query service
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

	metricsSvc := service.NewMetricsService()
	metricsHandler := internalhandler.NewMetricsHandler(metricsSvc)

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to initialise database", "error", err)
	}
	defer db.Close()

	var cacheRepo service.CacheRepository
	if cfg.Cache.Enabled {
		if client, err := cache.NewRedis(cfg.Redis); err != nil {
			logr.Sugar().Warnw("cache disabled", "error", err)
		} else {
			defer client.Close()
			cacheRepo = repository.NewCacheRepository(client, logr)
		}
	}
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Cache.TTL, logr, cacheRepo != nil)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
		registerPprof(r)
	}

	api := r.Group(cfg.APIPrefix)

	userRepo := repository.NewUserRepository(db)
	authSvc := service.NewAuthService(userRepo, nil, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            "timetable-api",
		Audience:          []string{"timetable-clients"},
	})
	authHandler := internalhandler.NewAuthHandler(authSvc)

	authRoutes := api.Group("/auth")
	authRoutes.POST("/login", authHandler.Login)

	catalogRepo := repository.NewCatalogRepository(db)
	prepEngine := prep.NewEngine(catalogRepo, logr)
	timetableSvc := service.NewTimetableService(catalogRepo, prepEngine, cacheSvc, metricsSvc, logr, service.TimetableServiceConfig{
		TimeBudget:  cfg.Solver.TimeBudget,
		Workers:     cfg.Solver.Workers,
		ResortEvery: cfg.Solver.ReSortEvery,
		Debug:       cfg.Solver.Debug,
	})
	querySvc := service.NewQueryService(catalogRepo, cacheSvc, service.QueryServiceConfig{CacheTTL: cfg.Cache.TTL})

	exportStore, err := storage.NewLocalStorage(cfg.Export.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init export storage", "error", err)
	}
	exportSigner := storage.NewSignedURLSigner(cfg.Export.SignedURLSecret, cfg.Export.SignedURLTTL)
	exportSvc := service.NewExportService(exportStore, exportSigner, service.ExportConfig{
		APIPrefix: cfg.APIPrefix,
		ResultTTL: cfg.Export.SignedURLTTL,
	}, logr, export.NewCSVExporter(), export.NewPDFExporter())

	cleanupQueue := jobs.NewQueue("export-cleanup", exportCleanupHandler(exportSvc, logr), jobs.QueueConfig{
		Workers: 1,
		Logger:  logr,
	})
	cleanupCtx, stopCleanup := context.WithCancel(context.Background())
	defer stopCleanup()
	cleanupQueue.Start(cleanupCtx)
	defer cleanupQueue.Stop()
	go runExportCleanupSchedule(cleanupCtx, cleanupQueue, cfg.Export.SignedURLTTL, logr)

	timetableHandler := internalhandler.NewTimetableHandler(timetableSvc, querySvc, exportSvc)
	teacherHandler := internalhandler.NewTeacherTimetableHandler(querySvc)
	batchHandler := internalhandler.NewBatchTimetableHandler(querySvc)

	api.GET("/export/:token", timetableHandler.DownloadExport)

	queries := api.Group("")
	queries.Use(internalmiddleware.JWT(authSvc))
	queries.GET("/timetable/full", timetableHandler.FullTimetable)
	queries.GET("/timetable/full/export", timetableHandler.ExportFullTimetable)
	queries.GET("/teachers/:id/timetable", teacherHandler.Timetable)
	queries.GET("/batches/:id/timetable", batchHandler.Timetable)
	queries.GET("/batches/:id/free-slots", batchHandler.FreeSlots)

	admin := api.Group("/admin")
	admin.Use(internalmiddleware.JWT(authSvc))
	admin.Use(internalmiddleware.RBAC(string(models.RoleAdmin), string(models.RoleSuperAdmin)))
	admin.Use(internalmiddleware.Audit(userRepo, "auto_prepare", "timetable"))
	admin.POST("/auto-prepare", timetableHandler.AutoPrepare)

	generate := api.Group("")
	generate.Use(internalmiddleware.JWT(authSvc))
	generate.Use(internalmiddleware.RBAC(string(models.RoleAdmin), string(models.RoleSuperAdmin)))
	generate.Use(internalmiddleware.Audit(userRepo, "generate_timetable", "timetable"))
	generate.Use(internalmiddleware.SerializeSolves())
	generate.POST("/generate-timetable", timetableHandler.GenerateTimetable)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

// exportCleanupHandler sweeps export files older than the configured
// signed-URL lifetime, since a download link past its TTL has no valid
// token pointing at it anymore (§6 `/export/:token`).
func exportCleanupHandler(exportSvc *service.ExportService, logr *zap.Logger) jobs.Handler {
	return func(_ context.Context, job jobs.Job) error {
		removed, err := exportSvc.Cleanup(0)
		if err != nil {
			return err
		}
		if len(removed) > 0 {
			logr.Sugar().Infow("export cleanup removed stale files", "job_id", job.ID, "count", len(removed))
		}
		return nil
	}
}

// runExportCleanupSchedule enqueues a cleanup job on a fixed interval until
// ctx is cancelled.
func runExportCleanupSchedule(ctx context.Context, queue *jobs.Queue, ttl time.Duration, logr *zap.Logger) {
	interval := ttl / 2
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case t := <-ticker.C:
			job := jobs.Job{ID: fmt.Sprintf("cleanup-%d", t.Unix()), Type: "export_cleanup"}
			if err := queue.Enqueue(job); err != nil {
				logr.Sugar().Warnw("failed to enqueue export cleanup job", "error", err)
			}
		}
	}
}

func registerPprof(r *gin.Engine) {
	group := r.Group("/debug/pprof")
	group.GET("/", gin.WrapF(pprof.Index))
	group.GET("/cmdline", gin.WrapF(pprof.Cmdline))
	group.GET("/profile", gin.WrapF(pprof.Profile))
	group.POST("/symbol", gin.WrapF(pprof.Symbol))
	group.GET("/symbol", gin.WrapF(pprof.Symbol))
	group.GET("/trace", gin.WrapF(pprof.Trace))
	group.GET("/allocs", gin.WrapH(pprof.Handler("allocs")))
	group.GET("/block", gin.WrapH(pprof.Handler("block")))
	group.GET("/goroutine", gin.WrapH(pprof.Handler("goroutine")))
	group.GET("/heap", gin.WrapH(pprof.Handler("heap")))
	group.GET("/mutex", gin.WrapH(pprof.Handler("mutex")))
	group.GET("/threadcreate", gin.WrapH(pprof.Handler("threadcreate")))
}
