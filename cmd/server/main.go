package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/perfdash/internal/config"
	"github.com/mamadbah2/perfdash/internal/metrics"
	"github.com/mamadbah2/perfdash/internal/repository/cache"
	"github.com/mamadbah2/perfdash/internal/repository/mongodb"
	"github.com/mamadbah2/perfdash/internal/repository/sheets"
	"github.com/mamadbah2/perfdash/internal/scheduler"
	"github.com/mamadbah2/perfdash/internal/server/handlers"
	"github.com/mamadbah2/perfdash/internal/server/router"
	dashboardsvc "github.com/mamadbah2/perfdash/internal/service/dashboard"
	notifysvc "github.com/mamadbah2/perfdash/internal/service/notify"
	reportingsvc "github.com/mamadbah2/perfdash/internal/service/reporting"
	taskssvc "github.com/mamadbah2/perfdash/internal/service/tasks"
	"github.com/mamadbah2/perfdash/pkg/clients/monday"
	"github.com/mamadbah2/perfdash/pkg/clients/slack"
	"github.com/mamadbah2/perfdash/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Server.LogLevel))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)
	decimal.MarshalJSONWithoutQuotes = true
	gin.SetMode(gin.ReleaseMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder, err := metrics.New(registry)
	if err != nil {
		baseLogger.Fatal("failed to register metrics", zap.Error(err))
	}

	var store cache.Cache
	if cfg.Redis.Addr != "" {
		redisCache, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			baseLogger.Fatal("failed to connect to redis", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		}
		defer func() { _ = redisCache.Close() }()
		store = redisCache
		baseLogger.Info("redis cache enabled", zap.String("addr", cfg.Redis.Addr))
	} else {
		store = cache.NewMemory()
		baseLogger.Info("in-memory cache enabled")
	}

	var sheetsRepo sheets.Repository
	if cfg.Sheets.Configured() {
		googleRepo, err := sheets.NewGoogleSheetRepository(ctx, cfg.Sheets, recorder, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		sheetsRepo = sheets.NewCachedRepository(googleRepo, store, googleRepo.SpreadsheetID(), cfg.Cache.TTL, recorder, baseLogger.Named("repo.sheets.cache"))
	} else {
		baseLogger.Warn("google sheets not configured, dashboard endpoints disabled", zap.Strings("missing", cfg.Sheets.Missing()))
	}

	loc, err := time.LoadLocation(cfg.Reporting.Timezone)
	if err != nil {
		baseLogger.Fatal("failed to load timezone", zap.Error(err))
	}

	dashboardSvc := dashboardsvc.NewService(sheetsRepo, dashboardsvc.Options{
		Ranges:          cfg.Sheets.Ranges,
		ProjectionDays:  cfg.Reporting.ProjectionDays,
		ExcludeWeekends: cfg.Reporting.ExcludeWeekends,
		Location:        loc,
		Missing:         cfg.Sheets.Missing(),
	}, baseLogger.Named("svc.dashboard"))

	notifySvc := notifysvc.NewService(cfg.Slack, slack.NewClient(recorder), baseLogger.Named("svc.notify"))
	if !notifySvc.Configured() {
		baseLogger.Warn("slack webhook not configured, notifications disabled")
	}

	var mondayClient monday.Client
	if cfg.Monday.APIToken != "" && cfg.Monday.BoardID != "" {
		mondayClient = monday.NewClient(cfg.Monday, recorder)
	} else {
		baseLogger.Warn("monday.com not configured, task endpoints disabled")
	}
	tasksSvc := taskssvc.NewService(cfg.Monday, mondayClient, store, cfg.Cache.TTL, baseLogger.Named("svc.tasks"))

	var archive reportingsvc.Archive
	if cfg.MongoDB.URI != "" {
		mongoRepo, err := mongodb.NewMongoDBRepository(ctx, cfg.MongoDB.URI, cfg.MongoDB.DBName)
		if err != nil {
			baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
		}
		defer func() {
			if err := mongoRepo.Close(context.Background()); err != nil {
				baseLogger.Error("failed to close mongodb connection", zap.Error(err))
			}
		}()
		archive = mongoRepo
	} else {
		baseLogger.Info("mongodb not configured, summaries will not be archived")
	}

	reportingSvc := reportingsvc.NewService(dashboardSvc, notifySvc, archive, cfg.Reporting.Channel, baseLogger.Named("svc.reporting"))

	engine := router.New(router.Handlers{
		Dashboard: handlers.NewDashboardHandler(dashboardSvc, baseLogger.Named("handlers.dashboard")),
		Slack:     handlers.NewSlackHandler(notifySvc, reportingSvc, baseLogger.Named("handlers.slack")),
		Tasks:     handlers.NewTasksHandler(tasksSvc, baseLogger.Named("handlers.tasks")),
	}, cfg.CORS, registry, baseLogger.Named("router"))

	sched, err := scheduler.NewScheduler(cfg.Reporting, reportingSvc, baseLogger.Named("scheduler"))
	if err != nil {
		baseLogger.Fatal("failed to init scheduler", zap.Error(err))
	}
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
