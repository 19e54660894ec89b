package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	_ "go.uber.org/automaxprocs"

	"memotheque/internal/backup"
	"memotheque/internal/core/auth"
	"memotheque/internal/core/cache"
	"memotheque/internal/core/config"
	"memotheque/internal/core/database"
	"memotheque/internal/core/logger"
	"memotheque/internal/core/server"
	"memotheque/internal/domain"
	"memotheque/internal/flow"
	"memotheque/internal/service"
	"memotheque/internal/storage"
	"memotheque/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load("")
	var l *zap.Logger
	var flush func()
	if rot := cfg.Log.Rotate; rot.Enable {
		l, flush = logger.NewWithRotate(cfg.Log.Level, cfg.Log.JSON,
			rot.Filename, rot.MaxSizeMB, rot.MaxBackups, rot.MaxAgeDays, rot.Compress)
	} else {
		l, flush = logger.New(cfg.Log.Level, cfg.Log.JSON)
	}
	defer flush()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// sqlite 单文件模式下先从 S3 拉快照再开库
	var bk *backup.Manager
	if cfg.Backup.Enabled && cfg.DB.Driver == "sqlite" {
		var err error
		bk, err = backup.New(ctx, cfg.Backup, cfg.DB.DSN, l)
		if err != nil {
			l.Fatal("backup init", zap.Error(err))
		}
		if err = bk.Restore(ctx); err != nil {
			l.Fatal("backup restore", zap.Error(err))
		}
	}

	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
	})
	if err != nil {
		l.Fatal("open database", zap.Error(err))
	}
	if cfg.DB.AutoMigrate {
		if err = db.AutoMigrate(domain.AllModels()...); err != nil {
			l.Fatal("auto migrate", zap.Error(err))
		}
	}

	activity := service.NewActivity(db)
	accounts := service.NewAccounts(db, activity, l)
	if err = accounts.SeedAdmin(ctx, cfg.Seed.AdminEmail, cfg.Seed.AdminPassword); err != nil {
		l.Fatal("seed admin", zap.Error(err))
	}

	// redis 可选：没配地址就退化为直查 + 进程内导航状态
	var c *cache.Cache
	var flowStore flow.Store = flow.NewMemoryStore()
	if cfg.Redis.Addr != "" {
		c = cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		flowStore = flow.NewRedisStore(c.RDB)
	}
	stats := service.NewStats(db, c)

	primary, err := storage.NewFromConfig(ctx, cfg.Storage)
	if err != nil {
		l.Fatal("storage init", zap.Error(err))
	}
	files := storage.NewSet(primary)
	theses := service.NewTheses(db, files, activity, stats, cfg.Storage)

	jwter := &auth.JWTer{
		Secret: []byte(cfg.JWT.Secret),
		Issuer: cfg.JWT.Issuer,
		TTL:    time.Duration(cfg.JWT.AccessTokenTTLMin) * time.Minute,
	}

	engine := router.NewEngine(l, router.Deps{
		DB:        db,
		JWT:       jwter,
		Accounts:  accounts,
		Lookups:   service.NewLookups(db, activity),
		Theses:    theses,
		Stats:     stats,
		Activity:  activity,
		Favorites: service.NewFavorites(db),
		Flow:      flowStore,
		MaxBody:   cfg.Storage.MaxUploadBytes,
	})

	srv := server.BuildServer(
		server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port),
		engine,
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
	)

	go func() {
		l.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Fatal("listen", zap.Error(err))
		}
	}()

	<-ctx.Done()
	l.Info("shutting down")

	shCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shCtx); err != nil {
		l.Warn("shutdown", zap.Error(err))
	}

	// 关库后推一次快照
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	if bk != nil {
		if err := bk.Push(shCtx); err != nil {
			l.Warn("backup push", zap.Error(err))
		}
	}
}
