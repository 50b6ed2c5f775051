package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"gistsync-api/internal/core/auth"
	"gistsync-api/internal/core/cache"
	"gistsync-api/internal/core/config"
	"gistsync-api/internal/core/database"
	"gistsync-api/internal/core/logger"
	"gistsync-api/internal/core/server"
	"gistsync-api/internal/domain"
	"gistsync-api/internal/feature/gist"
	"gistsync-api/internal/feature/user"
	"gistsync-api/internal/repo"
	"gistsync-api/internal/transport/http/handler"
	"gistsync-api/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load("")
	log, cleanup := newLogger(cfg)
	defer cleanup()
	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// 存储（memory 驱动用于本地演示）
	users, lookups := openStores(cfg, log)

	// gist 校验；配置了 redis 则走缓存
	gistTimeout := time.Duration(cfg.Gist.TimeoutSec) * time.Second
	var fetcher gist.Fetcher = gist.NewClient(cfg.Gist.BaseURL, cfg.Gist.Token, gistTimeout)
	if cfg.Redis.Addr != "" {
		c := cache.New(cache.Options{
			Addr:        cfg.Redis.Addr,
			Password:    cfg.Redis.Password,
			DB:          cfg.Redis.DB,
			Prefix:      cfg.App.Name + ":",
			LoadTimeout: gistTimeout,
		})
		defer func() { _ = c.Close() }()
		fetcher = &gist.CachedFetcher{Next: fetcher, Cache: c, TTL: time.Duration(cfg.Redis.GistTTLSec) * time.Second}
		log.Info("gist cache enabled", zap.String("redis", cfg.Redis.Addr))
	}
	verifier := gist.NewVerifier(fetcher, cfg.Gist.MarkerFile, gistTimeout, log.Named("gist"))

	// JWT
	jwter := &auth.JWTer{
		Secret: []byte(cfg.JWT.Secret),
		Issuer: cfg.JWT.Issuer,
		TTL:    time.Duration(cfg.JWT.TTLHours) * time.Hour,
	}

	svc := user.NewService(users, verifier, user.NewGate(jwter, cfg.Demo.UserID), log.Named("user"))
	uh := handler.NewUserHandler(svc, jwter, auth.NewCookie(cfg.App.IsProduction()))

	// 路由
	r := router.NewAPIEngine(log, router.Options{
		CORSOrigin:     cfg.App.CORSOrigin,
		RequestTimeout: time.Duration(cfg.App.HTTP.RequestTimeoutSec) * time.Second,
		MaxInFlight:    cfg.App.HTTP.MaxInFlight,
		MaxBodyBytes:   cfg.App.HTTP.MaxBodyBytes,
	},
		uh,
		handler.NewAuthHandler(uh),
		handler.NewLookupHandler(lookups),
		handler.NewGistHandler(verifier),
	)

	// HTTP Server
	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srv := server.BuildServer(
		addr, r,
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
	)

	// 启动日志
	host4human := cfg.App.HTTP.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(cfg.App.HTTP.Port)
	log.Info("api starting",
		zap.String("addr", addr),
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
		zap.String("env", cfg.App.Env),
	)

	// 异步启动
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("api start FAILED", zap.Error(err))
		}
	}()
	log.Info("api started SUCCESS")

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	log.Info("api stopped gracefully")
}

func newLogger(cfg *config.Config) (*zap.Logger, func()) {
	if !cfg.Log.File.Enable {
		return logger.New(cfg.Log.Level, cfg.Log.JSON)
	}
	f := cfg.Log.File
	return logger.NewWithRotate(cfg.Log.Level, cfg.Log.JSON, logger.FileRotate{
		Filename:   f.Filename,
		MaxSizeMB:  f.MaxSizeMB,
		MaxBackups: f.MaxBackups,
		MaxAgeDays: f.MaxAgeDays,
		Compress:   f.Compress,
	})
}

func openStores(cfg *config.Config, l *zap.Logger) (domain.UserRepository, domain.LookupRepository) {
	seed := repo.DefaultSeed(cfg.Demo.UserID, cfg.Demo.GistID, time.Now().UTC().Truncate(time.Millisecond))
	if cfg.DB.Driver == "memory" {
		l.Warn("using in-memory store; data is lost on restart")
		u, lk := seed.Memory()
		return u, lk
	}

	db := mustOpenDB(cfg, l)
	l.Info("database connected", zap.String("driver", cfg.DB.Driver))

	if cfg.DB.AutoMigrate {
		if err := db.AutoMigrate(repo.Models()...); err != nil {
			l.Fatal("automigrate failed", zap.Error(err))
		}
		l.Info("automigrate done")
	}
	if cfg.DB.Seed {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := repo.Seed(ctx, db, seed); err != nil {
			l.Fatal("seed failed", zap.Error(err))
		}
		l.Info("seed done")
	}
	return repo.NewUserRepo(db), repo.NewLookupRepo(db)
}

func mustOpenDB(cfg *config.Config, l *zap.Logger) *gorm.DB {
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
		SlowThresholdMs:    cfg.DB.SlowThresholdMs,
		Writer:             logger.ToStdLogger(l.Named("gorm"), zapcore.WarnLevel),
	})
	if err != nil {
		l.Fatal("db open", zap.Error(err))
	}
	return db
}
