package main

import (
	"context"
	"time"

	"github.com/joho/godotenv"
	flag "github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"gistsync-api/internal/core/config"
	"gistsync-api/internal/core/database"
	"gistsync-api/internal/core/logger"
	"gistsync-api/internal/repo"
)

// seed：建表并写入演示账号与查找表，可重复执行
func main() {
	cfgPath := flag.StringP("config", "c", "", "config file (default $CONFIG_PATH or "+config.DefaultPath+")")
	migrate := flag.Bool("migrate", true, "run AutoMigrate before seeding")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load(*cfgPath)
	log, cleanup := logger.New(cfg.Log.Level, cfg.Log.JSON)
	defer cleanup()

	if cfg.DB.Driver == "memory" {
		log.Fatal("seed needs a real database; db.driver is memory")
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
		SlowThresholdMs:    cfg.DB.SlowThresholdMs,
		Writer:             logger.ToStdLogger(log.Named("gorm"), zapcore.WarnLevel),
	})
	if err != nil {
		log.Fatal("db open", zap.Error(err))
	}

	if *migrate {
		if err := db.AutoMigrate(repo.Models()...); err != nil {
			log.Fatal("automigrate failed", zap.Error(err))
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	s := repo.DefaultSeed(cfg.Demo.UserID, cfg.Demo.GistID, time.Now().UTC().Truncate(time.Millisecond))
	if err := repo.Seed(ctx, db, s); err != nil {
		log.Fatal("seed failed", zap.Error(err))
	}
	log.Info("seed done",
		zap.String("demo_user", s.Demo.Username),
		zap.Int("categories", len(s.Categories)),
		zap.Int("file_types", len(s.FileTypes)),
		zap.Int("files", len(s.Files)),
	)
}
