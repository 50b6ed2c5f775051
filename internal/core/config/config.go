package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type HTTP struct {
	Host              string `mapstructure:"host"`
	Port              int    `mapstructure:"port"`
	ReadTimeoutSec    int    `mapstructure:"read_timeout_sec"`
	WriteTimeoutSec   int    `mapstructure:"write_timeout_sec"`
	IdleTimeoutSec    int    `mapstructure:"idle_timeout_sec"`
	RequestTimeoutSec int    `mapstructure:"request_timeout_sec"`
	MaxInFlight       int64  `mapstructure:"max_in_flight"`
	MaxBodyBytes      int64  `mapstructure:"max_body_bytes"`
}

type App struct {
	Name       string `mapstructure:"name"`
	Env        string `mapstructure:"env"`
	CORSOrigin string `mapstructure:"cors_origin"`
	HTTP       HTTP   `mapstructure:"http"`
}

func (a App) IsProduction() bool { return a.Env == "production" }

type LogFile struct {
	Enable     bool   `mapstructure:"enable"`
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

type Log struct {
	Level string  `mapstructure:"level"`
	JSON  bool    `mapstructure:"json"`
	File  LogFile `mapstructure:"file"`
}

type JWT struct {
	Secret   string `mapstructure:"secret"`
	Issuer   string `mapstructure:"issuer"`
	TTLHours int    `mapstructure:"ttl_hours"`
}

type Redis struct {
	Addr       string `mapstructure:"addr"` // 为空则不启用缓存
	Password   string `mapstructure:"password"`
	DB         int    `mapstructure:"db"`
	GistTTLSec int    `mapstructure:"gist_ttl_sec"`
}

type DB struct {
	Driver             string `mapstructure:"driver"` // postgres / mysql / memory
	DSN                string `mapstructure:"dsn"`
	Username           string `mapstructure:"username"`
	Password           string `mapstructure:"password"`
	MaxOpenConns       int    `mapstructure:"max_open_conns"`
	MaxIdleConns       int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeMin int    `mapstructure:"conn_max_lifetime_min"`
	AutoMigrate        bool   `mapstructure:"auto_migrate"`
	Seed               bool   `mapstructure:"seed"`
	LogLevel           string `mapstructure:"log_level"`
	SlowThresholdMs    int    `mapstructure:"slow_threshold_ms"`
}

type Gist struct {
	BaseURL    string `mapstructure:"base_url"`
	Token      string `mapstructure:"token"`
	MarkerFile string `mapstructure:"marker_file"`
	TimeoutSec int    `mapstructure:"timeout_sec"`
}

type Demo struct {
	UserID string `mapstructure:"user_id"`
	GistID string `mapstructure:"gist_id"`
}

type Config struct {
	App   App   `mapstructure:"app"`
	Log   Log   `mapstructure:"log"`
	JWT   JWT   `mapstructure:"jwt"`
	DB    DB    `mapstructure:"db"`
	Redis Redis `mapstructure:"redis"`
	Gist  Gist  `mapstructure:"gist"`
	Demo  Demo  `mapstructure:"demo"`
}

const DefaultPath = "./configs/config.local.yaml"

func defaults(v *viper.Viper) {
	v.SetDefault("app.name", "gistsync-api")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.cors_origin", "http://localhost:3000")
	v.SetDefault("app.http.host", "0.0.0.0")
	v.SetDefault("app.http.port", 8080)
	v.SetDefault("app.http.read_timeout_sec", 5)
	v.SetDefault("app.http.write_timeout_sec", 10)
	v.SetDefault("app.http.idle_timeout_sec", 60)
	v.SetDefault("app.http.request_timeout_sec", 10)
	v.SetDefault("app.http.max_in_flight", 300)
	v.SetDefault("app.http.max_body_bytes", 1<<20)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
	v.SetDefault("log.file.enable", false)
	v.SetDefault("log.file.filename", "logs/app.log")
	v.SetDefault("log.file.max_size_mb", 100)
	v.SetDefault("log.file.max_backups", 7)
	v.SetDefault("log.file.max_age_days", 30)
	v.SetDefault("log.file.compress", true)

	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.issuer", "")
	v.SetDefault("jwt.ttl_hours", 48)

	v.SetDefault("db.driver", "postgres")
	v.SetDefault("db.dsn", "")
	v.SetDefault("db.username", "")
	v.SetDefault("db.password", "")
	v.SetDefault("db.max_open_conns", 20)
	v.SetDefault("db.max_idle_conns", 10)
	v.SetDefault("db.conn_max_lifetime_min", 30)
	v.SetDefault("db.auto_migrate", true)
	v.SetDefault("db.seed", false)
	v.SetDefault("db.log_level", "warn")
	v.SetDefault("db.slow_threshold_ms", 200)

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.gist_ttl_sec", 300)

	v.SetDefault("gist.base_url", "https://api.github.com")
	v.SetDefault("gist.token", "")
	v.SetDefault("gist.marker_file", "gistsync.sh")
	v.SetDefault("gist.timeout_sec", 5)

	v.SetDefault("demo.user_id", "1ee370d1-2ef3-4c0e-b0f3-6ffccc697dd0")
	v.SetDefault("demo.gist_id", "5fb484f659ccc54a493d4295d6346a39")
}

// 兼容旧部署的环境变量名
var legacyEnv = map[string]string{
	"jwt.secret":       "JWT_KEY",
	"app.cors_origin":  "APP_URL",
	"app.env":          "NODE_ENV",
	"db.dsn":           "DATABASE_URL",
	"gist.marker_file": "GIST_MARKER",
	"demo.gist_id":     "GIST_ID",
}

// Read 配置文件不存在时仅使用默认值 + 环境变量
func Read(path string) (*Config, error) {
	v := viper.New()
	defaults(v)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range legacyEnv {
		_ = v.BindEnv(key, "APP_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) validate() error {
	if c.JWT.Secret == "" {
		return errors.New("config: jwt.secret is required (APP_JWT_SECRET or JWT_KEY)")
	}
	if c.Gist.MarkerFile == "" {
		return errors.New("config: gist.marker_file is required")
	}
	return nil
}

// Load 启动期使用：失败直接退出
func Load(path string) *Config {
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		if path == "" {
			path = DefaultPath
		}
	}
	c, err := Read(path)
	if err != nil {
		log.Fatalf("%v", err)
	}
	return c
}
