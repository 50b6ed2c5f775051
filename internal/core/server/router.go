package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	resp "gistsync-api/internal/transport/http/response"
)

type Options struct {
	CORSOrigin string
	SkipPaths  []string // 不记访问日志的路径（/health、/metrics）
	Fields     func(c *gin.Context) []zapcore.Field
}

// NewRouter 基础引擎：访问日志 + panic 恢复 + CORS
func NewRouter(l *zap.Logger, o Options) *gin.Engine {
	r := gin.New()
	r.Use(ginzap.GinzapWithConfig(l, &ginzap.Config{
		TimeFormat: time.RFC3339,
		UTC:        true,
		SkipPaths:  o.SkipPaths,
		Context:    o.Fields,
	}))
	r.Use(ginzap.CustomRecoveryWithZap(l, true, func(c *gin.Context, _ any) {
		resp.Abort(c, http.StatusInternalServerError, resp.MsgInternal)
	}))
	if o.CORSOrigin == "" || o.CORSOrigin == "*" {
		l.Warn("cors allows any origin; credentialed cross-site requests are disabled")
	}
	r.Use(cors.New(corsConfig(o.CORSOrigin)))
	return r
}

func corsConfig(origin string) cors.Config {
	cfg := cors.Config{
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{"Origin", "X-Requested-With", "Content-Type", "Accept"},
		MaxAge:       12 * time.Hour,
	}
	if origin == "" || origin == "*" {
		// 任意来源只回 *，不放行 cookie
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = []string{origin}
		cfg.AllowCredentials = true
	}
	return cfg
}

func BuildServer(addr string, handler http.Handler, rt, wt, it time.Duration) *http.Server {
	return &http.Server{
		Addr:           addr,
		Handler:        handler,
		ReadTimeout:    rt,
		WriteTimeout:   wt,
		IdleTimeout:    it,
		MaxHeaderBytes: 1 << 20, // 1MB
	}
}

func Addr(host string, port int) string { return fmt.Sprintf("%s:%d", host, port) }
