package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"gistsync-api/internal/core/auth"
	"gistsync-api/internal/core/server"
	mdw "gistsync-api/internal/transport/http/middleware"
	resp "gistsync-api/internal/transport/http/response"
)

type Options struct {
	CORSOrigin     string
	RequestTimeout time.Duration
	MaxInFlight    int64
	MaxBodyBytes   int64
}

func NewAPIEngine(l *zap.Logger, o Options, mods ...APIModule) *gin.Engine {
	r := server.NewRouter(l, server.Options{
		CORSOrigin: o.CORSOrigin,
		SkipPaths:  []string{"/health", "/metrics"},
		Fields: func(c *gin.Context) []zapcore.Field {
			return []zapcore.Field{zap.String("rid", mdw.RequestIDFrom(c))}
		},
	})

	// 中间件
	r.Use(
		mdw.RequestID(),
		mdw.Metrics(),
		mdw.Timeout(o.RequestTimeout),
		mdw.ConcurrencyLimit(o.MaxInFlight),
		mdw.MaxBodyBytes(o.MaxBodyBytes),
		mdw.Token(auth.CookieName),
	)

	r.NoRoute(func(c *gin.Context) { resp.Abort(c, http.StatusNotFound, resp.MsgNotFound) })

	MountAll(&r.RouterGroup, append([]APIModule{opsRoutes{}}, mods...)...)
	return r
}

// opsRoutes 健康检查 + 指标
type opsRoutes struct{}

func (opsRoutes) Priority() int { return 0 }

func (opsRoutes) MountAPI(g *gin.RouterGroup) {
	g.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	g.GET("/metrics", mdw.MetricsHandler())
}
