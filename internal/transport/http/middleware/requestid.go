package middleware

import (
	"github.com/gin-gonic/gin"

	"gistsync-api/pkg/utils"
)

const (
	HeaderRequestID = "X-Request-ID"
	keyRequestID    = "rid"
	maxRequestIDLen = 64
)

// RequestID 透传上游的请求 id（过长则丢弃重新生成），并回写到响应头
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(HeaderRequestID)
		if rid == "" || len(rid) > maxRequestIDLen {
			rid = utils.NewID()
		}
		c.Header(HeaderRequestID, rid)
		c.Set(keyRequestID, rid)
		c.Next()
	}
}

func RequestIDFrom(c *gin.Context) string { return c.GetString(keyRequestID) }
