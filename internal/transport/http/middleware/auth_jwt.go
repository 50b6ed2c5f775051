package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const KeyToken = "token"

// Token 只负责取出 token（cookie 优先，其次 Bearer 头），是否有效交给 user.Gate 判断
func Token(cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok, err := c.Cookie(cookieName)
		if err != nil || tok == "" {
			if ah := c.GetHeader("Authorization"); strings.HasPrefix(ah, "Bearer ") {
				tok = strings.TrimSpace(strings.TrimPrefix(ah, "Bearer "))
			}
		}
		c.Set(KeyToken, tok)
		c.Next()
	}
}

func TokenFrom(c *gin.Context) string { return c.GetString(KeyToken) }
