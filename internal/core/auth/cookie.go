package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const CookieName = "token"

type Cookie struct {
	Name   string
	Secure bool // production 环境开启
	MaxAge int  // 秒
	Path   string
}

func NewCookie(secure bool) Cookie {
	return Cookie{
		Name:   CookieName,
		Secure: secure,
		MaxAge: int(DefaultTTL.Seconds()),
		Path:   "/",
	}
}

func (ck Cookie) Set(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(ck.Name, token, ck.MaxAge, ck.Path, "", ck.Secure, true)
}

func (ck Cookie) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(ck.Name, "", -1, ck.Path, "", ck.Secure, true)
}
