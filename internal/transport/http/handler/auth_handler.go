package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gistsync-api/internal/feature/user"
	"gistsync-api/internal/transport/http/ez"
)

// AuthHandler 登录发 cookie，登出清 cookie
type AuthHandler struct {
	users *UserHandler
}

func NewAuthHandler(users *UserHandler) *AuthHandler { return &AuthHandler{users: users} }

type loginOut struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

func (h *AuthHandler) MountAPI(g *gin.RouterGroup) {
	e := ez.New(g)

	ez.RegisterAction(e, ez.Action[user.Body, loginOut]{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Binder: ez.BindBody,
		Handler: func(c *gin.Context, in *user.Body) (loginOut, error) {
			u, err := h.users.svc.Login(c.Request.Context(), *in)
			if err != nil {
				return loginOut{}, err
			}
			if err := h.users.signIn(c, u.ID); err != nil {
				return loginOut{}, err
			}
			return loginOut{ID: u.ID, Username: u.Username}, nil
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, struct{}]{
		Method: http.MethodPost,
		Path:   "/auth/logout",
		Binder: ez.BindNone,
		Status: http.StatusNoContent,
		Handler: func(c *gin.Context, _ *struct{}) (struct{}, error) {
			h.users.cookie.Clear(c)
			return struct{}{}, nil
		},
	})
}

// Priority 认证路由先挂
func (h *AuthHandler) Priority() int { return 10 }
