package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"gistsync-api/internal/core/auth"
	"gistsync-api/internal/domain"
	"gistsync-api/internal/feature/user"
	"gistsync-api/internal/transport/http/ez"
	mdw "gistsync-api/internal/transport/http/middleware"
)

type TokenIssuer interface {
	Issue(userID string) (string, error)
}

// UserHandler /users 的 CRUD
type UserHandler struct {
	svc    *user.Service
	tokens TokenIssuer
	cookie auth.Cookie
}

func NewUserHandler(svc *user.Service, tokens TokenIssuer, cookie auth.Cookie) *UserHandler {
	return &UserHandler{svc: svc, tokens: tokens, cookie: cookie}
}

type createOut struct {
	NewUser string `json:"new_user"`
}

func (h *UserHandler) MountAPI(g *gin.RouterGroup) {
	e := ez.New(g)

	ez.RegisterAction(e, ez.Action[user.Body, createOut]{
		Method: http.MethodPost,
		Path:   "/users",
		Binder: ez.BindBody,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *user.Body) (createOut, error) {
			u, err := h.svc.Create(c.Request.Context(), *in)
			if err != nil {
				return createOut{}, err
			}
			if err := h.signIn(c, u.ID); err != nil {
				return createOut{}, err
			}
			return createOut{NewUser: u.Username}, nil
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, []domain.PublicUser]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.PublicUser, error) {
			return h.svc.List(c.Request.Context())
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, *domain.User]{
		Method: http.MethodGet,
		Path:   "/users/:id",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.User, error) {
			return h.svc.Get(c.Request.Context(), mdw.TokenFrom(c), c.Param("id"))
		},
	})

	ez.RegisterAction(e, ez.Action[user.Body, *domain.User]{
		Method: http.MethodPut,
		Path:   "/users/:id",
		Binder: ez.BindBody,
		Handler: func(c *gin.Context, in *user.Body) (*domain.User, error) {
			return h.svc.Update(c.Request.Context(), mdw.TokenFrom(c), c.Param("id"), *in)
		},
	})

	ez.RegisterAction(e, ez.Action[user.Body, struct{}]{
		Method: http.MethodDelete,
		Path:   "/users/:id",
		Binder: ez.BindBody,
		Status: http.StatusNoContent,
		Handler: func(c *gin.Context, in *user.Body) (struct{}, error) {
			return struct{}{}, h.svc.Delete(c.Request.Context(), mdw.TokenFrom(c), c.Param("id"), *in)
		},
	})
}

// signIn 签发 token 并写 cookie
func (h *UserHandler) signIn(c *gin.Context, userID string) error {
	tok, err := h.tokens.Issue(userID)
	if err != nil {
		return fmt.Errorf("issue token: %w", err)
	}
	h.cookie.Set(c, tok)
	return nil
}
