package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gistsync-api/internal/domain"
	"gistsync-api/internal/transport/http/ez"
)

// LookupHandler 只读查找表
type LookupHandler struct {
	repo domain.LookupRepository
}

func NewLookupHandler(r domain.LookupRepository) *LookupHandler { return &LookupHandler{repo: r} }

func (h *LookupHandler) MountAPI(g *gin.RouterGroup) {
	e := ez.New(g)

	ez.RegisterAction(e, ez.Action[struct{}, []domain.Category]{
		Method: http.MethodGet, Path: "/categories", Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.Category, error) {
			return h.repo.Categories(c.Request.Context())
		},
	})
	ez.RegisterAction(e, ez.Action[struct{}, []domain.FileType]{
		Method: http.MethodGet, Path: "/fileTypes", Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.FileType, error) {
			return h.repo.FileTypes(c.Request.Context())
		},
	})
	ez.RegisterAction(e, ez.Action[struct{}, []domain.File]{
		Method: http.MethodGet, Path: "/files", Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.File, error) {
			return h.repo.Files(c.Request.Context())
		},
	})
}
