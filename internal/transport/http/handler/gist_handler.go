package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gistsync-api/internal/feature/user"
	"gistsync-api/internal/transport/http/ez"
)

type GistHandler struct {
	gists user.GistVerifier
}

func NewGistHandler(v user.GistVerifier) *GistHandler { return &GistHandler{gists: v} }

type validateOut struct {
	GistID string   `json:"gist_id"`
	Files  []string `json:"files"`
}

func (h *GistHandler) MountAPI(g *gin.RouterGroup) {
	ez.RegisterAction(ez.New(g), ez.Action[struct{}, validateOut]{
		Method: http.MethodGet,
		Path:   "/validateGist/:id",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (validateOut, error) {
			id := c.Param("id")
			files, err := h.gists.Verify(c.Request.Context(), id)
			if err != nil {
				return validateOut{}, err
			}
			return validateOut{GistID: id, Files: files}, nil
		},
	})
}
