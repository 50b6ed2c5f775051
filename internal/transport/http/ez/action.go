package ez

import (
	"bytes"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	resp "gistsync-api/internal/transport/http/response"
)

// EZ 对 RouterGroup 的轻封装，动作统一走 RegisterAction
type EZ struct{ g *gin.RouterGroup }

func New(g *gin.RouterGroup) EZ { return EZ{g: g} }

// 绑定方式
type Binder string

const (
	BindBody Binder = "body" // JSON 请求体；空请求体保持零值
	BindNone Binder = "none" // 不绑定，自己从 c.Param 取
)

// 动作定义：I 入参，O 出参
type Action[I any, O any] struct {
	Method  string // "GET" | "POST" | "PUT" | "DELETE"
	Path    string // 例："/users/:id"
	Binder  Binder
	Status  int // 成功状态码，默认 200；204 不写响应体
	Handler func(c *gin.Context, in *I) (O, error)
}

// RegisterAction 绑定 → 执行 → 统一错误映射
func RegisterAction[I any, O any](e EZ, a Action[I, O]) {
	status := a.Status
	if status == 0 {
		status = http.StatusOK
	}
	h := func(c *gin.Context) {
		var in I
		if a.Binder == BindBody {
			raw, err := io.ReadAll(c.Request.Body)
			if err != nil {
				resp.Fail(c, err)
				return
			}
			if len(bytes.TrimSpace(raw)) > 0 {
				if err := binding.JSON.BindBody(raw, &in); err != nil {
					resp.Abort(c, http.StatusBadRequest, resp.MsgInvalidJSON)
					return
				}
			}
		}

		out, err := a.Handler(c, &in)
		if err != nil {
			resp.Fail(c, err)
			return
		}
		if status == http.StatusNoContent {
			c.Status(status)
			return
		}
		c.JSON(status, out)
	}
	e.g.Handle(strings.ToUpper(a.Method), a.Path, h)
}
