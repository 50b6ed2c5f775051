package response

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"gistsync-api/internal/domain"
)

// ErrorBody 所有失败响应的统一结构
type ErrorBody struct {
	Error string `json:"error"`
}

func Error(msg string) ErrorBody { return ErrorBody{Error: msg} }

func Abort(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, Error(msg))
}

// Fail 把错误映射成状态码 + {error}；内部原因挂到 c.Errors 由访问日志输出
func Fail(c *gin.Context, err error) {
	var (
		de  *domain.Error
		mbe *http.MaxBytesError
	)
	switch {
	case errors.As(err, &de) && de.Kind != domain.KindInternal:
		if de.Err != nil {
			_ = c.Error(de.Err)
		}
		Abort(c, StatusOf(de.Kind), de.Msg)
	case errors.As(err, &mbe):
		Abort(c, http.StatusRequestEntityTooLarge, MsgBodyTooLarge)
	case errors.Is(err, context.DeadlineExceeded):
		_ = c.Error(err)
		Abort(c, http.StatusGatewayTimeout, MsgTimeout)
	default:
		_ = c.Error(err)
		Abort(c, http.StatusInternalServerError, MsgInternal)
	}
}
