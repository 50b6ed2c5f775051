package response

import (
	"net/http"

	"gistsync-api/internal/domain"
)

// 对外固定文案
const (
	MsgNotFound     = "Not Found"
	MsgInternal     = "Internal Server Error"
	MsgTimeout      = "Gateway Timeout"
	MsgBodyTooLarge = "Request Entity Too Large"
	MsgInvalidJSON  = "Invalid JSON"
	MsgServerBusy   = "Service Unavailable"
)

// kindStatus 业务错误类别 → HTTP 状态码
var kindStatus = map[domain.Kind]int{
	domain.KindValidation:         http.StatusBadRequest,
	domain.KindConflict:           http.StatusBadRequest,
	domain.KindNotFound:           http.StatusBadRequest,
	domain.KindUpstream:           http.StatusBadRequest,
	domain.KindMissingToken:       http.StatusForbidden,
	domain.KindInvalidToken:       http.StatusForbidden,
	domain.KindUnauthorized:       http.StatusForbidden,
	domain.KindPolicy:             http.StatusForbidden,
	domain.KindMissingPassword:    http.StatusUnauthorized,
	domain.KindInvalidPassword:    http.StatusUnauthorized,
	domain.KindInvalidCredentials: http.StatusUnauthorized,
}

// StatusOf 未登记的类别一律 500
func StatusOf(k domain.Kind) int {
	if s, ok := kindStatus[k]; ok {
		return s
	}
	return http.StatusInternalServerError
}
