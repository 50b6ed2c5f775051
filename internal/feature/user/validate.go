package user

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"gistsync-api/internal/domain"
	"gistsync-api/pkg/utils"
)

const MaxUsernameLen = 36

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func ValidEmail(s string) bool { return emailRe.MatchString(s) }

// ValidUsername 1..36 个字符，不含空白
func ValidUsername(s string) bool {
	n := utf8.RuneCountInString(s)
	if n == 0 || n > MaxUsernameLen {
		return false
	}
	return strings.IndexFunc(s, unicode.IsSpace) < 0
}

// ValidateID 路径参数必须是 UUID
func ValidateID(id string) error {
	if !utils.IsUUID(id) {
		return domain.InvalidUUID(id)
	}
	return nil
}

// CheckFormat 只校验请求体中出现的字段
func CheckFormat(b Body) error {
	if v, ok := b.Str("email"); ok && !ValidEmail(v) {
		return domain.InvalidEmail(v)
	}
	if v, ok := b.Str("username"); ok && !ValidUsername(v) {
		return domain.InvalidUsername(v)
	}
	if v, ok := b.Str("password"); ok && v == "" {
		return domain.InvalidValue("password")
	}
	return nil
}
