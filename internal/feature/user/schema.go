package user

import (
	"sort"

	"gistsync-api/internal/domain"
)

// Body 未定型的请求体；nil 表示没有请求体
type Body map[string]any

func (b Body) Has(k string) bool {
	_, ok := b[k]
	return ok
}

// Str 取字符串字段；不存在或不是字符串时 ok=false
func (b Body) Str(k string) (string, bool) {
	v, ok := b[k]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Schema 每个操作声明的字段集合
type Schema struct {
	Required []string
	Optional []string
	Nullable []string
	Unknown  func(fields []string) error // 多余字段的报错方式（create 与 update 文案不同）
}

var (
	CreateSchema = Schema{
		Required: []string{"gist_id", "username", "email", "password"},
		Optional: []string{"name"},
		Nullable: []string{"name"},
		Unknown:  domain.ExtraFields,
	}
	UpdateSchema = Schema{
		Optional: []string{"name", "username", "email", "gist_id", "password", "currentPassword"},
		Nullable: []string{"name"},
		Unknown:  domain.InvalidFields,
	}
	LoginSchema = Schema{
		Required: []string{"login", "password"},
		Unknown:  domain.ExtraFields,
	}
)

func contains(list []string, k string) bool {
	for _, v := range list {
		if v == k {
			return true
		}
	}
	return false
}

func (s Schema) allows(k string) bool { return contains(s.Required, k) || contains(s.Optional, k) }

// Missing 按声明顺序返回缺失的必填字段；null 与空串都算缺失
func (s Schema) Missing(b Body) []string {
	var out []string
	for _, k := range s.Required {
		v, ok := b[k]
		if !ok || v == nil || v == "" {
			out = append(out, k)
		}
	}
	return out
}

// Unexpected 返回不在 schema 内的字段（排序后）
func (s Schema) Unexpected(b Body) []string {
	var out []string
	for k := range b {
		if !s.allows(k) {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

// Check 先报缺失，再报多余，同类错误一次性列全
func (s Schema) Check(b Body) error {
	if missing := s.Missing(b); len(missing) > 0 {
		return domain.MissingFields(missing)
	}
	if extra := s.Unexpected(b); len(extra) > 0 {
		return s.Unknown(extra)
	}
	return nil
}

// CheckTypes 已声明字段的值必须是字符串（Nullable 字段允许 null）
func (s Schema) CheckTypes(b Body) error {
	for _, k := range append(append([]string{}, s.Required...), s.Optional...) {
		v, ok := b[k]
		if !ok {
			continue
		}
		if v == nil && contains(s.Nullable, k) {
			continue
		}
		if _, isStr := v.(string); !isStr {
			return domain.InvalidValue(k)
		}
	}
	return nil
}
