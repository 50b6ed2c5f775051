package user

import (
	"errors"

	"gistsync-api/internal/core/auth"
	"gistsync-api/internal/domain"
)

type TokenVerifier interface {
	Verify(token string) (string, error)
}

// Gate 判断请求方是否可以操作目标用户
type Gate struct {
	tokens TokenVerifier
	demoID string
}

func NewGate(tokens TokenVerifier, demoID string) *Gate {
	return &Gate{tokens: tokens, demoID: demoID}
}

// Authorize token 缺失 → 无效（含过期）→ subject 不匹配，依次判断
func (g *Gate) Authorize(token, targetID string) error {
	sub, err := g.tokens.Verify(token)
	switch {
	case errors.Is(err, auth.ErrMissingToken):
		return domain.ErrMissingToken
	case err != nil:
		return domain.ErrInvalidToken
	case sub != targetID:
		return domain.ErrUnauthorized
	}
	return nil
}

// AllowMutation 演示账号禁止修改/删除；需在 Authorize 之后调用
func (g *Gate) AllowMutation(targetID string) error {
	if g.IsDemo(targetID) {
		return domain.ErrDemoDisabled
	}
	return nil
}

func (g *Gate) IsDemo(id string) bool { return g.demoID != "" && id == g.demoID }
