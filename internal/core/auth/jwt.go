package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL token 默认有效期：2 天
const DefaultTTL = 48 * time.Hour

var (
	ErrMissingToken = errors.New("missing token")
	ErrInvalidToken = errors.New("invalid token") // 签名错误、格式错误、过期都归为这一类
)

type JWTer struct {
	Secret []byte
	Issuer string
	TTL    time.Duration
	Now    func() time.Time // 测试用，nil 则 time.Now
}

func (j *JWTer) now() time.Time {
	if j.Now != nil {
		return j.Now()
	}
	return time.Now()
}

func (j *JWTer) ttl() time.Duration {
	if j.TTL == 0 {
		return DefaultTTL
	}
	return j.TTL
}

// Issue 使用配置的 TTL 签发
func (j *JWTer) Issue(uid string) (string, error) { return j.IssueFor(uid, j.ttl()) }

// IssueFor ttl<=0 时签出的 token 格式正确但已过期
func (j *JWTer) IssueFor(uid string, ttl time.Duration) (string, error) {
	now := j.now()
	exp := now.Add(ttl)
	if ttl <= 0 {
		// exp 按秒截断，往前再推一秒保证一定过期
		exp = exp.Add(-time.Second)
	}
	claims := jwt.RegisteredClaims{
		Subject:   uid,
		Issuer:    j.Issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.Secret)
}

// Verify 返回 token 的 subject
func (j *JWTer) Verify(tokenStr string) (string, error) {
	if tokenStr == "" {
		return "", ErrMissingToken
	}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	}
	if j.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(j.Issuer))
	}
	var claims jwt.RegisteredClaims
	t, err := jwt.ParseWithClaims(tokenStr, &claims, func(token *jwt.Token) (interface{}, error) {
		return j.Secret, nil
	}, opts...)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !t.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
