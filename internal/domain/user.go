package domain

import (
	"context"
	"time"
)

type User struct {
	ID        string    `json:"id"`
	GistID    string    `json:"gist_id"`
	Name      *string   `json:"name"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	HashedPwd string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PublicUser 列表接口的公开投影
type PublicUser struct {
	Username string  `json:"username"`
	Name     *string `json:"name"`
}

// UniqueField 唯一约束列（白名单，可直接拼入 SQL 列名）
type UniqueField string

const (
	FieldEmail    UniqueField = "email"
	FieldUsername UniqueField = "username"
	FieldGistID   UniqueField = "gist_id"
)

// UniqueOrder 冲突检测顺序：email → username → gist_id
var UniqueOrder = []UniqueField{FieldEmail, FieldUsername, FieldGistID}

func (u *User) Value(f UniqueField) string {
	switch f {
	case FieldEmail:
		return u.Email
	case FieldUsername:
		return u.Username
	case FieldGistID:
		return u.GistID
	}
	return ""
}

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id string) (*User, error) // 不存在返回 nil, nil
	FindByLogin(ctx context.Context, login string) (*User, error)
	// TakenBy 该值是否已被其它用户占用；exceptID 为空表示不排除
	TakenBy(ctx context.Context, f UniqueField, value, exceptID string) (bool, error)
	List(ctx context.Context) ([]User, error)
	Update(ctx context.Context, u *User) error // 行已不存在返回 UserNotFound
	Delete(ctx context.Context, id string) (int64, error)
}
