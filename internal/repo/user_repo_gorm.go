package repo

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"gistsync-api/internal/domain"
)

type UserRepo struct{ db *gorm.DB }

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

var _ domain.UserRepository = (*UserRepo)(nil)

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	m := toUserModel(u)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return mapWriteErr(err, u)
	}
	return nil
}

func (r *UserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *UserRepo) FindByLogin(ctx context.Context, login string) (*domain.User, error) {
	return r.first(ctx, "email = ? OR username = ?", login, login)
}

func (r *UserRepo) first(ctx context.Context, query string, args ...any) (*domain.User, error) {
	var m UserModel
	err := r.db.WithContext(ctx).Where(query, args...).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	u := m.toDomain()
	return &u, nil
}

func (r *UserRepo) TakenBy(ctx context.Context, f domain.UniqueField, value, exceptID string) (bool, error) {
	q := r.db.WithContext(ctx).Model(&UserModel{}).Where(string(f)+" = ?", value)
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *UserRepo) List(ctx context.Context) ([]domain.User, error) {
	var ms []UserModel
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&ms).Error; err != nil {
		return nil, err
	}
	out := make([]domain.User, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.toDomain())
	}
	return out, nil
}

// Update 整行覆盖（不用 Save，避免行被删后重新插入）；行已不存在时返回 UserNotFound
// updated_at 每次都会变，MySQL 按“实际改动行数”计数也不会误判为 0
func (r *UserRepo) Update(ctx context.Context, u *domain.User) error {
	res := r.db.WithContext(ctx).Model(&UserModel{}).Where("id = ?", u.ID).Updates(map[string]any{
		"gist_id":    u.GistID,
		"name":       u.Name,
		"email":      u.Email,
		"username":   u.Username,
		"hashed_pwd": u.HashedPwd,
		"updated_at": u.UpdatedAt,
	})
	if res.Error != nil {
		return mapWriteErr(res.Error, u)
	}
	if res.RowsAffected == 0 {
		return domain.UserNotFound(u.ID)
	}
	return nil
}

func (r *UserRepo) Delete(ctx context.Context, id string) (int64, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&UserModel{})
	return res.RowsAffected, res.Error
}

// mapWriteErr 并发兜底：预检通过但撞上唯一约束
func mapWriteErr(err error, u *domain.User) error {
	if !isDupKey(err) {
		return err
	}
	f := dupField(err)
	if f == "" {
		return domain.Conflict("", "", err)
	}
	return domain.Conflict(f, u.Value(f), err)
}

func isDupKey(err error) bool {
	// 不依赖 gorm.ErrDuplicatedKey：TranslateError 会丢掉约束名
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation")
}

// dupField 从约束名（idx_users_email 等）推断冲突列
func dupField(err error) domain.UniqueField {
	msg := strings.ToLower(err.Error())
	for _, f := range domain.UniqueOrder {
		if strings.Contains(msg, "users_"+string(f)) || strings.Contains(msg, "users."+string(f)) {
			return f
		}
	}
	return ""
}
