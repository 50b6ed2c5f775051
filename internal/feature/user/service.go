package user

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"gistsync-api/internal/domain"
	"gistsync-api/pkg/utils"
)

type GistVerifier interface {
	Verify(ctx context.Context, id string) ([]string, error)
}

// Service 用户生命周期：校验 → 鉴权 → 唯一性 → 哈希 → 持久化
type Service struct {
	users domain.UserRepository
	gists GistVerifier
	gate  *Gate
	log   *zap.Logger

	Now   func() time.Time
	Hash  func(plain string) (string, error)
	Check func(plain, hashed string) bool
}

func NewService(users domain.UserRepository, gists GistVerifier, gate *Gate, l *zap.Logger) *Service {
	if l == nil {
		l = zap.NewNop()
	}
	return &Service{
		users: users,
		gists: gists,
		gate:  gate,
		log:   l,
		Now:   time.Now,
		Hash:  utils.HashPassword,
		Check: utils.CheckPassword,
	}
}

// clock 毫秒精度，和 MySQL datetime(3) 对齐
func (s *Service) clock() time.Time { return s.Now().UTC().Truncate(time.Millisecond) }

// ---------- create ----------

func (s *Service) Create(ctx context.Context, b Body) (*domain.User, error) {
	u := &domain.User{}
	err := run(ctx,
		stage{StageBody, func(context.Context) error { return requireBody(b, "") }},
		stage{StageSchema, func(context.Context) error { return CreateSchema.Check(b) }},
		stage{StageFormat, func(context.Context) error { return checkShape(CreateSchema, b) }},
		stage{StageUnique, func(ctx context.Context) error { return s.checkUnique(ctx, b, "") }},
		stage{StageGist, func(ctx context.Context) error {
			gistID, _ := b.Str("gist_id")
			_, err := s.gists.Verify(ctx, gistID)
			return err
		}},
		stage{StageHash, func(context.Context) error {
			pw, _ := b.Str("password")
			h, err := s.Hash(pw)
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
			}
			u.HashedPwd = h
			return nil
		}},
		stage{StagePersist, func(ctx context.Context) error {
			now := s.clock()
			u.ID = utils.NewID()
			u.GistID, _ = b.Str("gist_id")
			u.Username, _ = b.Str("username")
			u.Email, _ = b.Str("email")
			u.Name = nameOf(b)
			u.CreatedAt, u.UpdatedAt = now, now
			return s.users.Create(ctx, u)
		}},
	)
	if err != nil {
		return nil, err
	}
	s.log.Info("user created", zap.String("user_id", u.ID), zap.String("username", u.Username))
	return u, nil
}

// ---------- read ----------

func (s *Service) List(ctx context.Context) ([]domain.PublicUser, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	out := make([]domain.PublicUser, 0, len(users))
	for _, u := range users {
		out = append(out, domain.PublicUser{Username: u.Username, Name: u.Name})
	}
	return out, nil
}

// Get 仅本人可见完整记录
func (s *Service) Get(ctx context.Context, token, id string) (*domain.User, error) {
	var u *domain.User
	err := run(ctx, append(s.target(id, &u), s.authorize(token, id))...)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// ---------- update ----------

func (s *Service) Update(ctx context.Context, token, id string, b Body) (*domain.User, error) {
	var u *domain.User
	stages := append(s.guard(token, id, &u),
		stage{StageBody, func(context.Context) error { return requireBody(b, "currentPassword") }},
		stage{StageSchema, func(context.Context) error { return UpdateSchema.Check(b) }},
		stage{StageFormat, func(context.Context) error { return checkShape(UpdateSchema, b) }},
	)
	stages = append(stages, s.confirmPassword(b, &u)...)
	var (
		next    domain.User
		newHash string
	)
	stages = append(stages,
		stage{StageUnique, func(ctx context.Context) error { return s.checkUnique(ctx, b, u.ID) }},
		stage{StageGist, func(ctx context.Context) error {
			gistID, ok := b.Str("gist_id")
			if !ok || gistID == u.GistID {
				return nil
			}
			_, err := s.gists.Verify(ctx, gistID)
			return err
		}},
		stage{StageHash, func(context.Context) error {
			pw, ok := b.Str("password")
			if !ok {
				return nil
			}
			h, err := s.Hash(pw)
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
			}
			newHash = h
			return nil
		}},
		stage{StagePersist, func(ctx context.Context) error {
			next = *u
			apply(&next, b)
			if newHash != "" {
				next.HashedPwd = newHash
			}
			next.UpdatedAt = s.clock()
			if !next.UpdatedAt.After(u.UpdatedAt) {
				next.UpdatedAt = u.UpdatedAt.Add(time.Millisecond)
			}
			return s.users.Update(ctx, &next)
		}},
	)
	if err := run(ctx, stages...); err != nil {
		return nil, err
	}
	s.log.Info("user updated", zap.String("user_id", next.ID), zap.Strings("fields", changed(b)))
	return &next, nil
}

// ---------- delete ----------

func (s *Service) Delete(ctx context.Context, token, id string, b Body) error {
	var u *domain.User
	stages := append(s.guard(token, id, &u), s.confirmPassword(b, &u)...)
	stages = append(stages, stage{StagePersist, func(ctx context.Context) error {
		n, err := s.users.Delete(ctx, id)
		if err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		if n == 0 {
			return domain.UserNotFound(id) // 并发删除
		}
		return nil
	}})
	if err := run(ctx, stages...); err != nil {
		return err
	}
	s.log.Info("user deleted", zap.String("user_id", id))
	return nil
}

// ---------- login ----------

func (s *Service) Login(ctx context.Context, b Body) (*domain.User, error) {
	var u *domain.User
	err := run(ctx,
		stage{StageBody, func(context.Context) error { return requireBody(b, "") }},
		stage{StageSchema, func(context.Context) error { return LoginSchema.Check(b) }},
		stage{StageFormat, func(context.Context) error { return LoginSchema.CheckTypes(b) }},
		stage{StageCredentials, func(ctx context.Context) error {
			login, _ := b.Str("login")
			pw, _ := b.Str("password")
			found, err := s.users.FindByLogin(ctx, login)
			if err != nil {
				return fmt.Errorf("find user: %w", err)
			}
			if found == nil || !s.Check(pw, found.HashedPwd) {
				return domain.ErrInvalidCredentials
			}
			u = found
			return nil
		}},
	)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// ---------- stages ----------

// target id 格式 → 是否存在
func (s *Service) target(id string, dst **domain.User) []stage {
	return []stage{
		{StageID, func(context.Context) error { return ValidateID(id) }},
		{StageExists, func(ctx context.Context) error { return s.load(ctx, id, dst) }},
	}
}

func (s *Service) load(ctx context.Context, id string, dst **domain.User) error {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("find user: %w", err)
	}
	if u == nil {
		return domain.UserNotFound(id)
	}
	*dst = u
	return nil
}

func (s *Service) authorize(token, id string) stage {
	return stage{StageAuthorize, func(context.Context) error { return s.gate.Authorize(token, id) }}
}

// guard 修改类操作的公共前缀：目标 → 鉴权 → 演示账号
func (s *Service) guard(token, id string, dst **domain.User) []stage {
	return append(s.target(id, dst),
		s.authorize(token, id),
		stage{StageDemo, func(context.Context) error { return s.gate.AllowMutation(id) }},
	)
}

// confirmPassword 当前密码先判在不在，再判对不对
func (s *Service) confirmPassword(b Body, u **domain.User) []stage {
	return []stage{
		{StageCurrentPassword, func(context.Context) error {
			if v, ok := b.Str("currentPassword"); !ok || v == "" {
				return domain.ErrMissingCurrentPassword
			}
			return nil
		}},
		{StageVerifyPassword, func(context.Context) error {
			v, _ := b.Str("currentPassword")
			if !s.Check(v, (*u).HashedPwd) {
				return domain.ErrInvalidCurrentPassword
			}
			return nil
		}},
	}
}

// checkUnique 按 email → username → gist_id 顺序，报告第一个冲突
func (s *Service) checkUnique(ctx context.Context, b Body, exceptID string) error {
	for _, f := range domain.UniqueOrder {
		v, ok := b.Str(string(f))
		if !ok {
			continue
		}
		taken, err := s.users.TakenBy(ctx, f, v, exceptID)
		if err != nil {
			return fmt.Errorf("check %s: %w", f, err)
		}
		if taken {
			return domain.AlreadyExists(f, v)
		}
	}
	return nil
}

// ---------- helpers ----------

// requireBody ignore 字段单独出现时不算请求体
func requireBody(b Body, ignore string) error {
	n := len(b)
	if ignore != "" && b.Has(ignore) {
		n--
	}
	if n == 0 {
		return domain.ErrNoBody
	}
	return nil
}

func checkShape(sc Schema, b Body) error {
	if err := sc.CheckTypes(b); err != nil {
		return err
	}
	return CheckFormat(b)
}

func nameOf(b Body) *string {
	if v, ok := b.Str("name"); ok {
		return &v
	}
	return nil
}

func apply(u *domain.User, b Body) {
	if v, ok := b.Str("gist_id"); ok {
		u.GistID = v
	}
	if v, ok := b.Str("email"); ok {
		u.Email = v
	}
	if v, ok := b.Str("username"); ok {
		u.Username = v
	}
	if b.Has("name") {
		u.Name = nameOf(b)
	}
}

// changed 日志用：只记字段名
func changed(b Body) []string {
	var out []string
	for _, k := range UpdateSchema.Optional {
		if k != "currentPassword" && b.Has(k) {
			out = append(out, k)
		}
	}
	return out
}
