package repo

import (
	"context"
	"sort"
	"sync"

	"gistsync-api/internal/domain"
)

// MemoryUserRepo 进程内实现（db.driver=memory 及测试），唯一约束与数据库一致
type MemoryUserRepo struct {
	mu    sync.RWMutex
	users map[string]domain.User
}

func NewMemoryUserRepo(seed ...domain.User) *MemoryUserRepo {
	r := &MemoryUserRepo{users: make(map[string]domain.User, len(seed))}
	for _, u := range seed {
		r.users[u.ID] = u
	}
	return r
}

var _ domain.UserRepository = (*MemoryUserRepo)(nil)

func (r *MemoryUserRepo) Create(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.ID]; ok {
		return domain.Conflict("", "", nil)
	}
	if f := r.clash(u); f != "" {
		return domain.AlreadyExists(f, u.Value(f))
	}
	r.users[u.ID] = *u
	return nil
}

func (r *MemoryUserRepo) clash(u *domain.User) domain.UniqueField {
	for _, f := range domain.UniqueOrder {
		for id, other := range r.users {
			if id != u.ID && other.Value(f) == u.Value(f) {
				return f
			}
		}
	}
	return ""
}

func (r *MemoryUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *MemoryUserRepo) FindByLogin(_ context.Context, login string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Email == login || u.Username == login {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *MemoryUserRepo) TakenBy(_ context.Context, f domain.UniqueField, value, exceptID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for id, u := range r.users {
		if id != exceptID && u.Value(f) == value {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryUserRepo) List(_ context.Context) ([]domain.User, error) {
	r.mu.RLock()
	out := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	r.mu.RUnlock()
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MemoryUserRepo) Update(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.ID]; !ok {
		return domain.UserNotFound(u.ID)
	}
	if f := r.clash(u); f != "" {
		return domain.AlreadyExists(f, u.Value(f))
	}
	r.users[u.ID] = *u
	return nil
}

func (r *MemoryUserRepo) Delete(_ context.Context, id string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return 0, nil
	}
	delete(r.users, id)
	return 1, nil
}

// Len 测试辅助
func (r *MemoryUserRepo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users)
}

// MemoryLookupRepo 只读的查找表
type MemoryLookupRepo struct {
	Cats  []domain.Category
	Types []domain.FileType
	All   []domain.File
}

var _ domain.LookupRepository = (*MemoryLookupRepo)(nil)

func (r *MemoryLookupRepo) Categories(context.Context) ([]domain.Category, error) {
	return append([]domain.Category{}, r.Cats...), nil
}

func (r *MemoryLookupRepo) FileTypes(context.Context) ([]domain.FileType, error) {
	return append([]domain.FileType{}, r.Types...), nil
}

func (r *MemoryLookupRepo) Files(context.Context) ([]domain.File, error) {
	return append([]domain.File{}, r.All...), nil
}
