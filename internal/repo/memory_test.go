package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gistsync-api/internal/domain"
)

func TestMemoryUserRepo_UniqueConstraints(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	seed := DefaultSeed("1ee370d1-2ef3-4c0e-b0f3-6ffccc697dd0", "G0", now)
	users, _ := seed.Memory()

	u := domain.User{ID: "u-1", GistID: "G1", Email: seed.Demo.Email, Username: "fresh", CreatedAt: now, UpdatedAt: now}
	err := users.Create(ctx, &u)
	require.Error(t, err)
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))
	assert.EqualError(t, err, "User with email 'jballin@fake.com' already exists")

	u.Email = "fresh@x.com"
	require.NoError(t, users.Create(ctx, &u))
	assert.Equal(t, 2, users.Len())

	taken, err := users.TakenBy(ctx, domain.FieldUsername, "fresh", "")
	require.NoError(t, err)
	assert.True(t, taken)
	taken, err = users.TakenBy(ctx, domain.FieldUsername, "fresh", "u-1")
	require.NoError(t, err)
	assert.False(t, taken, "own row is excluded")

	u.GistID = "G0"
	err = users.Update(ctx, &u)
	assert.EqualError(t, err, "User with gist_id 'G0' already exists")

	ghost := domain.User{ID: "u-404", GistID: "G9", Email: "ghost@x.com", Username: "ghost"}
	err = users.Update(ctx, &ghost)
	assert.EqualError(t, err, "No user with ID 'u-404'")
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
	assert.Equal(t, 2, users.Len(), "update never inserts")
}

func TestMemoryUserRepo_ListDelete(t *testing.T) {
	ctx := context.Background()
	t0 := time.Now()
	users := NewMemoryUserRepo(
		domain.User{ID: "b", Username: "second", CreatedAt: t0.Add(time.Second)},
		domain.User{ID: "a", Username: "first", CreatedAt: t0},
	)
	list, err := users.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "first", list[0].Username)

	found, err := users.FindByLogin(ctx, "second")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "b", found.ID)

	n, err := users.Delete(ctx, "b")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	n, err = users.Delete(ctx, "b")
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)

	gone, err := users.FindByID(ctx, "b")
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestDupKeyMapping(t *testing.T) {
	u := &domain.User{Email: "a@x.com", Username: "a", GistID: "G"}
	cases := map[string]string{
		`ERROR: duplicate key value violates unique constraint "idx_users_username" (SQLSTATE 23505)`: "User with username 'a' already exists",
		`Error 1062 (23000): Duplicate entry 'G' for key 'users.idx_users_gist_id'`:                "User with gist_id 'G' already exists",
		`UNIQUE constraint failed: users.email`:                                                     "User with email 'a@x.com' already exists",
		`duplicate key value violates unique constraint "users_pkey"`:                               "User already exists",
	}
	for raw, want := range cases {
		err := mapWriteErr(errors.New(raw), u)
		assert.Equal(t, domain.KindConflict, domain.KindOf(err), raw)
		assert.Equal(t, want, err.(*domain.Error).Msg, raw)
	}

	other := errors.New("connection refused")
	assert.Same(t, other, mapWriteErr(other, u))
}
