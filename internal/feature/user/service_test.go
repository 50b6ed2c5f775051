package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gistsync-api/internal/core/auth"
	"gistsync-api/internal/domain"
	"gistsync-api/internal/repo"
	"gistsync-api/pkg/utils"
)

const demoID = "1ee370d1-2ef3-4c0e-b0f3-6ffccc697dd0"

type fakeGists struct {
	files map[string][]string
	err   error
	calls []string
}

func (f *fakeGists) Verify(_ context.Context, id string) ([]string, error) {
	f.calls = append(f.calls, id)
	if f.err != nil {
		return nil, f.err
	}
	if id == "" {
		return nil, domain.ErrNoGistID
	}
	files, ok := f.files[id]
	if !ok {
		return nil, domain.ErrGistNotFound
	}
	for _, name := range files {
		if name == "gistsync.sh" {
			return files, nil
		}
	}
	return nil, domain.ErrInvalidGist
}

type fixture struct {
	svc    *Service
	users  *repo.MemoryUserRepo
	gists  *fakeGists
	tokens *auth.JWTer
	now    time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		gists: &fakeGists{files: map[string][]string{
			"G":     {"gistsync.sh", "zshrc"},
			"G2":    {"gistsync.sh"},
			"plain": {"notes.md"},
		}},
		tokens: &auth.JWTer{Secret: []byte("test-secret")},
		now:    time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	demoHash, err := utils.HashPassword("demo-pass")
	require.NoError(t, err)
	f.users = repo.NewMemoryUserRepo(domain.User{
		ID: demoID, GistID: "DEMO", Email: "jballin@fake.com", Username: "JBallin",
		HashedPwd: demoHash, CreatedAt: f.now.Add(-time.Hour), UpdatedAt: f.now.Add(-time.Hour),
	})
	f.svc = NewService(f.users, f.gists, NewGate(f.tokens, demoID), nil)
	f.svc.Now = func() time.Time { return f.now }
	return f
}

func (f *fixture) token(t *testing.T, id string) string {
	t.Helper()
	tok, err := f.tokens.Issue(id)
	require.NoError(t, err)
	return tok
}

func (f *fixture) create(t *testing.T, b Body) *domain.User {
	t.Helper()
	u, err := f.svc.Create(context.Background(), b)
	require.NoError(t, err)
	return u
}

func validPayload() Body {
	return Body{"username": "a", "email": "a@x.com", "gist_id": "G", "password": "p"}
}

func requireErr(t *testing.T, err error, stage, msg string) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, stage, StageOf(err), "stage")
	assert.EqualError(t, err, msg)
}

func TestCreate_Success(t *testing.T) {
	f := newFixture(t)
	u := f.create(t, validPayload())

	assert.Equal(t, "a", u.Username)
	assert.True(t, utils.IsUUID(u.ID))
	assert.NotEqual(t, "p", u.HashedPwd)
	assert.True(t, utils.CheckPassword("p", u.HashedPwd))
	assert.Equal(t, u.CreatedAt, u.UpdatedAt)
	assert.Nil(t, u.Name)

	stored, err := f.users.FindByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, *u, *stored)
}

func TestCreate_DuplicateReportsEmailFirst(t *testing.T) {
	f := newFixture(t)
	f.create(t, validPayload())

	_, err := f.svc.Create(context.Background(), validPayload())
	requireErr(t, err, StageUnique, "User with email 'a@x.com' already exists")
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))
}

func TestCreate_UniqueOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b := validPayload()
	b["username"] = "JBallin"
	_, err := f.svc.Create(ctx, b)
	requireErr(t, err, StageUnique, "User with username 'JBallin' already exists")

	b = validPayload()
	b["gist_id"] = "DEMO"
	_, err = f.svc.Create(ctx, b)
	requireErr(t, err, StageUnique, "User with gist_id 'DEMO' already exists")

	b = validPayload()
	b["username"] = "JBallin"
	b["email"] = "jballin@fake.com"
	_, err = f.svc.Create(ctx, b)
	requireErr(t, err, StageUnique, "User with email 'jballin@fake.com' already exists")
}

func TestCreate_ValidationOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		body  Body
		stage string
		msg   string
	}{
		{"nil body", nil, StageBody, "No body"},
		{"empty body", Body{}, StageBody, "No body"},
		{"one missing", Body{"username": "a", "email": "a@x.com", "gist_id": "G", "name": "n"}, StageSchema, "Missing fields: password"},
		{"all missing in order", Body{"name": "n"}, StageSchema, "Missing fields: gist_id, username, email, password"},
		{"empty string is missing", Body{"username": "a", "email": "a@x.com", "gist_id": "", "password": "p"}, StageSchema, "Missing fields: gist_id"},
		{"missing before extra", Body{"username": "a", "zzz": 1}, StageSchema, "Missing fields: gist_id, email, password"},
		{"extra fields sorted", Body{"username": "a", "email": "a@x.com", "gist_id": "G", "password": "p", "zeta": 1, "alpha": 2}, StageSchema, "Extra fields: alpha, zeta"},
		{"bad email", Body{"username": "a", "email": "a@x", "gist_id": "G", "password": "p"}, StageFormat, "Invalid email 'a@x'"},
		{"username whitespace", Body{"username": "a b", "email": "a@x.com", "gist_id": "G", "password": "p"}, StageFormat, "Invalid username 'a b'"},
		{"non-string value", Body{"username": "a", "email": "a@x.com", "gist_id": 7, "password": "p"}, StageFormat, "Invalid value for field 'gist_id'"},
		{"unknown gist", Body{"username": "a", "email": "a@x.com", "gist_id": "nope", "password": "p"}, StageGist, "No gist with that ID"},
		{"gist without marker", Body{"username": "a", "email": "a@x.com", "gist_id": "plain", "password": "p"}, StageGist, "Invalid gist"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Create(ctx, tc.body)
			requireErr(t, err, tc.stage, tc.msg)
		})
	}
	assert.Equal(t, 1, f.users.Len(), "nothing was inserted")
}

func TestCreate_UniqueBeforeGist(t *testing.T) {
	f := newFixture(t)
	b := validPayload()
	b["email"] = "jballin@fake.com"
	b["gist_id"] = "nope"
	_, err := f.svc.Create(context.Background(), b)
	requireErr(t, err, StageUnique, "User with email 'jballin@fake.com' already exists")
	assert.Empty(t, f.gists.calls)
}

func TestCreate_GistUpstreamFailure(t *testing.T) {
	f := newFixture(t)
	f.gists.err = domain.GistLookupFailed(errors.New("timeout"))
	_, err := f.svc.Create(context.Background(), validPayload())
	require.Error(t, err)
	assert.Equal(t, StageGist, StageOf(err))
	assert.Equal(t, domain.KindUpstream, domain.KindOf(err))
}

func TestCreate_StoreConflictSurfacesAsAlreadyExists(t *testing.T) {
	f := newFixture(t)
	racing := &racingRepo{MemoryUserRepo: f.users}
	f.svc.users = racing

	_, err := f.svc.Create(context.Background(), Body{"username": "JBallin", "email": "new@x.com", "gist_id": "G", "password": "p"})
	requireErr(t, err, StagePersist, "User with username 'JBallin' already exists")
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))
}

// racingRepo 预检永远通过，模拟并发创建
type racingRepo struct{ *repo.MemoryUserRepo }

func (racingRepo) TakenBy(context.Context, domain.UniqueField, string, string) (bool, error) {
	return false, nil
}

// vanishingRepo 在写入前删掉目标行，模拟并发删除
type vanishingRepo struct{ *repo.MemoryUserRepo }

func (r vanishingRepo) Update(ctx context.Context, u *domain.User) error {
	if _, err := r.MemoryUserRepo.Delete(ctx, u.ID); err != nil {
		return err
	}
	return r.MemoryUserRepo.Update(ctx, u)
}

func TestUpdate_RowDeletedConcurrently(t *testing.T) {
	f := newFixture(t)
	u := f.create(t, validPayload())
	f.svc.users = vanishingRepo{MemoryUserRepo: f.users}

	got, err := f.svc.Update(context.Background(), f.token(t, u.ID), u.ID, Body{"name": "x", "currentPassword": "p"})
	requireErr(t, err, StagePersist, "No user with ID '"+u.ID+"'")
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
	assert.Nil(t, got)
}

func TestList_PublicProjection(t *testing.T) {
	f := newFixture(t)
	b := validPayload()
	b["name"] = "Linus Torvalds"
	f.create(t, b)

	list, err := f.svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "JBallin", list[0].Username)
	assert.Nil(t, list[0].Name)
	assert.Equal(t, "a", list[1].Username)
	require.NotNil(t, list[1].Name)
	assert.Equal(t, "Linus Torvalds", *list[1].Name)
}

func TestGet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.create(t, validPayload())

	got, err := f.svc.Get(ctx, f.token(t, u.ID), u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Email, got.Email)
	assert.Equal(t, got.CreatedAt, got.UpdatedAt)

	_, err = f.svc.Get(ctx, "", "1")
	requireErr(t, err, StageID, "Invalid UUID '1'")

	missing := "de455777-255e-4e61-b53c-6dd942f1ad7c"
	_, err = f.svc.Get(ctx, f.token(t, missing), missing)
	requireErr(t, err, StageExists, "No user with ID '"+missing+"'")

	_, err = f.svc.Get(ctx, "", u.ID)
	requireErr(t, err, StageAuthorize, "Missing token")

	_, err = f.svc.Get(ctx, f.token(t, demoID), u.ID)
	requireErr(t, err, StageAuthorize, "Unauthorized")

	expired, err := f.tokens.IssueFor(u.ID, 0)
	require.NoError(t, err)
	_, err = f.svc.Get(ctx, expired, u.ID)
	requireErr(t, err, StageAuthorize, "Invalid token")

	_, err = f.svc.Get(ctx, "garbage", u.ID)
	requireErr(t, err, StageAuthorize, "Invalid token")
}

func TestUpdate_SingleField(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.create(t, validPayload())

	got, err := f.svc.Update(ctx, f.token(t, u.ID), u.ID, Body{"name": "Linus", "currentPassword": "p"})
	require.NoError(t, err)
	require.NotNil(t, got.Name)
	assert.Equal(t, "Linus", *got.Name)
	assert.True(t, got.UpdatedAt.After(got.CreatedAt), "updated_at moves even with a frozen clock")
	assert.Equal(t, u.CreatedAt, got.CreatedAt)
	assert.Equal(t, u.Email, got.Email)
	assert.Equal(t, u.Username, got.Username)
	assert.Equal(t, u.HashedPwd, got.HashedPwd)
	assert.Empty(t, f.gists.calls[1:], "unchanged gist is not re-validated")

	stored, err := f.users.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, *got, *stored)

	got, err = f.svc.Update(ctx, f.token(t, u.ID), u.ID, Body{"name": nil, "currentPassword": "p"})
	require.NoError(t, err)
	assert.Nil(t, got.Name)
}

func TestUpdate_PasswordAndGist(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.create(t, validPayload())
	tok := f.token(t, u.ID)

	got, err := f.svc.Update(ctx, tok, u.ID, Body{"password": "new", "gist_id": "G2", "username": "a", "currentPassword": "p"})
	require.NoError(t, err)
	assert.Equal(t, "G2", got.GistID)
	assert.True(t, utils.CheckPassword("new", got.HashedPwd))
	assert.False(t, utils.CheckPassword("p", got.HashedPwd))
	assert.Equal(t, []string{"G", "G2"}, f.gists.calls)

	_, err = f.svc.Update(ctx, tok, u.ID, Body{"gist_id": "plain", "currentPassword": "new"})
	requireErr(t, err, StageGist, "Invalid gist")
}

func TestUpdate_Order(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.create(t, validPayload())
	tok := f.token(t, u.ID)

	cases := []struct {
		name  string
		token string
		id    string
		body  Body
		stage string
		msg   string
	}{
		{"bad id wins over everything", "", "1", nil, StageID, "Invalid UUID '1'"},
		{"token before body", "", u.ID, Body{"bad": 1}, StageAuthorize, "Missing token"},
		{"wrong subject with valid payload", f.token(t, demoID), u.ID, Body{"name": "x", "currentPassword": "p"}, StageAuthorize, "Unauthorized"},
		{"non-owner on demo is unauthorized", tok, demoID, Body{"name": "x", "currentPassword": "demo-pass"}, StageAuthorize, "Unauthorized"},
		{"demo owner locked out", f.token(t, demoID), demoID, Body{"name": "x", "currentPassword": "demo-pass"}, StageDemo, "Demo account disabled"},
		{"no body", tok, u.ID, nil, StageBody, "No body"},
		{"only current password is no body", tok, u.ID, Body{"currentPassword": "p"}, StageBody, "No body"},
		{"invalid fields", tok, u.ID, Body{"name": "x", "bad": 1, "also": 2}, StageSchema, "Invalid fields: also, bad"},
		{"format", tok, u.ID, Body{"username": "way-too-long-username-for-the-36-char-limit"}, StageFormat, "Invalid username 'way-too-long-username-for-the-36-char-limit'"},
		{"missing current password", tok, u.ID, Body{"name": "x"}, StageCurrentPassword, "Missing current password"},
		{"wrong current password masks conflict", tok, u.ID, Body{"email": "jballin@fake.com", "currentPassword": "nope"}, StageVerifyPassword, "Invalid current password"},
		{"conflict", tok, u.ID, Body{"username": "JBallin", "currentPassword": "p"}, StageUnique, "User with username 'JBallin' already exists"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Update(ctx, tc.token, tc.id, tc.body)
			requireErr(t, err, tc.stage, tc.msg)
		})
	}

	stored, err := f.users.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, *u, *stored, "failed updates leave the row untouched")
}

func TestUpdate_OwnValuesAreNotConflicts(t *testing.T) {
	f := newFixture(t)
	u := f.create(t, validPayload())
	got, err := f.svc.Update(context.Background(), f.token(t, u.ID), u.ID,
		Body{"email": "a@x.com", "username": "a", "gist_id": "G", "currentPassword": "p"})
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", got.Email)
}

func TestDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.create(t, validPayload())
	tok := f.token(t, u.ID)

	err := f.svc.Delete(ctx, tok, u.ID, nil)
	requireErr(t, err, StageCurrentPassword, "Missing current password")
	err = f.svc.Delete(ctx, tok, u.ID, Body{"currentPassword": "wrong"})
	requireErr(t, err, StageVerifyPassword, "Invalid current password")
	err = f.svc.Delete(ctx, f.token(t, demoID), u.ID, Body{"currentPassword": "p"})
	requireErr(t, err, StageAuthorize, "Unauthorized")
	err = f.svc.Delete(ctx, f.token(t, demoID), demoID, Body{"currentPassword": "demo-pass"})
	requireErr(t, err, StageDemo, "Demo account disabled")
	assert.Equal(t, 2, f.users.Len())

	require.NoError(t, f.svc.Delete(ctx, tok, u.ID, Body{"currentPassword": "p"}))
	assert.Equal(t, 1, f.users.Len(), "exactly one row removed")

	_, err = f.svc.Get(ctx, tok, u.ID)
	requireErr(t, err, StageExists, "No user with ID '"+u.ID+"'")
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.create(t, validPayload())

	got, err := f.svc.Login(ctx, Body{"login": "a@x.com", "password": "p"})
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	got, err = f.svc.Login(ctx, Body{"login": "a", "password": "p"})
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = f.svc.Login(ctx, Body{"login": "a", "password": "x"})
	requireErr(t, err, StageCredentials, "Invalid credentials")
	_, err = f.svc.Login(ctx, Body{"login": "ghost", "password": "x"})
	requireErr(t, err, StageCredentials, "Invalid credentials")
	_, err = f.svc.Login(ctx, Body{"login": "a"})
	requireErr(t, err, StageSchema, "Missing fields: password")
}

func TestCanceledContextStopsPipeline(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := f.svc.Create(ctx, validPayload())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, f.users.Len())
}
