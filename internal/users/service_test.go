package users

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/wayfarer-travel/wayfarer/internal/rbac"
	"github.com/wayfarer-travel/wayfarer/internal/shared"
)

type memoryRepo struct {
	nextID int64
	users  map[int64]User
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{nextID: 1, users: make(map[int64]User)}
}

func (m *memoryRepo) ListUsers(_ context.Context) ([]User, error) {
	var out []User
	for _, u := range m.users {
		out = append(out, u)
	}
	return out, nil
}

func (m *memoryRepo) GetUser(_ context.Context, id int64) (User, error) {
	u, ok := m.users[id]
	if !ok {
		return User{}, shared.ErrNotFound
	}
	return u, nil
}

func (m *memoryRepo) CreateUser(_ context.Context, u User) (User, error) {
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return User{}, shared.ErrDuplicate
		}
	}
	u.ID = m.nextID
	m.nextID++
	u.IsActive = true
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	m.users[u.ID] = u
	return u, nil
}

func (m *memoryRepo) UpdateUser(_ context.Context, id int64, name, passwordHash string) (User, error) {
	u, ok := m.users[id]
	if !ok {
		return User{}, shared.ErrNotFound
	}
	u.Name = name
	u.PasswordHash = passwordHash
	u.UpdatedAt = time.Now()
	m.users[id] = u
	return u, nil
}

func (m *memoryRepo) SetActive(_ context.Context, id int64, active bool) error {
	u, ok := m.users[id]
	if !ok {
		return shared.ErrNotFound
	}
	u.IsActive = active
	m.users[id] = u
	return nil
}

func (m *memoryRepo) DeleteUser(_ context.Context, id int64) error {
	if _, ok := m.users[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.users, id)
	return nil
}

type fakeAccess struct {
	assigned map[int64][]int64
}

func newFakeAccess() *fakeAccess {
	return &fakeAccess{assigned: make(map[int64][]int64)}
}

func (f *fakeAccess) RolesFor(_ context.Context, userID int64) ([]rbac.Role, error) {
	var out []rbac.Role
	for _, roleID := range f.assigned[userID] {
		out = append(out, rbac.Role{ID: roleID})
	}
	return out, nil
}

func (f *fakeAccess) AssignRole(_ context.Context, userID, roleID int64, _ *int64) error {
	f.assigned[userID] = append(f.assigned[userID], roleID)
	return nil
}

func (f *fakeAccess) RemoveRole(_ context.Context, userID, roleID int64) error {
	kept := f.assigned[userID][:0]
	for _, id := range f.assigned[userID] {
		if id != roleID {
			kept = append(kept, id)
		}
	}
	f.assigned[userID] = kept
	return nil
}

func TestCreateHashesPassword(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, newFakeAccess(), nil)

	user, err := svc.Create(context.Background(), 1, CreateInput{
		Email:    "Admin@Example.com",
		Name:     "Admin",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	require.Equal(t, "admin@example.com", user.Email)
	require.True(t, user.IsActive)
	require.NotEqual(t, "correct-horse", user.PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("correct-horse")))
}

func TestCreateRejectsShortPassword(t *testing.T) {
	svc := NewService(newMemoryRepo(), newFakeAccess(), nil)
	_, err := svc.Create(context.Background(), 1, CreateInput{Email: "a@b.com", Name: "A", Password: "short"})
	require.True(t, errors.Is(err, shared.ErrValidation))
}

func TestCreateRejectsDuplicateEmail(t *testing.T) {
	svc := NewService(newMemoryRepo(), newFakeAccess(), nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, 1, CreateInput{Email: "a@b.com", Name: "A", Password: "password1"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, 1, CreateInput{Email: "A@B.com", Name: "B", Password: "password2"})
	require.True(t, errors.Is(err, shared.ErrDuplicate))
}

func TestSelfLockoutGuards(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, newFakeAccess(), nil)
	ctx := context.Background()

	user, err := svc.Create(ctx, 1, CreateInput{Email: "a@b.com", Name: "A", Password: "password1"})
	require.NoError(t, err)

	err = svc.SetActive(ctx, user.ID, user.ID, false)
	require.True(t, errors.Is(err, shared.ErrValidation))

	err = svc.Delete(ctx, user.ID, user.ID)
	require.True(t, errors.Is(err, shared.ErrValidation))

	// another actor can do both
	require.NoError(t, svc.SetActive(ctx, 99, user.ID, false))
	require.NoError(t, svc.Delete(ctx, 99, user.ID))
}

func TestRoleAssignment(t *testing.T) {
	repo := newMemoryRepo()
	access := newFakeAccess()
	svc := NewService(repo, access, nil)
	ctx := context.Background()

	user, err := svc.Create(ctx, 1, CreateInput{Email: "a@b.com", Name: "A", Password: "password1"})
	require.NoError(t, err)

	require.NoError(t, svc.AssignRole(ctx, 1, user.ID, 5))
	roles, err := svc.Roles(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, roles, 1)

	require.NoError(t, svc.RemoveRole(ctx, 1, user.ID, 5))
	roles, err = svc.Roles(ctx, user.ID)
	require.NoError(t, err)
	require.Empty(t, roles)

	require.True(t, errors.Is(svc.AssignRole(ctx, 1, 404, 5), shared.ErrNotFound))
}
