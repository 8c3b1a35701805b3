package settings

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wayfarer-travel/wayfarer/internal/shared"
)

type memoryRepo struct {
	values map[string]Setting
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{values: make(map[string]Setting)}
}

func (m *memoryRepo) ListSettings(_ context.Context) ([]Setting, error) {
	var out []Setting
	for _, s := range m.values {
		out = append(out, s)
	}
	return out, nil
}

func (m *memoryRepo) GetSetting(_ context.Context, key string) (Setting, error) {
	s, ok := m.values[key]
	if !ok {
		return Setting{}, shared.ErrNotFound
	}
	return s, nil
}

func (m *memoryRepo) UpsertSetting(_ context.Context, key, value string) (Setting, error) {
	s := Setting{Key: key, Value: value, UpdatedAt: time.Now()}
	m.values[key] = s
	return s, nil
}

func (m *memoryRepo) DeleteSetting(_ context.Context, key string) error {
	if _, ok := m.values[key]; !ok {
		return shared.ErrNotFound
	}
	delete(m.values, key)
	return nil
}

func TestSetAndGetSetting(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil)
	ctx := context.Background()

	_, err := svc.Set(ctx, 1, "site.title", "Wayfarer Travel")
	require.NoError(t, err)

	got, err := svc.Get(ctx, "site.title")
	require.NoError(t, err)
	require.Equal(t, "Wayfarer Travel", got.Value)

	_, err = svc.Set(ctx, 1, "site.title", "Wayfarer")
	require.NoError(t, err)
	got, err = svc.Get(ctx, "site.title")
	require.NoError(t, err)
	require.Equal(t, "Wayfarer", got.Value)
}

func TestSetRejectsBadKeys(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil)
	ctx := context.Background()

	for _, key := range []string{"", "UPPER", "1leading", "has space", "x"} {
		_, err := svc.Set(ctx, 1, key, "v")
		require.True(t, errors.Is(err, shared.ErrValidation), "key %q", key)
	}
}

func TestDeleteSetting(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil)
	ctx := context.Background()

	_, err := svc.Set(ctx, 1, "contact.email", "hello@example.com")
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, 1, "contact.email"))

	_, err = svc.Get(ctx, "contact.email")
	require.True(t, errors.Is(err, shared.ErrNotFound))
	require.True(t, errors.Is(svc.Delete(ctx, 1, "contact.email"), shared.ErrNotFound))
}
