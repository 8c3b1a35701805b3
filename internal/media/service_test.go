package media

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wayfarer-travel/wayfarer/internal/shared"
)

type memoryRepo struct {
	nextID int64
	assets map[int64]Asset
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{nextID: 1, assets: make(map[int64]Asset)}
}

func (m *memoryRepo) ListAssets(_ context.Context) ([]Asset, error) {
	var out []Asset
	for _, a := range m.assets {
		out = append(out, a)
	}
	return out, nil
}

func (m *memoryRepo) GetAsset(_ context.Context, id int64) (Asset, error) {
	a, ok := m.assets[id]
	if !ok {
		return Asset{}, shared.ErrNotFound
	}
	return a, nil
}

func (m *memoryRepo) CreateAsset(_ context.Context, a Asset) (Asset, error) {
	a.ID = m.nextID
	m.nextID++
	a.CreatedAt = time.Now()
	m.assets[a.ID] = a
	return a, nil
}

func (m *memoryRepo) DeleteAsset(_ context.Context, id int64) error {
	if _, ok := m.assets[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.assets, id)
	return nil
}

type memoryStore struct {
	objects map[string][]byte
	putErr  error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{objects: make(map[string][]byte)}
}

func (s *memoryStore) Put(_ context.Context, key string, content io.Reader, _ string) (string, error) {
	if s.putErr != nil {
		return "", s.putErr
	}
	data, err := io.ReadAll(content)
	if err != nil {
		return "", err
	}
	s.objects[key] = data
	return "https://media.test/" + key, nil
}

func (s *memoryStore) Delete(_ context.Context, key string) error {
	delete(s.objects, key)
	return nil
}

func TestUploadStoresObjectAndRecord(t *testing.T) {
	repo := newMemoryRepo()
	store := newMemoryStore()
	svc := NewService(slog.Default(), repo, store, nil)

	asset, err := svc.Upload(context.Background(), 1, "beach.jpg", "image/jpeg", 4, strings.NewReader("data"))
	require.NoError(t, err)
	require.Equal(t, "beach.jpg", asset.FileName)
	require.True(t, strings.HasSuffix(asset.Key, ".jpg"))
	require.Equal(t, "https://media.test/"+asset.Key, asset.URL)
	require.Contains(t, store.objects, asset.Key)
}

func TestUploadKeysNeverCollide(t *testing.T) {
	repo := newMemoryRepo()
	store := newMemoryStore()
	svc := NewService(slog.Default(), repo, store, nil)
	ctx := context.Background()

	a, err := svc.Upload(ctx, 1, "photo.png", "image/png", 4, strings.NewReader("aaaa"))
	require.NoError(t, err)
	b, err := svc.Upload(ctx, 1, "photo.png", "image/png", 4, strings.NewReader("bbbb"))
	require.NoError(t, err)
	require.NotEqual(t, a.Key, b.Key)
	require.Len(t, store.objects, 2)
}

func TestUploadRejectsUnsupportedType(t *testing.T) {
	svc := NewService(slog.Default(), newMemoryRepo(), newMemoryStore(), nil)
	_, err := svc.Upload(context.Background(), 1, "script.sh", "application/x-sh", 4, strings.NewReader("data"))
	require.True(t, errors.Is(err, shared.ErrValidation))
}

func TestUploadRejectsOversizedFile(t *testing.T) {
	svc := NewService(slog.Default(), newMemoryRepo(), newMemoryStore(), nil)
	_, err := svc.Upload(context.Background(), 1, "huge.jpg", "image/jpeg", MaxUploadBytes+1, strings.NewReader("data"))
	require.True(t, errors.Is(err, shared.ErrValidation))
}

func TestDeleteRemovesObject(t *testing.T) {
	repo := newMemoryRepo()
	store := newMemoryStore()
	svc := NewService(slog.Default(), repo, store, nil)
	ctx := context.Background()

	asset, err := svc.Upload(ctx, 1, "beach.jpg", "image/jpeg", 4, strings.NewReader("data"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, 1, asset.ID))
	require.Empty(t, store.objects)
	_, err = svc.Get(ctx, asset.ID)
	require.True(t, errors.Is(err, shared.ErrNotFound))
}
