package blog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wayfarer-travel/wayfarer/internal/shared"
)

type memoryRepo struct {
	nextID int64
	posts  map[int64]Post
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{nextID: 1, posts: make(map[int64]Post)}
}

func (m *memoryRepo) ListPosts(_ context.Context, publishedOnly bool) ([]Post, error) {
	var out []Post
	for _, p := range m.posts {
		if publishedOnly && !p.Published {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (m *memoryRepo) GetPost(_ context.Context, id int64) (Post, error) {
	p, ok := m.posts[id]
	if !ok {
		return Post{}, shared.ErrNotFound
	}
	return p, nil
}

func (m *memoryRepo) GetPostBySlug(_ context.Context, slug string) (Post, error) {
	for _, p := range m.posts {
		if p.Slug == slug && p.Published {
			return p, nil
		}
	}
	return Post{}, shared.ErrNotFound
}

func (m *memoryRepo) CreatePost(_ context.Context, p Post) (Post, error) {
	for _, existing := range m.posts {
		if existing.Slug == p.Slug {
			return Post{}, shared.ErrDuplicate
		}
	}
	p.ID = m.nextID
	m.nextID++
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	m.posts[p.ID] = p
	return p, nil
}

func (m *memoryRepo) UpdatePost(_ context.Context, id int64, p Post) (Post, error) {
	existing, ok := m.posts[id]
	if !ok {
		return Post{}, shared.ErrNotFound
	}
	existing.Title = p.Title
	existing.Slug = p.Slug
	existing.Excerpt = p.Excerpt
	existing.Body = p.Body
	existing.UpdatedAt = time.Now()
	m.posts[id] = existing
	return existing, nil
}

func (m *memoryRepo) SetPublished(_ context.Context, id int64, published bool) error {
	p, ok := m.posts[id]
	if !ok {
		return shared.ErrNotFound
	}
	p.Published = published
	if published && p.PublishedAt == nil {
		now := time.Now()
		p.PublishedAt = &now
	}
	m.posts[id] = p
	return nil
}

func (m *memoryRepo) DeletePost(_ context.Context, id int64) error {
	if _, ok := m.posts[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.posts, id)
	return nil
}

func TestCreatePostGeneratesSlug(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil)

	post, err := svc.Create(context.Background(), 1, PostInput{Title: "Où Aller à Genève", Body: "content"})
	require.NoError(t, err)
	require.Equal(t, "ou-aller-a-geneve", post.Slug)
	require.False(t, post.Published)
	require.Equal(t, int64(1), post.AuthorID)
}

func TestCreatePostRequiresTitleAndBody(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil)

	_, err := svc.Create(context.Background(), 1, PostInput{Title: "   ", Body: "content"})
	require.True(t, errors.Is(err, shared.ErrValidation))

	_, err = svc.Create(context.Background(), 1, PostInput{Title: "Title", Body: ""})
	require.True(t, errors.Is(err, shared.ErrValidation))
}

func TestPublishedVisibility(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, nil)
	ctx := context.Background()

	post, err := svc.Create(ctx, 1, PostInput{Title: "Hidden Gems", Body: "content"})
	require.NoError(t, err)

	_, err = svc.GetPublishedBySlug(ctx, post.Slug)
	require.True(t, errors.Is(err, shared.ErrNotFound))

	require.NoError(t, svc.SetPublished(ctx, 1, post.ID, true))

	got, err := svc.GetPublishedBySlug(ctx, post.Slug)
	require.NoError(t, err)
	require.NotNil(t, repo.posts[got.ID].PublishedAt)

	require.NoError(t, svc.SetPublished(ctx, 1, post.ID, false))
	_, err = svc.GetPublishedBySlug(ctx, post.Slug)
	require.True(t, errors.Is(err, shared.ErrNotFound))
}

func TestDuplicateSlugRejected(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, 1, PostInput{Title: "Same Title", Body: "one"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, 1, PostInput{Title: "Same Title", Body: "two"})
	require.True(t, errors.Is(err, shared.ErrDuplicate))
}
