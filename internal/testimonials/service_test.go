package testimonials

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wayfarer-travel/wayfarer/internal/shared"
)

type memoryRepo struct {
	testimonials map[int64]Testimonial
	nextID       int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{testimonials: make(map[int64]Testimonial)}
}

func (r *memoryRepo) ListTestimonials(ctx context.Context, publishedOnly bool) ([]Testimonial, error) {
	var out []Testimonial
	for _, tm := range r.testimonials {
		if publishedOnly && !tm.Published {
			continue
		}
		out = append(out, tm)
	}
	return out, nil
}

func (r *memoryRepo) GetTestimonial(ctx context.Context, id int64) (Testimonial, error) {
	tm, ok := r.testimonials[id]
	if !ok {
		return Testimonial{}, shared.ErrNotFound
	}
	return tm, nil
}

func (r *memoryRepo) CreateTestimonial(ctx context.Context, tm Testimonial) (Testimonial, error) {
	r.nextID++
	tm.ID = r.nextID
	r.testimonials[tm.ID] = tm
	return tm, nil
}

func (r *memoryRepo) UpdateTestimonial(ctx context.Context, id int64, tm Testimonial) (Testimonial, error) {
	existing, ok := r.testimonials[id]
	if !ok {
		return Testimonial{}, shared.ErrNotFound
	}
	tm.ID = id
	tm.Published = existing.Published
	r.testimonials[id] = tm
	return tm, nil
}

func (r *memoryRepo) SetPublished(ctx context.Context, id int64, published bool) error {
	tm, ok := r.testimonials[id]
	if !ok {
		return shared.ErrNotFound
	}
	tm.Published = published
	r.testimonials[id] = tm
	return nil
}

func (r *memoryRepo) DeleteTestimonial(ctx context.Context, id int64) error {
	if _, ok := r.testimonials[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.testimonials, id)
	return nil
}

func TestCreateValidatesInput(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, 1, TestimonialInput{AuthorName: "  ", Rating: 5, Quote: "Great trip"})
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = svc.Create(ctx, 1, TestimonialInput{AuthorName: "Ana", Rating: 5, Quote: "   "})
	require.ErrorIs(t, err, shared.ErrValidation)

	for _, rating := range []int{0, 6, -1} {
		_, err = svc.Create(ctx, 1, TestimonialInput{AuthorName: "Ana", Rating: rating, Quote: "Great trip"})
		require.ErrorIs(t, err, shared.ErrValidation, "rating %d", rating)
	}

	created, err := svc.Create(ctx, 1, TestimonialInput{AuthorName: " Ana ", Location: " Lisbon ", Rating: 5, Quote: " Great trip "})
	require.NoError(t, err)
	require.Equal(t, "Ana", created.AuthorName)
	require.Equal(t, "Lisbon", created.Location)
	require.Equal(t, "Great trip", created.Quote)
	require.False(t, created.Published)
}

func TestPublishedVisibility(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, 1, TestimonialInput{AuthorName: "Marco", Rating: 4, Quote: "Would book again"})
	require.NoError(t, err)

	public, err := svc.ListPublished(ctx)
	require.NoError(t, err)
	require.Empty(t, public)

	require.NoError(t, svc.SetPublished(ctx, 1, created.ID, true))

	public, err = svc.ListPublished(ctx)
	require.NoError(t, err)
	require.Len(t, public, 1)

	all, err := svc.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
}

func TestUpdatePreservesPublishedFlag(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, 1, TestimonialInput{AuthorName: "Ines", Rating: 5, Quote: "Unforgettable"})
	require.NoError(t, err)
	require.NoError(t, svc.SetPublished(ctx, 1, created.ID, true))

	updated, err := svc.Update(ctx, 1, created.ID, TestimonialInput{AuthorName: "Ines", Rating: 4, Quote: "Still unforgettable"})
	require.NoError(t, err)
	require.True(t, updated.Published)
	require.Equal(t, 4, updated.Rating)
}

func TestDelete(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, 1, TestimonialInput{AuthorName: "Luis", Rating: 3, Quote: "Fine"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, 1, created.ID))
	_, err = svc.Get(ctx, created.ID)
	require.ErrorIs(t, err, shared.ErrNotFound)

	require.ErrorIs(t, svc.Delete(ctx, 1, created.ID), shared.ErrNotFound)
}
