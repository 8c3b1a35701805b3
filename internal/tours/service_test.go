package tours

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wayfarer-travel/wayfarer/internal/shared"
)

type memoryRepo struct {
	tours  map[int64]Tour
	nextID int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{tours: make(map[int64]Tour)}
}

func (r *memoryRepo) ListTours(ctx context.Context, publishedOnly bool) ([]Tour, error) {
	var out []Tour
	for _, t := range r.tours {
		if publishedOnly && !t.Published {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (r *memoryRepo) GetTour(ctx context.Context, id int64) (Tour, error) {
	t, ok := r.tours[id]
	if !ok {
		return Tour{}, shared.ErrNotFound
	}
	return t, nil
}

func (r *memoryRepo) GetTourBySlug(ctx context.Context, slug string) (Tour, error) {
	for _, t := range r.tours {
		if t.Slug == slug && t.Published {
			return t, nil
		}
	}
	return Tour{}, shared.ErrNotFound
}

func (r *memoryRepo) CreateTour(ctx context.Context, t Tour) (Tour, error) {
	for _, existing := range r.tours {
		if existing.Slug == t.Slug {
			return Tour{}, shared.ErrDuplicate
		}
	}
	r.nextID++
	t.ID = r.nextID
	r.tours[t.ID] = t
	return t, nil
}

func (r *memoryRepo) UpdateTour(ctx context.Context, id int64, t Tour) (Tour, error) {
	existing, ok := r.tours[id]
	if !ok {
		return Tour{}, shared.ErrNotFound
	}
	t.ID = id
	t.Published = existing.Published
	r.tours[id] = t
	return t, nil
}

func (r *memoryRepo) SetPublished(ctx context.Context, id int64, published bool) error {
	t, ok := r.tours[id]
	if !ok {
		return shared.ErrNotFound
	}
	t.Published = published
	r.tours[id] = t
	return nil
}

func (r *memoryRepo) DeleteTour(ctx context.Context, id int64) error {
	if _, ok := r.tours[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.tours, id)
	return nil
}

func TestCreateGeneratesSlug(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil, nil)
	ctx := context.Background()

	tour, err := svc.Create(ctx, 1, TourInput{Title: "Grand Café Tour of São Paulo", DurationDays: 5, PriceCents: 129900})
	require.NoError(t, err)
	require.Equal(t, "grand-cafe-tour-of-sao-paulo", tour.Slug)
	require.Equal(t, "USD", tour.Currency)
	require.False(t, tour.Published)
}

func TestCreateRejectsInvalidInput(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, 1, TourInput{Title: "  ", DurationDays: 3})
	require.Error(t, err)

	_, err = svc.Create(ctx, 1, TourInput{Title: "Alps", DurationDays: 0})
	require.Error(t, err)

	_, err = svc.Create(ctx, 1, TourInput{Title: "Alps", DurationDays: 2, PriceCents: -1})
	require.Error(t, err)
}

func TestPublishedVisibility(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, nil, nil)
	ctx := context.Background()

	tour, err := svc.Create(ctx, 1, TourInput{Title: "Patagonia Trek", DurationDays: 10, PriceCents: 450000})
	require.NoError(t, err)

	public, err := svc.ListPublished(ctx)
	require.NoError(t, err)
	require.Empty(t, public)

	_, err = svc.GetPublishedBySlug(ctx, tour.Slug)
	require.ErrorIs(t, err, shared.ErrNotFound)

	require.NoError(t, svc.SetPublished(ctx, 1, tour.ID, true))

	public, err = svc.ListPublished(ctx)
	require.NoError(t, err)
	require.Len(t, public, 1)

	got, err := svc.GetPublishedBySlug(ctx, tour.Slug)
	require.NoError(t, err)
	require.Equal(t, tour.ID, got.ID)
}

func TestDuplicateSlugRejected(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, 1, TourInput{Title: "Sahara Expedition", DurationDays: 7, PriceCents: 100})
	require.NoError(t, err)

	_, err = svc.Create(ctx, 1, TourInput{Title: "Sahara Expedition", DurationDays: 9, PriceCents: 200})
	require.ErrorIs(t, err, shared.ErrDuplicate)
}
