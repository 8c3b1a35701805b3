package destinations

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wayfarer-travel/wayfarer/internal/shared"
)

type memoryRepo struct {
	destinations map[int64]Destination
	nextID       int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{destinations: make(map[int64]Destination)}
}

func (r *memoryRepo) ListDestinations(ctx context.Context, publishedOnly bool) ([]Destination, error) {
	var out []Destination
	for _, d := range r.destinations {
		if publishedOnly && !d.Published {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

func (r *memoryRepo) ListRegions(ctx context.Context) ([]RegionSummary, error) {
	counts := make(map[string]int64)
	for _, d := range r.destinations {
		if !d.Published || d.Region == "" {
			continue
		}
		counts[d.Region]++
	}
	var out []RegionSummary
	for region, n := range counts {
		out = append(out, RegionSummary{Region: region, Destinations: n})
	}
	return out, nil
}

func (r *memoryRepo) GetDestination(ctx context.Context, id int64) (Destination, error) {
	d, ok := r.destinations[id]
	if !ok {
		return Destination{}, shared.ErrNotFound
	}
	return d, nil
}

func (r *memoryRepo) GetDestinationBySlug(ctx context.Context, slug string) (Destination, error) {
	for _, d := range r.destinations {
		if d.Slug == slug && d.Published {
			return d, nil
		}
	}
	return Destination{}, shared.ErrNotFound
}

func (r *memoryRepo) CreateDestination(ctx context.Context, d Destination) (Destination, error) {
	for _, existing := range r.destinations {
		if existing.Slug == d.Slug {
			return Destination{}, shared.ErrDuplicate
		}
	}
	r.nextID++
	d.ID = r.nextID
	r.destinations[d.ID] = d
	return d, nil
}

func (r *memoryRepo) UpdateDestination(ctx context.Context, id int64, d Destination) (Destination, error) {
	existing, ok := r.destinations[id]
	if !ok {
		return Destination{}, shared.ErrNotFound
	}
	d.ID = id
	d.Published = existing.Published
	r.destinations[id] = d
	return d, nil
}

func (r *memoryRepo) SetPublished(ctx context.Context, id int64, published bool) error {
	d, ok := r.destinations[id]
	if !ok {
		return shared.ErrNotFound
	}
	d.Published = published
	r.destinations[id] = d
	return nil
}

func (r *memoryRepo) DeleteDestination(ctx context.Context, id int64) error {
	if _, ok := r.destinations[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.destinations, id)
	return nil
}

func TestCreateGeneratesSlug(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil, nil)
	ctx := context.Background()

	dest, err := svc.Create(ctx, 1, DestinationInput{Name: "São Tomé & Príncipe", Region: "Africa", Country: "São Tomé"})
	require.NoError(t, err)
	require.Equal(t, "sao-tome-principe", dest.Slug)
	require.False(t, dest.Published)
}

func TestCreateRequiresName(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil, nil)

	_, err := svc.Create(context.Background(), 1, DestinationInput{Name: "   ", Region: "Europe"})
	require.Error(t, err)
}

func TestPublishedVisibility(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, nil, nil)
	ctx := context.Background()

	dest, err := svc.Create(ctx, 1, DestinationInput{Name: "Reykjavik", Region: "Europe", Country: "Iceland"})
	require.NoError(t, err)

	public, err := svc.ListPublished(ctx)
	require.NoError(t, err)
	require.Empty(t, public)

	_, err = svc.GetPublishedBySlug(ctx, dest.Slug)
	require.ErrorIs(t, err, shared.ErrNotFound)

	require.NoError(t, svc.SetPublished(ctx, 1, dest.ID, true))

	public, err = svc.ListPublished(ctx)
	require.NoError(t, err)
	require.Len(t, public, 1)

	got, err := svc.GetPublishedBySlug(ctx, dest.Slug)
	require.NoError(t, err)
	require.Equal(t, dest.ID, got.ID)
}

func TestListRegionsCountsPublishedOnly(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, nil, nil)
	ctx := context.Background()

	lisbon, err := svc.Create(ctx, 1, DestinationInput{Name: "Lisbon", Region: "Europe", Country: "Portugal"})
	require.NoError(t, err)
	porto, err := svc.Create(ctx, 1, DestinationInput{Name: "Porto", Region: "Europe", Country: "Portugal"})
	require.NoError(t, err)
	kyoto, err := svc.Create(ctx, 1, DestinationInput{Name: "Kyoto", Region: "Asia", Country: "Japan"})
	require.NoError(t, err)
	// Stays unpublished; must not show up in the grouping.
	_, err = svc.Create(ctx, 1, DestinationInput{Name: "Cusco", Region: "South America", Country: "Peru"})
	require.NoError(t, err)

	for _, id := range []int64{lisbon.ID, porto.ID, kyoto.ID} {
		require.NoError(t, svc.SetPublished(ctx, 1, id, true))
	}

	regions, err := svc.ListRegions(ctx)
	require.NoError(t, err)
	require.Len(t, regions, 2)

	byName := make(map[string]int64)
	for _, reg := range regions {
		byName[reg.Region] = reg.Destinations
	}
	require.Equal(t, int64(2), byName["Europe"])
	require.Equal(t, int64(1), byName["Asia"])
}

func TestDuplicateSlugRejected(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, 1, DestinationInput{Name: "Marrakech", Region: "Africa"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, 1, DestinationInput{Name: "Marrakech", Region: "Africa"})
	require.ErrorIs(t, err, shared.ErrDuplicate)
}
