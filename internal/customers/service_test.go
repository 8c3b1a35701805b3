package customers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wayfarer-travel/wayfarer/internal/shared"
)

type memoryRepo struct {
	customers map[int64]Customer
	nextID    int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{customers: make(map[int64]Customer)}
}

func (r *memoryRepo) ListCustomers(ctx context.Context) ([]Customer, error) {
	var out []Customer
	for _, c := range r.customers {
		out = append(out, c)
	}
	return out, nil
}

func (r *memoryRepo) GetCustomer(ctx context.Context, id int64) (Customer, error) {
	c, ok := r.customers[id]
	if !ok {
		return Customer{}, shared.ErrNotFound
	}
	return c, nil
}

func (r *memoryRepo) UpsertByEmail(ctx context.Context, name, email, phone string) (Customer, error) {
	for id, c := range r.customers {
		if c.Email == email {
			c.Name = name
			c.Phone = phone
			r.customers[id] = c
			return c, nil
		}
	}
	r.nextID++
	c := Customer{ID: r.nextID, Name: name, Email: email, Phone: phone}
	r.customers[c.ID] = c
	return c, nil
}

func (r *memoryRepo) DeleteCustomer(ctx context.Context, id int64) error {
	if _, ok := r.customers[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.customers, id)
	return nil
}

func TestCaptureNormalisesEmail(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil)
	ctx := context.Background()

	c, err := svc.Capture(ctx, "  Ana Silva  ", "  Ana.Silva@Example.COM ", " +351 900 000 000 ")
	require.NoError(t, err)
	require.Equal(t, "Ana Silva", c.Name)
	require.Equal(t, "ana.silva@example.com", c.Email)
	require.Equal(t, "+351 900 000 000", c.Phone)
}

func TestCaptureUpsertsByEmail(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, nil)
	ctx := context.Background()

	first, err := svc.Capture(ctx, "Ana", "ana@example.com", "")
	require.NoError(t, err)

	// Same address with different casing must update, not duplicate.
	second, err := svc.Capture(ctx, "Ana Silva", "ANA@example.com", "+351 900")
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	require.Equal(t, "Ana Silva", second.Name)
	require.Equal(t, "+351 900", second.Phone)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
}

func TestDelete(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, nil)
	ctx := context.Background()

	c, err := svc.Capture(ctx, "Ana", "ana@example.com", "")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, 1, c.ID))
	_, err = svc.Get(ctx, c.ID)
	require.ErrorIs(t, err, shared.ErrNotFound)

	require.ErrorIs(t, svc.Delete(ctx, 1, c.ID), shared.ErrNotFound)
}
