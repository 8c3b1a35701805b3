package analytics

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	dashboardCacheKey = "analytics:dashboard"
	dashboardCacheTTL = 60 * time.Second
)

// RepositoryPort is the query surface consumed by the service.
type RepositoryPort interface {
	Dashboard(ctx context.Context) (Dashboard, error)
	MonthlyBookings(ctx context.Context, months int) ([]MonthlyBookings, error)
}

// Service computes and caches reporting figures. The dashboard is cached
// in Redis for a short window; a cache failure falls through to the
// database rather than erroring.
type Service struct {
	logger *slog.Logger
	repo   RepositoryPort
	cache  *redis.Client
}

// NewService constructs a service. cache may be nil.
func NewService(logger *slog.Logger, repo RepositoryPort, cache *redis.Client) *Service {
	return &Service{logger: logger, repo: repo, cache: cache}
}

// Dashboard returns the headline figures, served from cache when fresh.
func (s *Service) Dashboard(ctx context.Context) (Dashboard, error) {
	if s.cache != nil {
		raw, err := s.cache.Get(ctx, dashboardCacheKey).Bytes()
		if err == nil {
			var cached Dashboard
			if json.Unmarshal(raw, &cached) == nil {
				return cached, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn("analytics cache read", slog.Any("error", err))
		}
	}

	d, err := s.repo.Dashboard(ctx)
	if err != nil {
		return Dashboard{}, err
	}

	if s.cache != nil {
		if raw, err := json.Marshal(d); err == nil {
			if err := s.cache.Set(ctx, dashboardCacheKey, raw, dashboardCacheTTL).Err(); err != nil {
				s.logger.Warn("analytics cache write", slog.Any("error", err))
			}
		}
	}
	return d, nil
}

// MonthlyBookings returns the per-month booking breakdown.
func (s *Service) MonthlyBookings(ctx context.Context, months int) ([]MonthlyBookings, error) {
	if months <= 0 || months > 36 {
		months = 12
	}
	return s.repo.MonthlyBookings(ctx, months)
}

// ExportMonthlyBookingsCSV streams the breakdown as CSV.
func (s *Service) ExportMonthlyBookingsCSV(ctx context.Context, w io.Writer, months int) error {
	rows, err := s.MonthlyBookings(ctx, months)
	if err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"month", "total", "confirmed", "cancelled"}); err != nil {
		return err
	}
	for _, m := range rows {
		record := []string{
			m.Month,
			strconv.Itoa(m.Total),
			strconv.Itoa(m.Confirmed),
			strconv.Itoa(m.Cancelled),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
