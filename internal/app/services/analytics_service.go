package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/learnhub/internal/app/models/dto"
	"github.com/yigit/learnhub/internal/pkg/helpers"
)

// CreatedCounter counts rows created in the half-open range [start, end)
type CreatedCounter interface {
	CountCreatedBetween(ctx context.Context, start, end time.Time) (int64, error)
}

// AnalyticsService builds the monthly series of the admin dashboard
type AnalyticsService struct {
	users   CreatedCounter
	courses CreatedCounter
	orders  CreatedCounter
	logger  zerolog.Logger
	now     func() time.Time
}

// NewAnalyticsService creates a new AnalyticsService
func NewAnalyticsService(users, courses, orders CreatedCounter, logger zerolog.Logger) *AnalyticsService {
	return &AnalyticsService{
		users:   users,
		courses: courses,
		orders:  orders,
		logger:  logger,
		now:     time.Now,
	}
}

func (s *AnalyticsService) last12Months(ctx context.Context, counter CreatedCounter) (*dto.AnalyticsSeries, error) {
	ranges := helpers.Last12Months(s.now())
	series := &dto.AnalyticsSeries{Last12Months: make([]dto.MonthCount, 0, len(ranges))}

	for _, r := range ranges {
		count, err := counter.CountCreatedBetween(ctx, r.Start, r.End)
		if err != nil {
			return nil, err
		}
		series.Last12Months = append(series.Last12Months, dto.MonthCount{Month: r.Label, Count: count})
	}
	return series, nil
}

// UsersAnalytics counts registrations per month
func (s *AnalyticsService) UsersAnalytics(ctx context.Context) (*dto.AnalyticsSeries, error) {
	return s.last12Months(ctx, s.users)
}

// CoursesAnalytics counts created courses per month
func (s *AnalyticsService) CoursesAnalytics(ctx context.Context) (*dto.AnalyticsSeries, error) {
	return s.last12Months(ctx, s.courses)
}

// OrdersAnalytics counts orders per month
func (s *AnalyticsService) OrdersAnalytics(ctx context.Context) (*dto.AnalyticsSeries, error) {
	return s.last12Months(ctx, s.orders)
}
