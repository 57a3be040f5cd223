package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/learnhub/internal/app/models"
)

type countByMonth struct {
	counts map[time.Month]int64
	err    error
}

func (c countByMonth) CountCreatedBetween(_ context.Context, start, _ time.Time) (int64, error) {
	return c.counts[start.Month()], c.err
}

func TestAnalyticsReturnsTwelveMonthsOldestFirst(t *testing.T) {
	users := countByMonth{counts: map[time.Month]int64{time.July: 2, time.June: 5}}
	svc := NewAnalyticsService(users, countByMonth{}, countByMonth{}, zerolog.Nop())
	svc.now = func() time.Time { return time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC) }

	series, err := svc.UsersAnalytics(context.Background())
	require.NoError(t, err)
	require.Len(t, series.Last12Months, 12)

	first, last := series.Last12Months[0], series.Last12Months[11]
	assert.Equal(t, "Jul 2024", first.Month)
	assert.Equal(t, int64(2), first.Count)
	assert.Equal(t, "Jun 2025", last.Month)
	assert.Equal(t, int64(5), last.Count)
}

func TestAnalyticsPropagatesCountErrors(t *testing.T) {
	svc := NewAnalyticsService(countByMonth{}, countByMonth{}, countByMonth{err: errors.New("db down")}, zerolog.Nop())

	_, err := svc.OrdersAnalytics(context.Background())
	assert.EqualError(t, err, "db down")

	series, err := svc.CoursesAnalytics(context.Background())
	require.NoError(t, err)
	assert.Len(t, series.Last12Months, 12)
}

func TestAnalyticsCountsLastInstantOfMonth(t *testing.T) {
	users := newFakeUserRepo()
	users.users[1] = &models.User{ID: 1, CreatedAt: time.Date(2025, time.May, 31, 23, 59, 59, 999_900_000, time.UTC)}
	users.users[2] = &models.User{ID: 2, CreatedAt: time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)}
	svc := NewAnalyticsService(users, countByMonth{}, countByMonth{}, zerolog.Nop())
	svc.now = func() time.Time { return time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC) }

	series, err := svc.UsersAnalytics(context.Background())
	require.NoError(t, err)

	may, june := series.Last12Months[10], series.Last12Months[11]
	assert.Equal(t, "May 2025", may.Month)
	assert.Equal(t, int64(1), may.Count)
	assert.Equal(t, "Jun 2025", june.Month)
	assert.Equal(t, int64(1), june.Count)
}
