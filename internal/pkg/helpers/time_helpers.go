package helpers

import (
	"time"

	"github.com/rs/zerolog/log"
)

// MonthLabelLayout renders buckets as "Jan 2025"
const MonthLabelLayout = "Jan 2006"

// ParseDuration parses a duration string, returns default duration on error.
func ParseDuration(durationStr string, defaultDuration time.Duration) time.Duration {
	duration, err := time.ParseDuration(durationStr)
	if err != nil {
		// Use the global logger here, the configured one may not exist yet.
		log.Warn().Err(err).Str("durationStr", durationStr).Dur("defaultDuration", defaultDuration).Msg("Failed to parse duration string, using default")
		return defaultDuration
	}
	return duration
}

// MonthRange is one calendar month as the half-open interval [Start, End)
type MonthRange struct {
	Label string
	Start time.Time
	End   time.Time
}

// Last12Months returns the twelve calendar months ending with the month of now, oldest first.
// Bounds are computed in now's location.
func Last12Months(now time.Time) []MonthRange {
	const months = 12
	year, month, _ := now.Date()
	loc := now.Location()

	ranges := make([]MonthRange, 0, months)
	for i := months - 1; i >= 0; i-- {
		start := time.Date(year, month-time.Month(i), 1, 0, 0, 0, 0, loc)
		end := time.Date(year, month-time.Month(i)+1, 1, 0, 0, 0, 0, loc)
		ranges = append(ranges, MonthRange{
			Label: start.Format(MonthLabelLayout),
			Start: start,
			End:   end,
		})
	}
	return ranges
}
