// Package stats computes dashboard aggregates over an in-memory report
// slice. Callers pass reports already scoped to what the viewer may see;
// everything here is a stateless reduction.
package stats

import (
	"strconv"
	"time"

	"github.com/Geraldo-Morris/tvriapp/internal/domain"
)

// Window selects the reporting period and its bucket granularity.
type Window string

const (
	WindowWeek  Window = "week"  // last 7 days, daily buckets
	WindowMonth Window = "month" // current calendar month, weekly buckets
	WindowYear  Window = "year"  // last 12 months, monthly buckets
)

// ValidWindow reports whether w is a supported window.
func ValidWindow(w Window) bool {
	return w == WindowWeek || w == WindowMonth || w == WindowYear
}

// Bucket is one time-series point.
type Bucket struct {
	Start time.Time `json:"start"`
	Label string    `json:"label"`
	Count int       `json:"count"`
}

// Summary bundles the dashboard aggregates.
type Summary struct {
	Total                 int                            `json:"total"`
	ByStatus              map[domain.ReportStatus]int    `json:"by_status"`
	ByCategory            map[domain.ReportCategory]int  `json:"by_category"`
	ResolutionRate        float64                        `json:"resolution_rate"`
	AvgResolutionDuration time.Duration                  `json:"avg_resolution_duration"`
	Series                []Bucket                       `json:"series"`
	Window                Window                         `json:"window"`
}

// CountByStatus tallies reports per lifecycle status.
func CountByStatus(reports []domain.Report) map[domain.ReportStatus]int {
	counts := make(map[domain.ReportStatus]int)
	for _, r := range reports {
		counts[r.Status]++
	}
	return counts
}

// CountByCategory tallies reports per category.
func CountByCategory(reports []domain.Report) map[domain.ReportCategory]int {
	counts := make(map[domain.ReportCategory]int)
	for _, r := range reports {
		counts[r.Category]++
	}
	return counts
}

// ResolutionRate returns resolved/total, or 0 for an empty slice.
func ResolutionRate(reports []domain.Report) float64 {
	if len(reports) == 0 {
		return 0
	}
	resolved := 0
	for _, r := range reports {
		if r.Status == domain.ReportStatusResolved {
			resolved++
		}
	}
	return float64(resolved) / float64(len(reports))
}

// AverageResolutionTime returns the mean of ResolvedAt-CreatedAt over
// resolved reports, or 0 when none are resolved.
func AverageResolutionTime(reports []domain.Report) time.Duration {
	var total time.Duration
	resolved := 0
	for _, r := range reports {
		if r.Status != domain.ReportStatusResolved || r.ResolvedAt == nil {
			continue
		}
		total += r.ResolvedAt.Sub(r.CreatedAt)
		resolved++
	}
	if resolved == 0 {
		return 0
	}
	return total / time.Duration(resolved)
}

// WindowStart returns the inclusive lower bound of the window relative to
// now. Boundaries are calendar-aligned in now's location.
func WindowStart(window Window, now time.Time) time.Time {
	switch window {
	case WindowMonth:
		return startOfMonth(now)
	case WindowYear:
		return startOfMonth(now).AddDate(0, -11, 0)
	default:
		return startOfDay(now).AddDate(0, 0, -6)
	}
}

// Filter returns the reports created inside the window ending at now.
func Filter(reports []domain.Report, window Window, now time.Time) []domain.Report {
	start := WindowStart(window, now)
	out := make([]domain.Report, 0, len(reports))
	for _, r := range reports {
		if !r.CreatedAt.Before(start) && !r.CreatedAt.After(now) {
			out = append(out, r)
		}
	}
	return out
}

// TimeSeries buckets report creation counts for the window ending at now.
func TimeSeries(reports []domain.Report, window Window, now time.Time) []Bucket {
	switch window {
	case WindowMonth:
		return weeklyBuckets(reports, now)
	case WindowYear:
		return monthlyBuckets(reports, now)
	default:
		return dailyBuckets(reports, now)
	}
}

// Summarize computes the full dashboard summary for reports created inside
// the window ending at now.
func Summarize(reports []domain.Report, window Window, now time.Time) Summary {
	scoped := Filter(reports, window, now)
	return Summary{
		Total:                 len(scoped),
		ByStatus:              CountByStatus(scoped),
		ByCategory:            CountByCategory(scoped),
		ResolutionRate:        ResolutionRate(scoped),
		AvgResolutionDuration: AverageResolutionTime(scoped),
		Series:                TimeSeries(scoped, window, now),
		Window:                window,
	}
}

func dailyBuckets(reports []domain.Report, now time.Time) []Bucket {
	buckets := make([]Bucket, 0, 7)
	for i := 6; i >= 0; i-- {
		day := startOfDay(now).AddDate(0, 0, -i)
		buckets = append(buckets, Bucket{Start: day, Label: day.Format("Mon")})
	}
	for _, r := range reports {
		day := startOfDay(r.CreatedAt)
		for i := range buckets {
			if buckets[i].Start.Equal(day) {
				buckets[i].Count++
				break
			}
		}
	}
	return buckets
}

func weeklyBuckets(reports []domain.Report, now time.Time) []Bucket {
	monthStart := startOfMonth(now)
	monthEnd := monthStart.AddDate(0, 1, 0)

	var buckets []Bucket
	week := 1
	for cursor := startOfWeek(monthStart); cursor.Before(monthEnd); cursor = cursor.AddDate(0, 0, 7) {
		buckets = append(buckets, Bucket{Start: cursor, Label: "Week " + strconv.Itoa(week)})
		week++
	}
	for _, r := range reports {
		created := r.CreatedAt
		for i := len(buckets) - 1; i >= 0; i-- {
			if !created.Before(buckets[i].Start) {
				buckets[i].Count++
				break
			}
		}
	}
	return buckets
}

func monthlyBuckets(reports []domain.Report, now time.Time) []Bucket {
	buckets := make([]Bucket, 0, 12)
	for i := 11; i >= 0; i-- {
		month := startOfMonth(now).AddDate(0, -i, 0)
		buckets = append(buckets, Bucket{Start: month, Label: month.Format("Jan")})
	}
	for _, r := range reports {
		month := startOfMonth(r.CreatedAt)
		for i := range buckets {
			if buckets[i].Start.Equal(month) {
				buckets[i].Count++
				break
			}
		}
	}
	return buckets
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// startOfWeek aligns to Sunday, matching the mobile dashboard's week
// grouping.
func startOfWeek(t time.Time) time.Time {
	return startOfDay(t).AddDate(0, 0, -int(t.Weekday()))
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
