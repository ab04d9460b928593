package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Geraldo-Morris/tvriapp/internal/cache"
	"github.com/Geraldo-Morris/tvriapp/internal/domain"
	"github.com/Geraldo-Morris/tvriapp/internal/repository"
	"github.com/Geraldo-Morris/tvriapp/internal/stats"
	apperrors "github.com/Geraldo-Morris/tvriapp/pkg/util"
)

// StatsService serves dashboard summaries over the viewer's visible
// reports, with an invalidate-on-write cache in front of the reduction.
type StatsService struct {
	reports    repository.ReportRepository
	statsCache *cache.StatsCache
}

// NewStatsService constructs the service.
func NewStatsService(reports repository.ReportRepository, statsCache *cache.StatsCache) *StatsService {
	return &StatsService{reports: reports, statsCache: statsCache}
}

// Summary computes the dashboard summary for the actor's visible reports
// inside the given window.
func (s *StatsService) Summary(ctx context.Context, actor *domain.User, window stats.Window) (*stats.Summary, error) {
	if !stats.ValidWindow(window) {
		return nil, apperrors.NewValidationError("unknown window",
			map[string]any{"window": window})
	}

	scope := repository.ScopeFor(actor)
	key := cache.Key(scopeKey(scope), window)
	if cached, ok := s.statsCache.Get(ctx, key); ok {
		return cached, nil
	}

	reports, err := s.reports.List(ctx, scope)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	summary := stats.Summarize(reports, window, time.Now())
	s.statsCache.Set(ctx, key, &summary)
	return &summary, nil
}

func scopeKey(scope repository.ReportScope) string {
	if scope.Kind == repository.ScopeAll {
		return string(scope.Kind)
	}
	return fmt.Sprintf("%s:%s", scope.Kind, scope.UserID)
}
