package feed

import (
	"context"
	"time"

	"github.com/Jim-devENG/ispora-engine-sub002/model"
)

// Stats are the aggregate counters of the current feed view.
type Stats struct {
	TotalItems      int `json:"totalItems"`
	AdminHighlights int `json:"adminHighlights"`
	UserGenerated   int `json:"userGenerated"`
	PublicItems     int `json:"publicItems"`
	LiveEvents      int `json:"liveEvents"`
	RecentActivity  int `json:"recentActivity"`
}

// GetFeedStats aggregates the unfiltered feed view. RecentActivity counts
// items created within the last 24 hours by canonical timestamp.
func (s *Service) GetFeedStats(ctx context.Context) Stats {
	items := s.GetFeedItems(ctx, DefaultQueryOptions())
	cutoff := s.now().Add(-24 * time.Hour)

	stats := Stats{TotalItems: len(items)}
	for _, item := range items {
		if item.IsAdminCurated {
			stats.AdminHighlights++
		} else {
			stats.UserGenerated++
		}
		if item.Visibility == model.VisibilityPublic {
			stats.PublicItems++
		}
		if item.IsLive {
			stats.LiveEvents++
		}
		if item.CreatedAt.After(cutoff) {
			stats.RecentActivity++
		}
	}
	return stats
}
