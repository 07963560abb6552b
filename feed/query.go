package feed

import (
	"sort"
	"strings"
	"time"

	"github.com/Jim-devENG/ispora-engine-sub002/model"
	"github.com/araddon/dateparse"
)

// VisibilityScope selects which audience tiers a query may return. Private
// items are excluded from every scope by construction: no branch below ever
// admits them.
type VisibilityScope string

const (
	ScopePublic        VisibilityScope = "public"
	ScopeAuthenticated VisibilityScope = "authenticated"
	ScopeAll           VisibilityScope = "all"
)

// QueryOptions are the declarative filters of the feed query pipeline. Each
// field is independently toggle-able; zero values come from
// DefaultQueryOptions, not from the struct literal.
type QueryOptions struct {
	IncludeAdminHighlights bool
	UserFilter             string
	CategoryFilter         string
	// MinSignificance keeps items ranking at or above the given level. Empty
	// means no floor.
	MinSignificance model.Significance
	Limit           int
	Visibility      VisibilityScope
	IncludeExpired  bool
}

// DefaultQueryOptions mirrors the defaults consumers get when they pass no
// filters at all: highlights included, expired included, no significance
// floor, every non-private tier visible.
func DefaultQueryOptions() QueryOptions {
	return QueryOptions{
		IncludeAdminHighlights: true,
		IncludeExpired:         true,
		Visibility:             ScopeAll,
	}
}

// mergeRemoteAndLocal unions the remote and locally derived item sets. Remote
// is authoritative: a local item whose id already appears remotely is
// dropped.
func mergeRemoteAndLocal(remote []*model.FeedItem, local []*model.FeedItem) []*model.FeedItem {
	merged := make([]*model.FeedItem, 0, len(remote)+len(local))
	seen := make(map[string]bool, len(remote))
	for _, item := range remote {
		merged = append(merged, item)
		seen[item.Id] = true
	}
	for _, item := range local {
		if !seen[item.Id] {
			merged = append(merged, item)
		}
	}
	return merged
}

// dedupeById keeps the first occurrence of every id. Defensive: covers items
// arriving from multiple generation paths with the same id.
func dedupeById(items []*model.FeedItem) []*model.FeedItem {
	unique := make([]*model.FeedItem, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		if seen[item.Id] {
			continue
		}
		seen[item.Id] = true
		unique = append(unique, item)
	}
	return unique
}

func filterByVisibility(items []*model.FeedItem, scope VisibilityScope) []*model.FeedItem {
	kept := items[:0:0]
	for _, item := range items {
		if scope == ScopePublic {
			if item.Visibility == model.VisibilityPublic {
				kept = append(kept, item)
			}
			continue
		}
		if item.Visibility == model.VisibilityPublic || item.Visibility == model.VisibilityAuthenticated {
			kept = append(kept, item)
		}
	}
	return kept
}

// FilterExpired drops admin-curated items whose metadata expiry has passed.
// Items without an expiry, and items whose expiry does not parse, are kept.
// Exported because the backend of record applies the same rule before
// serving.
func FilterExpired(items []*model.FeedItem, now time.Time) []*model.FeedItem {
	kept := items[:0:0]
	for _, item := range items {
		if item.IsAdminCurated {
			if raw, ok := item.ExpiresAt(); ok {
				if expiry, err := dateparse.ParseAny(raw); err == nil && !expiry.After(now) {
					continue
				}
			}
		}
		kept = append(kept, item)
	}
	return kept
}

func filterOutAdminCurated(items []*model.FeedItem) []*model.FeedItem {
	kept := items[:0:0]
	for _, item := range items {
		if !item.IsAdminCurated {
			kept = append(kept, item)
		}
	}
	return kept
}

func filterBySignificance(items []*model.FeedItem, min model.Significance) []*model.FeedItem {
	floor := min.Rank()
	kept := items[:0:0]
	for _, item := range items {
		if item.Significance.Rank() >= floor {
			kept = append(kept, item)
		}
	}
	return kept
}

// filterByText applies the free-text author/title/description filter and the
// category filter, both case-insensitive substring matches, AND semantics
// when both are given.
func filterByText(items []*model.FeedItem, userFilter string, categoryFilter string) []*model.FeedItem {
	user := strings.ToLower(userFilter)
	category := strings.ToLower(categoryFilter)

	kept := items[:0:0]
	for _, item := range items {
		if user != "" &&
			!strings.Contains(strings.ToLower(item.AuthorName), user) &&
			!strings.Contains(strings.ToLower(item.Title), user) &&
			!strings.Contains(strings.ToLower(item.Description), user) {
			continue
		}
		if category != "" && !strings.Contains(strings.ToLower(item.Category), category) {
			continue
		}
		kept = append(kept, item)
	}
	return kept
}

// sortFeedItems orders pinned items before unpinned ones, then by canonical
// timestamp descending. The sort is stable so equal-time items keep their
// merge order (remote before local).
func sortFeedItems(items []*model.FeedItem) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].IsPinned != items[j].IsPinned {
			return items[i].IsPinned
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
}
