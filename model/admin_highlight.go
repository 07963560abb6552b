package model

import "time"

// HighlightType enumerates the editorial promotion formats.
type HighlightType string

const (
	HighlightTopMentor              HighlightType = "top_mentor"
	HighlightSpotlightedOpportunity HighlightType = "spotlighted_opportunity"
	HighlightImpactStat             HighlightType = "impact_stat"
	HighlightFeaturedProject        HighlightType = "featured_project"
	HighlightAnnouncement           HighlightType = "announcement"
	HighlightSuccessSpotlight       HighlightType = "success_spotlight"
	HighlightCommunityMilestone     HighlightType = "community_milestone"
)

/*

AdminHighlight is an editorially curated promotion. Every highlight has
exactly one derived FeedItem, created atomically at highlight-creation time.
Highlights cannot be private: visibility is public or authenticated only.

ExpiresAt: optional expiry timestamp (RFC3339 or any parseable form); carried
	into the derived item's metadata and honored by the query pipeline when
	expired highlights are excluded.

*/
type AdminHighlight struct {
	Id            string        `gorm:"primaryKey" json:"id"`
	CreatedAt     time.Time     `json:"createdAt"`
	Type          HighlightType `json:"type"`
	Title         string        `json:"title"`
	Description   string        `json:"description"`
	Image         string        `json:"image,omitempty"`
	CtaText       string        `json:"ctaText,omitempty"`
	CtaLink       string        `json:"ctaLink,omitempty"`
	IsPinned      bool          `json:"isPinned"`
	ExpiresAt     string        `json:"expiresAt,omitempty"`
	CreatedBy     string        `json:"createdBy"`
	Visibility    Visibility    `json:"visibility"`
	ProjectId     string        `json:"projectId,omitempty"`
	OpportunityId string        `json:"opportunityId,omitempty"`
}
