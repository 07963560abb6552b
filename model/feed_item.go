package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// FeedItemType classifies a feed item for rendering. The set is closed;
// unknown types coming over the wire are kept as-is and rendered generically
// by consumers.
type FeedItemType string

const (
	FeedItemTypeProject        FeedItemType = "project"
	FeedItemTypeCampaign       FeedItemType = "campaign"
	FeedItemTypeOpportunity    FeedItemType = "opportunity"
	FeedItemTypeMilestone      FeedItemType = "milestone"
	FeedItemTypeSuccessStory   FeedItemType = "success_story"
	FeedItemTypeFundingSuccess FeedItemType = "funding_success"
	FeedItemTypeLiveEvent      FeedItemType = "live_event"
	FeedItemTypeWorkroomLive   FeedItemType = "workroom_live"
	FeedItemTypeProjectClosing FeedItemType = "project_closing"
	FeedItemTypeAdminHighlight FeedItemType = "admin_highlight"
	FeedItemTypeAchievement    FeedItemType = "achievement"
	FeedItemTypeCertification  FeedItemType = "certification"
	FeedItemTypeCollaboration  FeedItemType = "collaboration"
)

// Visibility is the access-control tier of a feed item.
type Visibility string

const (
	VisibilityPublic        Visibility = "public"
	VisibilityAuthenticated Visibility = "authenticated"
	VisibilityPrivate       Visibility = "private"
)

// Significance is a coarse importance ranking used to filter noisy feed
// items. Levels are ordered: low < medium < high < critical.
type Significance string

const (
	SignificanceLow      Significance = "low"
	SignificanceMedium   Significance = "medium"
	SignificanceHigh     Significance = "high"
	SignificanceCritical Significance = "critical"
)

var significanceRank = map[Significance]int{
	SignificanceLow:      0,
	SignificanceMedium:   1,
	SignificanceHigh:     2,
	SignificanceCritical: 3,
}

// Rank returns the ordinal position of s. Unknown levels rank below low so
// that a malformed item never outranks a well-formed one.
func (s Significance) Rank() int {
	if rank, ok := significanceRank[s]; ok {
		return rank
	}
	return -1
}

/*

FeedItem is a single renderable entry in the activity stream. It is the only
entity the feed surfaces; user actions and admin highlights exist to produce
feed items. Once created an item is an immutable display snapshot: a changed
underlying entity arrives as a new item with a new id.

Id: primary key, unique within the feed. Derived items embed provenance in the
	id ("feed_milestone_<entity>_<ms>", "admin_<highlight id>") which is what
	makes remote/local deduplication by id possible.
CreatedAt: canonical sortable timestamp. The feed orders on this, never on the
	display string.
Timestamp: pre-formatted display form ("2h ago", "yesterday"). Never compared.
Likes: simulated engagement count, seeded from the item's source id. Not
	authoritative; real counters live in Redis keyed by item id.
Metadata: free-form type-specific fields (image URL, CTA, expiry, progress).
	Admin-curated expiry is read from Metadata["expiresAt"].

*/
type FeedItem struct {
	Id              string             `gorm:"primaryKey" json:"id"`
	CreatedAt       time.Time          `json:"createdAt"`
	DeletedAt       gorm.DeletedAt     `json:"-"`
	Type            FeedItemType       `json:"type"`
	Title           string             `json:"title"`
	Description     string             `json:"description,omitempty"`
	Timestamp       string             `json:"timestamp"`
	Likes           int                `json:"likes"`
	Location        string             `json:"location"`
	Category        string             `json:"category"`
	Urgent          bool               `json:"urgent,omitempty"`
	Deadline        string             `json:"deadline,omitempty"`
	IsLive          bool               `json:"isLive,omitempty"`
	IsPinned        bool               `json:"isPinned,omitempty"`
	IsAdminCurated  bool               `json:"isAdminCurated,omitempty"`
	IsAutoGenerated bool               `json:"isAutoGenerated,omitempty"`
	AuthorId        string             `json:"authorId"`
	AuthorName      string             `json:"authorName"`
	AuthorAvatar    string             `json:"authorAvatar,omitempty"`
	ProjectId       string             `json:"projectId,omitempty"`
	CampaignId      string             `json:"campaignId,omitempty"`
	OpportunityId   string             `json:"opportunityId,omitempty"`
	Metadata        datatypes.JSONMap  `json:"metadata,omitempty"`
	Visibility      Visibility         `json:"visibility"`
	Significance    Significance       `json:"significance"`
}

// ExpiresAt returns the expiry recorded in the item metadata, if any.
func (f *FeedItem) ExpiresAt() (string, bool) {
	if f.Metadata == nil {
		return "", false
	}
	raw, ok := f.Metadata["expiresAt"]
	if !ok || raw == nil {
		return "", false
	}
	str, ok := raw.(string)
	return str, ok && str != ""
}
