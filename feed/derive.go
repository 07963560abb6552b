package feed

import (
	"fmt"
	"hash/fnv"
	"math/rand"
	"time"

	"github.com/Jim-devENG/ispora-engine-sub002/model"
	"github.com/jinzhu/copier"
	"gorm.io/datatypes"
)

// adminAuthorName is the fixed author identity of every highlight-derived
// feed item.
const adminAuthorName = "Aspora Team"

// significanceByAction ranks every known action type. Kept complete even
// though only milestone_achieved currently derives a feed item, so that the
// ranking is ready when further action types are wired up.
var significanceByAction = map[model.ActionType]model.Significance{
	model.ActionProjectCreated:       model.SignificanceHigh,
	model.ActionProjectJoined:        model.SignificanceLow,
	model.ActionProjectCompleted:     model.SignificanceHigh,
	model.ActionCampaignLaunched:     model.SignificanceHigh,
	model.ActionCampaignJoined:       model.SignificanceLow,
	model.ActionMilestoneAchieved:    model.SignificanceMedium,
	model.ActionOpportunityPosted:    model.SignificanceMedium,
	model.ActionOpportunityApplied:   model.SignificanceLow,
	model.ActionFundingReceived:      model.SignificanceCritical,
	model.ActionSessionStarted:       model.SignificanceMedium,
	model.ActionSessionCompleted:     model.SignificanceLow,
	model.ActionCertificationEarned:  model.SignificanceMedium,
	model.ActionAchievementUnlocked:  model.SignificanceMedium,
	model.ActionCollaborationStarted: model.SignificanceMedium,
	model.ActionMentorMatch:          model.SignificanceLow,
	model.ActionWorkspaceCreated:     model.SignificanceLow,
}

// ActionSignificance returns the significance assigned to an action type,
// defaulting to low for unknown types.
func ActionSignificance(actionType model.ActionType) model.Significance {
	if s, ok := significanceByAction[actionType]; ok {
		return s
	}
	return model.SignificanceLow
}

// simulatedLikes returns a display-only like count in [min, min+spread),
// seeded from the item's source id so re-derivation of the same source yields
// the same count. Authoritative counters live in Redis.
func simulatedLikes(seed string, min int, spread int) int {
	h := fnv.New32a()
	h.Write([]byte(seed))
	r := rand.New(rand.NewSource(int64(h.Sum32())))
	return min + r.Intn(spread)
}

// DeriveFeedItem translates a recorded user action into a feed item, or nil
// when the action type has no derivation rule. The nil case is a silent
// no-op, not an error: the action stays in the log, the feed is unchanged.
//
// Derivation is a pure function of the action and the provided clock reading;
// it must not consult any other mutable state.
func DeriveFeedItem(action *model.UserAction, now time.Time) *model.FeedItem {
	switch action.ActionType {
	case model.ActionMilestoneAchieved:
		return deriveMilestoneItem(action, now)
	default:
		return nil
	}
}

func deriveMilestoneItem(action *model.UserAction, now time.Time) *model.FeedItem {
	id := fmt.Sprintf("feed_milestone_%s_%d", action.EntityId, now.UnixNano()/int64(time.Millisecond))

	description := fmt.Sprintf("Milestone completed in %s project", action.EntityCategory)
	metadata := datatypes.JSONMap{"milestoneId": action.EntityId}
	projectId := ""
	for k, v := range action.Metadata {
		metadata[k] = v
	}
	if v, ok := action.Metadata["milestoneDescription"].(string); ok && v != "" {
		description = v
	}
	if v, ok := action.Metadata["projectId"].(string); ok {
		projectId = v
	}

	location := action.UserLocation
	if location == "" {
		location = "Global"
	}
	visibility := action.Visibility
	if visibility == "" {
		visibility = model.VisibilityPublic
	}

	createdAt := action.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}

	return &model.FeedItem{
		Id:              id,
		CreatedAt:       createdAt,
		Type:            model.FeedItemTypeMilestone,
		Title:           fmt.Sprintf("Milestone Achieved: %s", action.EntityTitle),
		Description:     description,
		Timestamp:       FormatRelativeTime(createdAt, now),
		Likes:           simulatedLikes(id, 10, 50),
		Location:        location,
		Category:        action.EntityCategory,
		AuthorId:        action.UserId,
		AuthorName:      action.UserName,
		AuthorAvatar:    action.UserAvatar,
		ProjectId:       projectId,
		Metadata:        metadata,
		Visibility:      visibility,
		Significance:    ActionSignificance(action.ActionType),
		IsAutoGenerated: true,
	}
}

// ConvertHighlightToFeedItem derives the single feed item of an admin
// highlight. The mapping is total and deterministic in every content field;
// only the feed-item id embeds the highlight id, so re-conversion is
// equivalent, not identical-by-id across differently-identified highlights.
func ConvertHighlightToFeedItem(highlight *model.AdminHighlight, now time.Time) *model.FeedItem {
	item := model.FeedItem{}
	// Same-named fields: Title, Description, IsPinned, Visibility, ProjectId,
	// OpportunityId, CreatedAt.
	copier.Copy(&item, highlight)

	item.Id = "admin_" + highlight.Id
	item.Type = model.FeedItemTypeAdminHighlight
	item.Timestamp = FormatRelativeTime(highlight.CreatedAt, now)
	item.Likes = simulatedLikes(item.Id, 50, 200)
	item.Location = "Global"
	item.Category = "Admin Highlight"
	item.IsAdminCurated = true
	item.IsAutoGenerated = false
	item.AuthorId = highlight.CreatedBy
	item.AuthorName = adminAuthorName
	item.AuthorAvatar = ""
	item.Significance = model.SignificanceHigh
	item.Metadata = datatypes.JSONMap{
		"image":         highlight.Image,
		"ctaText":       highlight.CtaText,
		"ctaLink":       highlight.CtaLink,
		"highlightType": string(highlight.Type),
		"expiresAt":     highlight.ExpiresAt,
	}
	return &item
}

// ActionFeedType maps an action type to the feed item type it would surface
// as. The full vocabulary is kept alongside the narrow derivation path above;
// only milestone_achieved is wired into live derivation.
func ActionFeedType(actionType model.ActionType) model.FeedItemType {
	switch actionType {
	case model.ActionProjectCreated:
		return model.FeedItemTypeProject
	case model.ActionCampaignLaunched:
		return model.FeedItemTypeCampaign
	case model.ActionOpportunityPosted:
		return model.FeedItemTypeOpportunity
	case model.ActionProjectCompleted:
		return model.FeedItemTypeSuccessStory
	case model.ActionMilestoneAchieved:
		return model.FeedItemTypeMilestone
	case model.ActionFundingReceived:
		return model.FeedItemTypeFundingSuccess
	case model.ActionSessionStarted:
		return model.FeedItemTypeLiveEvent
	case model.ActionSessionCompleted:
		return model.FeedItemTypeWorkroomLive
	case model.ActionCertificationEarned:
		return model.FeedItemTypeCertification
	case model.ActionAchievementUnlocked:
		return model.FeedItemTypeAchievement
	case model.ActionCollaborationStarted:
		return model.FeedItemTypeCollaboration
	default:
		return model.FeedItemTypeMilestone
	}
}

// ActionTitle renders the feed headline for an action.
func ActionTitle(action *model.UserAction) string {
	switch action.ActionType {
	case model.ActionProjectCreated:
		return fmt.Sprintf("New Project: %s", action.EntityTitle)
	case model.ActionCampaignLaunched:
		return fmt.Sprintf("New Campaign: %s", action.EntityTitle)
	case model.ActionOpportunityPosted:
		return fmt.Sprintf("New Opportunity: %s", action.EntityTitle)
	case model.ActionProjectCompleted:
		return fmt.Sprintf("Project Completed: %s", action.EntityTitle)
	case model.ActionMilestoneAchieved:
		return fmt.Sprintf("Milestone Achieved: %s", action.EntityTitle)
	case model.ActionFundingReceived:
		return fmt.Sprintf("Funding Success: %s", action.EntityTitle)
	case model.ActionSessionStarted:
		return fmt.Sprintf("LIVE: %s", action.EntityTitle)
	case model.ActionSessionCompleted:
		return fmt.Sprintf("Session Completed: %s", action.EntityTitle)
	case model.ActionCertificationEarned:
		return fmt.Sprintf("Certification Earned: %s", action.EntityTitle)
	case model.ActionAchievementUnlocked:
		return fmt.Sprintf("Achievement Unlocked: %s", action.EntityTitle)
	case model.ActionCollaborationStarted:
		return fmt.Sprintf("New Collaboration: %s", action.EntityTitle)
	default:
		return action.EntityTitle
	}
}

// ActionDescription renders the feed body text for an action.
func ActionDescription(action *model.UserAction) string {
	switch action.ActionType {
	case model.ActionProjectCreated:
		return fmt.Sprintf("%s has launched %q - Join the mission to create impact in %s", action.UserName, action.EntityTitle, action.EntityCategory)
	case model.ActionCampaignLaunched:
		return fmt.Sprintf("%s is rallying the community around %s", action.UserName, action.EntityCategory)
	case model.ActionOpportunityPosted:
		return fmt.Sprintf("%s has posted a new opportunity in %s", action.UserName, action.EntityCategory)
	case model.ActionProjectCompleted:
		return fmt.Sprintf("%s and team have successfully completed their project in %s", action.UserName, action.EntityCategory)
	case model.ActionMilestoneAchieved:
		return fmt.Sprintf("%s has reached a significant milestone in %s", action.UserName, action.EntityCategory)
	case model.ActionFundingReceived:
		return fmt.Sprintf("%s has secured funding for their %s initiative", action.UserName, action.EntityCategory)
	case model.ActionSessionStarted:
		return fmt.Sprintf("%s is hosting a live session on %s", action.UserName, action.EntityCategory)
	case model.ActionSessionCompleted:
		return fmt.Sprintf("%s has completed a learning session in %s", action.UserName, action.EntityCategory)
	case model.ActionCertificationEarned:
		return fmt.Sprintf("%s has earned certification in %s", action.UserName, action.EntityCategory)
	case model.ActionAchievementUnlocked:
		return fmt.Sprintf("%s has unlocked a new achievement in %s", action.UserName, action.EntityCategory)
	case model.ActionCollaborationStarted:
		return fmt.Sprintf("%s has started a new collaboration in %s", action.UserName, action.EntityCategory)
	default:
		if v, ok := action.Metadata["description"].(string); ok && v != "" {
			return v
		}
		return fmt.Sprintf("New activity in %s", action.EntityCategory)
	}
}
