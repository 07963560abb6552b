package model

import (
	"time"

	"gorm.io/datatypes"
)

// ActionType enumerates the facts a user can record against the feed. The
// vocabulary is wider than the set of types that actually derive feed items;
// unrecognized or unmapped types are logged but produce nothing.
type ActionType string

const (
	ActionProjectCreated       ActionType = "project_created"
	ActionProjectJoined        ActionType = "project_joined"
	ActionProjectCompleted     ActionType = "project_completed"
	ActionCampaignLaunched     ActionType = "campaign_launched"
	ActionCampaignJoined       ActionType = "campaign_joined"
	ActionMilestoneAchieved    ActionType = "milestone_achieved"
	ActionOpportunityPosted    ActionType = "opportunity_posted"
	ActionOpportunityApplied   ActionType = "opportunity_applied"
	ActionFundingReceived      ActionType = "funding_received"
	ActionSessionStarted       ActionType = "session_started"
	ActionSessionCompleted     ActionType = "session_completed"
	ActionCertificationEarned  ActionType = "certification_earned"
	ActionAchievementUnlocked  ActionType = "achievement_unlocked"
	ActionCollaborationStarted ActionType = "collaboration_started"
	ActionMentorMatch          ActionType = "mentor_match"
	ActionWorkspaceCreated     ActionType = "workspace_created"
)

// EntityType is the kind of entity a user action refers to.
type EntityType string

const (
	EntityProject       EntityType = "project"
	EntityCampaign      EntityType = "campaign"
	EntityOpportunity   EntityType = "opportunity"
	EntitySession       EntityType = "session"
	EntityCertification EntityType = "certification"
	EntityAchievement   EntityType = "achievement"
	EntityWorkspace     EntityType = "workspace"
	EntityCollaboration EntityType = "collaboration"
)

/*

UserAction is a write-once fact about something a user did. It is recorded,
then at most once translated into zero or one FeedItem.

UserId/UserName/UserAvatar/UserLocation: actor identity as displayed.
EntityId/EntityType/EntityTitle/EntityCategory: the affected entity.
Visibility: optional override for the derived feed item; empty means public.

*/
type UserAction struct {
	Id             string            `gorm:"primaryKey" json:"id"`
	CreatedAt      time.Time         `json:"timestamp"`
	UserId         string            `json:"userId"`
	UserName       string            `json:"userName"`
	UserAvatar     string            `json:"userAvatar,omitempty"`
	UserLocation   string            `json:"userLocation,omitempty"`
	ActionType     ActionType        `json:"actionType"`
	EntityId       string            `json:"entityId"`
	EntityType     EntityType        `json:"entityType"`
	EntityTitle    string            `json:"entityTitle"`
	EntityCategory string            `json:"entityCategory"`
	Metadata       datatypes.JSONMap `json:"metadata,omitempty"`
	Visibility     Visibility        `json:"visibility,omitempty"`
}
