package feed

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Jim-devENG/ispora-engine-sub002/model"
	"github.com/araddon/dateparse"
	"gorm.io/datatypes"
)

// recentlyClosedWindow bounds how long a closed project still surfaces a
// completion story in the feed.
const recentlyClosedWindow = 7 * 24 * time.Hour

// GenerateProjectFeedItems recomputes the feed items derivable from the known
// source projects. This is a best-effort backstop: projects the remote feed
// has not materialized yet still appear. Ids are stable per project
// ("feed_project_<id>"), which is what lets the remote copy win the
// deduplication pass once it exists.
func GenerateProjectFeedItems(projects []*model.Project, now time.Time) []*model.FeedItem {
	items := []*model.FeedItem{}

	for _, project := range projects {
		items = append(items, projectCreationItem(project, now))

		if closed, ok := recentlyClosedAt(project, now); ok {
			items = append(items, projectCompletionItem(project, closed, now))
		}
	}

	return items
}

func projectCreationItem(project *model.Project, now time.Time) *model.FeedItem {
	id := "feed_project_" + project.Id

	createdAt := project.CreatedAt
	if project.StartDate != "" {
		if parsed, err := dateparse.ParseAny(project.StartDate); err == nil {
			createdAt = parsed
		}
	}

	location := project.Location
	if location == "" {
		location = project.University
	}
	if location == "" {
		location = "Global"
	}
	category := project.Category
	if category == "" {
		category = "General"
	}

	significance := model.SignificanceMedium
	if project.Status == model.ProjectStatusActive {
		significance = model.SignificanceHigh
	}

	deadline := ""
	urgent := false
	if project.Deadline != "" {
		deadline = FormatDeadline(project.Deadline, now)
		urgent = project.Status == model.ProjectStatusStillOpen && IsDeadlineUrgent(project.Deadline, now)
	}

	return &model.FeedItem{
		Id:              id,
		CreatedAt:       createdAt,
		Type:            model.FeedItemTypeProject,
		Title:           fmt.Sprintf("New Project: %s", project.Title),
		Description:     project.Description,
		Timestamp:       FormatRelativeTime(createdAt, now),
		Likes:           simulatedLikes(id, 20, 100),
		Location:        location,
		Category:        category,
		Urgent:          urgent,
		Deadline:        deadline,
		AuthorId:        project.AuthorId,
		AuthorName:      project.AuthorName,
		AuthorAvatar:    firstTeamAvatar(project),
		ProjectId:       project.Id,
		Metadata:        projectMetadata(project),
		Visibility:      model.VisibilityPublic,
		Significance:    significance,
		IsAutoGenerated: true,
	}
}

func projectCompletionItem(project *model.Project, closedAt time.Time, now time.Time) *model.FeedItem {
	id := "feed_project_closed_" + project.Id

	kind := strings.ReplaceAll(project.AspiraCategory, "-", " ")
	if kind == "" {
		kind = "project"
	}

	return &model.FeedItem{
		Id:              id,
		CreatedAt:       closedAt,
		Type:            model.FeedItemTypeSuccessStory,
		Title:           fmt.Sprintf("Project Completed: %s", project.Title),
		Description:     fmt.Sprintf("Successfully completed %s project in %s", kind, project.Category),
		Timestamp:       FormatRelativeTime(closedAt, now),
		Likes:           simulatedLikes(id, 50, 150),
		Location:        project.Location,
		Category:        project.Category,
		AuthorId:        project.AuthorId,
		AuthorName:      project.AuthorName,
		AuthorAvatar:    firstTeamAvatar(project),
		ProjectId:       project.Id,
		Metadata: datatypes.JSONMap{
			"completionDate": project.ClosedDate,
			"university":     project.University,
			"tags":           rawJSONValue(project.Tags),
		},
		Visibility:      model.VisibilityPublic,
		Significance:    model.SignificanceHigh,
		IsAutoGenerated: true,
	}
}

// recentlyClosedAt returns the close time of a project that closed within the
// completion-story window.
func recentlyClosedAt(project *model.Project, now time.Time) (time.Time, bool) {
	if project.Status != model.ProjectStatusClosed || project.ClosedDate == "" {
		return time.Time{}, false
	}
	closed, err := dateparse.ParseAny(project.ClosedDate)
	if err != nil {
		return time.Time{}, false
	}
	if now.Sub(closed) > recentlyClosedWindow {
		return time.Time{}, false
	}
	return closed, true
}

func projectMetadata(project *model.Project) datatypes.JSONMap {
	return datatypes.JSONMap{
		"university":     project.University,
		"tags":           rawJSONValue(project.Tags),
		"aspiraCategory": project.AspiraCategory,
		"team":           rawJSONValue(project.Team),
	}
}

func firstTeamAvatar(project *model.Project) string {
	var team []model.TeamMember
	if err := json.Unmarshal(project.Team, &team); err != nil || len(team) == 0 {
		return ""
	}
	return team[0].Avatar
}

func rawJSONValue(raw datatypes.JSON) interface{} {
	if len(raw) == 0 {
		return nil
	}
	var decoded interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil
	}
	return decoded
}
