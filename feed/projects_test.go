package feed

import (
	"testing"
	"time"

	"github.com/Jim-devENG/ispora-engine-sub002/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestProjectCreationItem(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	project := &model.Project{
		Id:          "proj_1",
		CreatedAt:   now.Add(-48 * time.Hour),
		Title:       "Clean Water Initiative",
		Description: "Boreholes for rural schools",
		Status:      model.ProjectStatusActive,
		StartDate:   "2024-06-10",
		Category:    "Infrastructure",
		University:  "University of Lagos",
		AuthorId:    "user_1",
		AuthorName:  "Amara Okafor",
		Team:        datatypes.JSON(`[{"id":"user_1","name":"Amara Okafor","role":"lead","avatar":"/a.png"}]`),
	}

	items := GenerateProjectFeedItems([]*model.Project{project}, now)
	require.Len(t, items, 1)
	item := items[0]

	assert.Equal(t, "feed_project_proj_1", item.Id)
	assert.Equal(t, model.FeedItemTypeProject, item.Type)
	assert.Equal(t, "New Project: Clean Water Initiative", item.Title)
	// StartDate overrides the record creation time.
	assert.Equal(t, time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC), item.CreatedAt)
	// No explicit location falls back to the university.
	assert.Equal(t, "University of Lagos", item.Location)
	assert.Equal(t, model.SignificanceHigh, item.Significance)
	assert.Equal(t, "/a.png", item.AuthorAvatar)
	assert.True(t, item.IsAutoGenerated)
	assert.False(t, item.Urgent)
}

func TestProjectCreationItemDefaults(t *testing.T) {
	now := time.Now()
	items := GenerateProjectFeedItems([]*model.Project{
		{Id: "proj_2", Title: "Untitled", Status: model.ProjectStatusStillOpen, CreatedAt: now},
	}, now)
	require.Len(t, items, 1)

	assert.Equal(t, "Global", items[0].Location)
	assert.Equal(t, "General", items[0].Category)
	assert.Equal(t, model.SignificanceMedium, items[0].Significance)
	assert.Empty(t, items[0].AuthorAvatar)
}

func TestProjectUrgentDeadline(t *testing.T) {
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	project := &model.Project{
		Id:       "proj_3",
		Title:    "Scholarship Fund",
		Status:   model.ProjectStatusStillOpen,
		Deadline: "2024-06-18",
	}

	items := GenerateProjectFeedItems([]*model.Project{project}, now)
	require.Len(t, items, 1)
	assert.True(t, items[0].Urgent)
	assert.Equal(t, "Due in 3 days", items[0].Deadline)

	// Active projects are not flagged urgent even with a near deadline.
	project.Status = model.ProjectStatusActive
	items = GenerateProjectFeedItems([]*model.Project{project}, now)
	assert.False(t, items[0].Urgent)
}

func TestRecentlyClosedProjectAddsCompletionStory(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	project := &model.Project{
		Id:             "proj_4",
		Title:          "Mentorship Circle",
		Status:         model.ProjectStatusClosed,
		ClosedDate:     "2024-06-13",
		Category:       "Education",
		AspiraCategory: "community-impact",
	}

	items := GenerateProjectFeedItems([]*model.Project{project}, now)
	require.Len(t, items, 2)

	story := items[1]
	assert.Equal(t, "feed_project_closed_proj_4", story.Id)
	assert.Equal(t, model.FeedItemTypeSuccessStory, story.Type)
	assert.Equal(t, "Project Completed: Mentorship Circle", story.Title)
	assert.Equal(t, "Successfully completed community impact project in Education", story.Description)
	assert.Equal(t, model.SignificanceHigh, story.Significance)
}

func TestOldClosedProjectHasNoCompletionStory(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	items := GenerateProjectFeedItems([]*model.Project{
		{Id: "proj_5", Status: model.ProjectStatusClosed, ClosedDate: "2024-05-01"},
		{Id: "proj_6", Status: model.ProjectStatusClosed, ClosedDate: "never"},
	}, now)

	// Only the creation items survive the completion-story window.
	require.Len(t, items, 2)
	assert.Equal(t, "feed_project_proj_5", items[0].Id)
	assert.Equal(t, "feed_project_proj_6", items[1].Id)
}
