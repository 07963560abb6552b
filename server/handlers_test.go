package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/Jim-devENG/ispora-engine-sub002/model"
	"github.com/Jim-devENG/ispora-engine-sub002/realtime"
	"github.com/Jim-devENG/ispora-engine-sub002/server/middlewares"
	"github.com/Jim-devENG/ispora-engine-sub002/utils"
	"github.com/Jim-devENG/ispora-engine-sub002/utils/dotenv"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	dotenv.LoadDotEnvsInTests()
	gin.SetMode(gin.TestMode)
	os.Setenv("API_TOKEN_SECRET", "test_secret")
	middlewares.Setup()
	os.Exit(m.Run())
}

func prepareTestRouter(t *testing.T) (*gin.Engine, *gorm.DB, *Deps) {
	db, _ := utils.CreateTempDB(t)
	require.NoError(t, utils.DatabaseSetupAndMigration(db))

	deps := &Deps{
		DB:       db,
		Channels: realtime.NewFeedEventChannels(),
	}
	router := gin.New()
	RegisterRoutes(router, deps)
	return router, db, deps
}

func doJSON(router *gin.Engine, method string, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		encoded, _ := json.Marshal(body)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

type feedResponse struct {
	Items []*model.FeedItem `json:"items"`
}

func TestWritesRequireToken(t *testing.T) {
	router, _, _ := prepareTestRouter(t)

	w := doJSON(router, "POST", "/api/feed/highlights", gin.H{"title": "x"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(router, "POST", "/api/feed/actions", gin.H{"actionType": "milestone_achieved"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateHighlightAndReadFeed(t *testing.T) {
	router, db, deps := prepareTestRouter(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events, _ := deps.Channels.AddNewConnection(ctx)

	w := doJSON(router, "POST", "/api/feed/highlights", gin.H{
		"type":        "announcement",
		"title":       "Mentorship Week",
		"description": "A week of open mentorship sessions",
		"visibility":  "public",
	}, middlewares.IssueToken("admin_1"))
	require.Equal(t, http.StatusCreated, w.Code)

	// Highlight and derived item persist together.
	var highlightCount, itemCount int64
	db.Model(&model.AdminHighlight{}).Count(&highlightCount)
	db.Model(&model.FeedItem{}).Count(&itemCount)
	assert.Equal(t, int64(1), highlightCount)
	assert.Equal(t, int64(1), itemCount)

	// The insertion is broadcast to subscribers.
	event := <-events
	assert.Equal(t, model.FeedEventInsert, event.Type)
	assert.Equal(t, "Mentorship Week", event.Item.Title)

	// Anonymous readers see the public highlight.
	w = doJSON(router, "GET", "/api/feed", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var feed feedResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &feed))
	require.Len(t, feed.Items, 1)
	assert.Equal(t, "Aspora Team", feed.Items[0].AuthorName)
	assert.True(t, feed.Items[0].IsAdminCurated)
}

func TestCreateHighlightRejectsPrivate(t *testing.T) {
	router, _, _ := prepareTestRouter(t)

	w := doJSON(router, "POST", "/api/feed/highlights", gin.H{
		"title":      "hidden",
		"visibility": "private",
	}, middlewares.IssueToken("admin_1"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFeedVisibilityTiers(t *testing.T) {
	router, db, _ := prepareTestRouter(t)

	require.NoError(t, db.Create(&model.FeedItem{
		Id: "pub", Title: "public item", CreatedAt: time.Now(), Visibility: model.VisibilityPublic,
	}).Error)
	require.NoError(t, db.Create(&model.FeedItem{
		Id: "auth", Title: "member item", CreatedAt: time.Now(), Visibility: model.VisibilityAuthenticated,
	}).Error)
	require.NoError(t, db.Create(&model.FeedItem{
		Id: "priv", Title: "private item", CreatedAt: time.Now(), Visibility: model.VisibilityPrivate,
	}).Error)

	w := doJSON(router, "GET", "/api/feed", nil, "")
	var anonymous feedResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &anonymous))
	require.Len(t, anonymous.Items, 1)
	assert.Equal(t, "pub", anonymous.Items[0].Id)

	w = doJSON(router, "GET", "/api/feed", nil, middlewares.IssueToken("user_1"))
	var authenticated feedResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &authenticated))
	assert.Len(t, authenticated.Items, 2)
	for _, item := range authenticated.Items {
		assert.NotEqual(t, model.VisibilityPrivate, item.Visibility)
	}
}

func TestFeedExcludesExpiredOnRequest(t *testing.T) {
	router, db, _ := prepareTestRouter(t)

	require.NoError(t, db.Create(&model.FeedItem{
		Id:             "expired",
		CreatedAt:      time.Now(),
		IsAdminCurated: true,
		Visibility:     model.VisibilityPublic,
		Metadata:       datatypes.JSONMap{"expiresAt": time.Now().Add(-1 * time.Hour).Format(time.RFC3339)},
	}).Error)

	w := doJSON(router, "GET", "/api/feed", nil, "")
	var all feedResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &all))
	assert.Len(t, all.Items, 1)

	w = doJSON(router, "GET", "/api/feed?include_expired=false", nil, "")
	var fresh feedResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fresh))
	assert.Empty(t, fresh.Items)
}

func TestFeedRejectsInvalidLimit(t *testing.T) {
	router, _, _ := prepareTestRouter(t)

	w := doJSON(router, "GET", "/api/feed?limit=abc", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, "GET", "/api/feed?limit=-1", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRecordActionDerivesMilestone(t *testing.T) {
	router, db, _ := prepareTestRouter(t)

	w := doJSON(router, "POST", "/api/feed/actions", gin.H{
		"actionType":     "milestone_achieved",
		"entityId":       "milestone_42",
		"entityTitle":    "100 Students Certified",
		"entityCategory": "Education",
		"userName":       "Amara Okafor",
	}, middlewares.IssueToken("user_1"))
	require.Equal(t, http.StatusCreated, w.Code)

	var actionCount, itemCount int64
	db.Model(&model.UserAction{}).Count(&actionCount)
	db.Model(&model.FeedItem{}).Count(&itemCount)
	assert.Equal(t, int64(1), actionCount)
	assert.Equal(t, int64(1), itemCount)

	var item model.FeedItem
	require.NoError(t, db.First(&item).Error)
	assert.Equal(t, "Milestone Achieved: 100 Students Certified", item.Title)
	// The token subject backfills the author.
	assert.Equal(t, "user_1", item.AuthorId)
}

func TestRecordUnmappedActionPersistsActionOnly(t *testing.T) {
	router, db, _ := prepareTestRouter(t)

	w := doJSON(router, "POST", "/api/feed/actions", gin.H{
		"actionType": "project_joined",
		"entityId":   "proj_1",
	}, middlewares.IssueToken("user_1"))
	require.Equal(t, http.StatusAccepted, w.Code)

	var actionCount, itemCount int64
	db.Model(&model.UserAction{}).Count(&actionCount)
	db.Model(&model.FeedItem{}).Count(&itemCount)
	assert.Equal(t, int64(1), actionCount)
	assert.Zero(t, itemCount)
}

func TestCreateAndListProjects(t *testing.T) {
	router, _, _ := prepareTestRouter(t)

	w := doJSON(router, "POST", "/api/projects", gin.H{
		"title":    "Clean Water Initiative",
		"status":   "active",
		"isPublic": true,
	}, middlewares.IssueToken("user_1"))
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(router, "GET", "/api/projects", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var listed struct {
		Projects []*model.Project `json:"projects"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	require.Len(t, listed.Projects, 1)
	assert.Equal(t, "Clean Water Initiative", listed.Projects[0].Title)
	assert.Equal(t, "user_1", listed.Projects[0].AuthorId)
}

func TestJoinProjectIsIdempotent(t *testing.T) {
	router, db, _ := prepareTestRouter(t)

	require.NoError(t, db.Create(&model.Project{
		Id: "proj_1", Title: "Mentorship Circle", IsPublic: true, CreatedAt: time.Now(),
	}).Error)

	token := middlewares.IssueToken("user_1")
	w := doJSON(router, "POST", "/api/projects/proj_1/join", nil, token)
	require.Equal(t, http.StatusOK, w.Code)

	// Re-joining is a no-op, not an error.
	w = doJSON(router, "POST", "/api/projects/proj_1/join", nil, token)
	require.Equal(t, http.StatusOK, w.Code)

	var members int64
	db.Model(&model.ProjectMember{}).Count(&members)
	assert.Equal(t, int64(1), members)

	w = doJSON(router, "POST", "/api/projects/missing/join", nil, token)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFeedStatsEndpoint(t *testing.T) {
	router, db, _ := prepareTestRouter(t)

	require.NoError(t, db.Create(&model.FeedItem{
		Id: "curated", CreatedAt: time.Now(), IsAdminCurated: true, Visibility: model.VisibilityPublic,
	}).Error)
	require.NoError(t, db.Create(&model.FeedItem{
		Id: "organic", CreatedAt: time.Now().Add(-48 * time.Hour), IsLive: true, Visibility: model.VisibilityAuthenticated,
	}).Error)

	w := doJSON(router, "GET", "/api/feed/stats", nil, middlewares.IssueToken("user_1"))
	require.Equal(t, http.StatusOK, w.Code)

	var stats struct {
		TotalItems      int `json:"totalItems"`
		AdminHighlights int `json:"adminHighlights"`
		UserGenerated   int `json:"userGenerated"`
		PublicItems     int `json:"publicItems"`
		LiveEvents      int `json:"liveEvents"`
		RecentActivity  int `json:"recentActivity"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 2, stats.TotalItems)
	assert.Equal(t, 1, stats.AdminHighlights)
	assert.Equal(t, 1, stats.UserGenerated)
	assert.Equal(t, 1, stats.PublicItems)
	assert.Equal(t, 1, stats.LiveEvents)
	assert.Equal(t, 1, stats.RecentActivity)
}
