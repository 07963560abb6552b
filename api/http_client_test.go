package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Jim-devENG/ispora-engine-sub002/model"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListFeedItems(t *testing.T) {
	want := []*model.FeedItem{
		{
			Id:         "feed_1",
			CreatedAt:  time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC),
			Type:       model.FeedItemTypeMilestone,
			Title:      "Milestone Achieved: 100 Students Certified",
			Visibility: model.VisibilityPublic,
		},
	}

	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/feed", r.URL.Path)
		assert.Equal(t, "100", r.URL.Query().Get("limit"))
		json.NewEncoder(w).Encode(map[string]interface{}{"items": want})
	}))
	defer backend.Close()

	client := NewHttpFeedClient(backend.URL, nil)
	got, err := client.ListFeedItems(context.Background(), 100)
	require.NoError(t, err)

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("feed items mismatch (-want +got):\n%s", diff)
	}
}

func TestListFeedItemsNon200(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer backend.Close()

	client := NewHttpFeedClient(backend.URL, nil)
	_, err := client.ListFeedItems(context.Background(), 100)
	assert.Error(t, err)
}

func TestListProjects(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/projects", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"projects": []*model.Project{{Id: "proj_1", Title: "Clean Water Initiative"}},
		})
	}))
	defer backend.Close()

	client := NewHttpFeedClient(backend.URL, nil)
	projects, err := client.ListProjects(context.Background())
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "proj_1", projects[0].Id)
}

func TestJoinProject(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/api/projects/proj_1/join", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "user_1", body["userId"])
		w.WriteHeader(http.StatusOK)
	}))
	defer backend.Close()

	client := NewHttpFeedClient(backend.URL, nil)
	assert.NoError(t, client.JoinProject(context.Background(), "proj_1", "user_1"))
}

func TestSubscriptionUrl(t *testing.T) {
	client := NewHttpFeedClient("http://localhost:8080", nil)
	assert.Equal(t, "ws://localhost:8080/api/feed/subscription", client.SubscriptionUrl())

	client = NewHttpFeedClient("https://feed.example.com", nil)
	assert.Equal(t, "wss://feed.example.com/api/feed/subscription", client.SubscriptionUrl())
}
