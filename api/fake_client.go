package api

import (
	"context"

	"github.com/Jim-devENG/ispora-engine-sub002/model"
)

// FakeFeedClient is an in-memory ProjectReader/FeedReader/ProjectJoiner used
// in tests and local runs without a backend. Set Err to simulate a failing
// remote.
type FakeFeedClient struct {
	Projects []*model.Project
	Items    []*model.FeedItem
	Joined   map[string][]string
	Err      error
}

func NewFakeFeedClient() *FakeFeedClient {
	return &FakeFeedClient{Joined: make(map[string][]string)}
}

func (c *FakeFeedClient) ListProjects(ctx context.Context) ([]*model.Project, error) {
	if c.Err != nil {
		return nil, c.Err
	}
	return c.Projects, nil
}

func (c *FakeFeedClient) ListFeedItems(ctx context.Context, limit int) ([]*model.FeedItem, error) {
	if c.Err != nil {
		return nil, c.Err
	}
	if limit > 0 && limit < len(c.Items) {
		return c.Items[:limit], nil
	}
	return c.Items, nil
}

func (c *FakeFeedClient) JoinProject(ctx context.Context, projectId string, userId string) error {
	if c.Err != nil {
		return c.Err
	}
	c.Joined[projectId] = append(c.Joined[projectId], userId)
	return nil
}
