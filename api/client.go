// Package api defines the external collaborators the feed core calls into:
// the project read API, the feed read API, the join API and the realtime
// subscription handle. The aggregation service only ever sees these
// interfaces; production wiring uses the HTTP clients in this package and
// tests use the fake client.
package api

import (
	"context"

	"github.com/Jim-devENG/ispora-engine-sub002/model"
)

// ProjectReader lists the source projects feed items can be derived from.
type ProjectReader interface {
	ListProjects(ctx context.Context) ([]*model.Project, error)
}

// FeedReader lists pre-built feed items from the backend of record.
type FeedReader interface {
	ListFeedItems(ctx context.Context, limit int) ([]*model.FeedItem, error)
}

// ProjectJoiner joins a user to a project. It is consumed by surrounding UI
// flows, not by the feed pipeline itself, but shares project identifiers with
// it.
type ProjectJoiner interface {
	JoinProject(ctx context.Context, projectId string, userId string) error
}
