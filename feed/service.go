// Package feed implements the aggregation core of the activity stream: it
// records user actions and admin highlights, derives feed items from them,
// merges in remote and project-derived items, and serves filtered, ordered
// views to consumers. The Service is constructed once at application start
// and passed by reference; there is no package-level state.
package feed

import (
	"context"
	"sync"
	"time"

	"github.com/Jim-devENG/ispora-engine-sub002/api"
	"github.com/Jim-devENG/ispora-engine-sub002/model"
	Logger "github.com/Jim-devENG/ispora-engine-sub002/utils/log"
	"github.com/google/uuid"
)

// defaultRemoteFetchLimit is the default page size of the remote feed fetch.
const defaultRemoteFetchLimit = 100

type subscriber struct {
	id     string
	notify func()
}

// Service aggregates the feed. All state lives behind mu; every mutation
// entry point runs to completion under the lock before subscribers are
// notified, and the query pipeline recomputes from then-current state on
// every call rather than caching a snapshot.
type Service struct {
	remoteFetchLimit int

	mu              sync.RWMutex
	feedItems       []*model.FeedItem
	userActions     []*model.UserAction
	adminHighlights []*model.AdminHighlight
	subscribers     []subscriber

	lastSyncAt  time.Time
	lastSyncErr error

	projects api.ProjectReader
	remote   api.FeedReader

	// now is the clock used for id generation and display timestamps.
	// Injected for tests.
	now func() time.Time
}

// NewService creates a feed service reading remote items from remote and
// source projects from projects. Either collaborator may be nil, in which
// case that source contributes nothing.
func NewService(projects api.ProjectReader, remote api.FeedReader) *Service {
	return &Service{
		remoteFetchLimit: defaultRemoteFetchLimit,
		projects:         projects,
		remote:           remote,
		now:              time.Now,
	}
}

// SetRemoteFetchLimit overrides the remote fetch page size.
func (s *Service) SetRemoteFetchLimit(limit int) {
	if limit > 0 {
		s.remoteFetchLimit = limit
	}
}

// Subscribe registers a callback invoked after every local mutation. The
// returned function removes exactly that callback. The callback carries no
// payload; consumers re-run GetFeedItems themselves.
func (s *Service) Subscribe(notify func()) func() {
	id := uuid.New().String()

	s.mu.Lock()
	s.subscribers = append(s.subscribers, subscriber{id: id, notify: notify})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subscribers {
			if sub.id == id {
				s.subscribers = append(s.subscribers[:i], s.subscribers[i+1:]...)
				return
			}
		}
	}
}

// notifySubscribers invokes every registered callback in registration order.
// It iterates over a snapshot, so a callback may unsubscribe itself (or
// others) without corrupting the pass.
func (s *Service) notifySubscribers() {
	s.mu.RLock()
	snapshot := make([]subscriber, len(s.subscribers))
	copy(snapshot, s.subscribers)
	s.mu.RUnlock()

	for _, sub := range snapshot {
		sub.notify()
	}
}

// RecordUserAction appends the action to the action log and, when a
// derivation rule exists for its type, prepends the derived item to the feed
// and notifies subscribers. Returns the derived item, or nil when the action
// type has no mapping. The nil case logs the action but changes nothing else.
func (s *Service) RecordUserAction(action *model.UserAction) *model.FeedItem {
	if action.Id == "" {
		action.Id = "action_" + uuid.New().String()
	}
	if action.CreatedAt.IsZero() {
		action.CreatedAt = s.now()
	}

	item := DeriveFeedItem(action, s.now())

	s.mu.Lock()
	s.userActions = append(s.userActions, action)
	if item != nil {
		s.feedItems = append([]*model.FeedItem{item}, s.feedItems...)
	}
	s.mu.Unlock()

	if item == nil {
		Logger.Log.Debugf("no derivation rule for action type %s, action %s logged only", action.ActionType, action.Id)
		return nil
	}

	s.notifySubscribers()
	return item
}

// CreateAdminHighlight stores the highlight and atomically derives its single
// feed item, then notifies subscribers. Returns the stored highlight with its
// generated id and creation time.
func (s *Service) CreateAdminHighlight(highlight *model.AdminHighlight) *model.AdminHighlight {
	if highlight.Id == "" {
		highlight.Id = "highlight_" + uuid.New().String()
	}
	if highlight.CreatedAt.IsZero() {
		highlight.CreatedAt = s.now()
	}

	item := ConvertHighlightToFeedItem(highlight, s.now())

	s.mu.Lock()
	s.adminHighlights = append(s.adminHighlights, highlight)
	s.feedItems = append([]*model.FeedItem{item}, s.feedItems...)
	s.mu.Unlock()

	s.notifySubscribers()
	return highlight
}

// AddFeedItem prepends an already-built item to the local feed.
func (s *Service) AddFeedItem(item *model.FeedItem) {
	s.mu.Lock()
	s.feedItems = append([]*model.FeedItem{item}, s.feedItems...)
	s.mu.Unlock()
}

// GetFeedItems runs the query pipeline and returns the items to render. It
// never fails: remote and project fetch errors are recorded in the sync
// status, logged, and degrade the result to whatever is locally derivable.
func (s *Service) GetFeedItems(ctx context.Context, opts QueryOptions) []*model.FeedItem {
	now := s.now()

	var remoteItems []*model.FeedItem
	if s.remote != nil {
		items, err := s.remote.ListFeedItems(ctx, s.remoteFetchLimit)
		s.recordSyncStatus(now, err)
		if err != nil {
			Logger.Log.Warn("fail to fetch remote feed items: ", err)
		} else {
			remoteItems = items
		}
	}

	var generated []*model.FeedItem
	if s.projects != nil {
		projects, err := s.projects.ListProjects(ctx)
		if err != nil {
			Logger.Log.Warn("fail to fetch projects for feed backstop: ", err)
		} else {
			generated = GenerateProjectFeedItems(projects, now)
		}
	}

	s.mu.RLock()
	local := make([]*model.FeedItem, len(s.feedItems))
	copy(local, s.feedItems)
	s.mu.RUnlock()

	items := mergeRemoteAndLocal(remoteItems, dedupeById(append(generated, local...)))

	// Every scope excludes private items, so the visibility filter always runs.
	items = filterByVisibility(items, opts.Visibility)
	if !opts.IncludeExpired {
		items = FilterExpired(items, now)
	}
	if !opts.IncludeAdminHighlights {
		items = filterOutAdminCurated(items)
	}
	if opts.MinSignificance != "" {
		items = filterBySignificance(items, opts.MinSignificance)
	}
	if opts.UserFilter != "" || opts.CategoryFilter != "" {
		items = filterByText(items, opts.UserFilter, opts.CategoryFilter)
	}

	items = dedupeById(items)
	sortFeedItems(items)

	if opts.Limit > 0 && opts.Limit < len(items) {
		items = items[:opts.Limit]
	}
	return items
}

// ClearAll resets every list and notifies subscribers. Full-state reset is
// the only deletion path the feed has.
func (s *Service) ClearAll() {
	s.mu.Lock()
	s.feedItems = nil
	s.userActions = nil
	s.adminHighlights = nil
	s.mu.Unlock()

	s.notifySubscribers()
}

// LastSyncStatus reports when the remote feed was last fetched and the error
// of that fetch, nil on success. It makes the swallowed-error degradation of
// GetFeedItems observable.
func (s *Service) LastSyncStatus() (time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSyncAt, s.lastSyncErr
}

func (s *Service) recordSyncStatus(at time.Time, err error) {
	s.mu.Lock()
	s.lastSyncAt = at
	s.lastSyncErr = err
	s.mu.Unlock()
}

// UserActions returns a copy of the recorded action log.
func (s *Service) UserActions() []*model.UserAction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	actions := make([]*model.UserAction, len(s.userActions))
	copy(actions, s.userActions)
	return actions
}
