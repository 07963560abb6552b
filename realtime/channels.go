package realtime

import (
	"context"
	"sync"

	"github.com/Jim-devENG/ispora-engine-sub002/model"
	"github.com/google/uuid"
)

// FeedEventChannels contains all structures that handle feed-event push
// connections. All internal state should not be handled directly by hand but
// managed by its public receivers.
type FeedEventChannels struct {
	// connectionMap maps from channel id (uuid) to the actual channel, so that
	// deletion of a channel is O(1). Feed events are broadcast: every
	// connection observes every change, there is no per-user scoping.
	// Each entry is deleted once its connection's context terminates.
	connectionMap map[string]chan *model.FeedEvent

	// Adding/Removing a connection must grab WriteLock, while all other usage
	// (e.g. broadcasting an event) should grab a ReadLock.
	mu sync.RWMutex
}

func NewFeedEventChannels() *FeedEventChannels {
	return &FeedEventChannels{
		connectionMap: make(map[string]chan *model.FeedEvent),
		mu:            sync.RWMutex{},
	}
}

// cleanUp a single connection when the context terminates.
func (fc *FeedEventChannels) cleanUp(ctx context.Context, chId string) {
	<-ctx.Done()

	fc.mu.Lock()
	defer fc.mu.Unlock()

	delete(fc.connectionMap, chId)
}

// Thread-safe
func (fc *FeedEventChannels) AddNewConnection(ctx context.Context) (chan *model.FeedEvent, string) {
	chId := "feed_channel_" + uuid.New().String()
	ch := make(chan *model.FeedEvent, 1)

	fc.mu.Lock()
	defer fc.mu.Unlock()

	fc.connectionMap[chId] = ch

	// Spin up a background garbage collector.
	go fc.cleanUp(ctx, chId)

	return ch, chId
}

// Thread-safe
func (fc *FeedEventChannels) GetActiveConnectionsCount() int {
	fc.mu.RLock()
	defer fc.mu.RUnlock()

	return len(fc.connectionMap)
}

// Broadcast pushes a feed event to every active connection. Thread-safe.
// Consumers re-run the full query on every event, so an event is dropped
// rather than blocking when a connection's buffer is full.
func (fc *FeedEventChannels) Broadcast(event *model.FeedEvent) {
	fc.mu.RLock()
	defer fc.mu.RUnlock()

	for _, ch := range fc.connectionMap {
		select {
		case ch <- event:
		default:
		}
	}
}
