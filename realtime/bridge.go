// Package realtime keeps consumer feed views fresh. The Bridge wires a feed
// service to a realtime push channel, falling back to interval polling when
// the channel cannot be established; the FeedEventChannels registry is the
// server-side half pushing the events.
package realtime

import (
	"context"
	"time"

	"github.com/Jim-devENG/ispora-engine-sub002/feed"
	"github.com/Jim-devENG/ispora-engine-sub002/model"
	"github.com/Jim-devENG/ispora-engine-sub002/utils"
	Logger "github.com/Jim-devENG/ispora-engine-sub002/utils/log"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/pkg/errors"
)

// DefaultPollInterval is the polling cadence when the realtime channel fails
// to establish.
const DefaultPollInterval = 30 * time.Second

var errNoSubscriber = errors.New("no realtime subscriber configured")

// Bridge keeps a consumer's feed view fresh without manual refresh. Primary
// strategy is the realtime push subscription; if establishing it fails the
// bridge degrades to polling the query pipeline. Every event, hub
// notification, poll tick and local project-created signal triggers a full
// pipeline re-run rather than an incremental patch.
type Bridge struct {
	service      *feed.Service
	subscriber   Subscriber
	bus          *gochannel.GoChannel
	pollInterval time.Duration
	opts         feed.QueryOptions

	// onItems receives the recomputed view after every refresh.
	onItems func([]*model.FeedItem)

	cancel         context.CancelFunc
	unsubscribeHub func()
	stopRealtime   func()
}

// NewBridge wires service to onItems. subscriber and bus may be nil: a nil
// subscriber falls straight back to polling, a nil bus skips the local
// project-created signal.
func NewBridge(service *feed.Service, subscriber Subscriber, bus *gochannel.GoChannel, onItems func([]*model.FeedItem)) *Bridge {
	return &Bridge{
		service:      service,
		subscriber:   subscriber,
		bus:          bus,
		pollInterval: DefaultPollInterval,
		opts:         feed.DefaultQueryOptions(),
		onItems:      onItems,
	}
}

// SetPollInterval overrides the fallback polling cadence. Call before Start.
func (b *Bridge) SetPollInterval(interval time.Duration) {
	if interval > 0 {
		b.pollInterval = interval
	}
}

// Start loads the initial view, subscribes to the service hub, attempts the
// realtime channel (polling on failure) and listens for local
// project-created signals. It returns after wiring; refreshes run on the
// triggering goroutines.
func (b *Bridge) Start(ctx context.Context) error {
	ctx, b.cancel = context.WithCancel(ctx)

	b.refresh(ctx)

	b.unsubscribeHub = b.service.Subscribe(func() { b.refresh(ctx) })

	if err := b.startRealtime(ctx); err != nil {
		Logger.Log.Warn("realtime channel unavailable, falling back to polling: ", err)
		go b.poll(ctx)
	}

	if b.bus != nil {
		messages, err := b.bus.Subscribe(ctx, utils.TopicProjectCreated)
		if err != nil {
			return err
		}
		go func() {
			for msg := range messages {
				msg.Ack()
				b.refresh(ctx)
			}
		}()
	}

	return nil
}

// Stop tears down the hub subscription, the realtime channel and any polling
// timer. Safe to call once Start returned.
func (b *Bridge) Stop() {
	if b.cancel != nil {
		b.cancel()
	}
	if b.unsubscribeHub != nil {
		b.unsubscribeHub()
	}
	if b.stopRealtime != nil {
		b.stopRealtime()
	}
}

func (b *Bridge) startRealtime(ctx context.Context) error {
	if b.subscriber == nil {
		return errNoSubscriber
	}
	stop, err := b.subscriber.Subscribe(ctx, func(*model.FeedEvent) { b.refresh(ctx) })
	if err != nil {
		return err
	}
	b.stopRealtime = stop
	return nil
}

func (b *Bridge) poll(ctx context.Context) {
	ticker := time.NewTicker(b.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			b.refresh(ctx)
		}
	}
}

func (b *Bridge) refresh(ctx context.Context) {
	items := b.service.GetFeedItems(ctx, b.opts)
	if b.onItems != nil {
		b.onItems(items)
	}
}
