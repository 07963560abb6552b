package realtime

import (
	"context"

	"github.com/Jim-devENG/ispora-engine-sub002/model"
	Logger "github.com/Jim-devENG/ispora-engine-sub002/utils/log"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
)

// Subscriber is the consumer-side handle of a realtime feed channel. The
// returned stop function tears the channel down; it is safe to call more than
// once.
type Subscriber interface {
	Subscribe(ctx context.Context, handler func(*model.FeedEvent)) (func(), error)
}

// WebsocketSubscriber subscribes to the backend's websocket feed-event
// stream.
type WebsocketSubscriber struct {
	Url string

	dialer *websocket.Dialer
}

func NewWebsocketSubscriber(url string) *WebsocketSubscriber {
	return &WebsocketSubscriber{Url: url, dialer: websocket.DefaultDialer}
}

func (s *WebsocketSubscriber) Subscribe(ctx context.Context, handler func(*model.FeedEvent)) (func(), error) {
	conn, _, err := s.dialer.DialContext(ctx, s.Url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "fail to open realtime feed channel")
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			var event model.FeedEvent
			if err := conn.ReadJSON(&event); err != nil {
				Logger.Log.Info("realtime feed channel closed: ", err)
				return
			}
			handler(&event)
		}
	}()

	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	return func() { conn.Close() }, nil
}
