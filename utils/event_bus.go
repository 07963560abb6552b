package utils

import (
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

const (
	// TopicProjectCreated carries same-process "project created" signals. The
	// live-update bridge consumes it to refresh the feed without waiting on a
	// network round trip. Payload is the project id.
	TopicProjectCreated = "project.created"
)

// NewEventBus returns the in-process pub/sub bus shared between producers
// (project creation paths) and the live-update bridge.
func NewEventBus() *gochannel.GoChannel {
	return gochannel.NewGoChannel(
		gochannel.Config{
			OutputChannelBuffer:            100,
			BlockPublishUntilSubscriberAck: false,
		},
		watermill.NewStdLogger(false, false),
	)
}

// PublishProjectCreated announces a newly created project on the bus.
func PublishProjectCreated(bus *gochannel.GoChannel, projectId string) error {
	msg := message.NewMessage(watermill.NewUUID(), []byte(projectId))
	return bus.Publish(TopicProjectCreated, msg)
}
