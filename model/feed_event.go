package model

// FeedEventType distinguishes the change kinds pushed over the realtime
// channel.
type FeedEventType string

const (
	FeedEventInsert FeedEventType = "insert"
	FeedEventUpdate FeedEventType = "update"
	FeedEventDelete FeedEventType = "delete"
)

// FeedEvent is a change notification for the feed table. Consumers treat any
// event as a "something changed" signal and re-run the full query pipeline;
// Item is informational only.
type FeedEvent struct {
	Type FeedEventType `json:"type"`
	Item *FeedItem     `json:"item,omitempty"`
}
