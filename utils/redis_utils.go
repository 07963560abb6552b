package utils

import (
	"context"
	"fmt"
	"os"

	"github.com/go-redis/redis/v8"
)

// RedisClient wraps the shared redis connection used for engagement counters
// and per-user read status. Counters here are the authoritative likes; the
// simulated counts on derived feed items are display-only.
type RedisClient struct {
	inner *redis.Client
}

const (
	// Redis only has string type, there is no boolean or int, so we use "1" to represent true
	REDIS_TRUE = "1"
)

var ctx = context.Background()

func GetRedisClient() *RedisClient {
	return &RedisClient{
		inner: redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%s", os.Getenv("REDIS_HOST"), os.Getenv("REDIS_PORT")),
			Password: os.Getenv("REDIS_PASSWD"),
			DB:       0, // use default DB
		})}
}

func ItemReadKey(userId string, itemId string) string {
	return fmt.Sprintf("%s_%s", userId, itemId)
}

func ItemLikeKey(itemId string) string {
	return fmt.Sprintf("likes_%s", itemId)
}

// LikeFeedItem increments the authoritative like counter for an item and
// returns the new count.
func (r RedisClient) LikeFeedItem(itemId string) (int64, error) {
	return r.inner.Incr(ctx, ItemLikeKey(itemId)).Result()
}

// GetFeedItemLikes returns the authoritative like counter for an item. A
// missing key counts as zero.
func (r RedisClient) GetFeedItemLikes(itemId string) (int64, error) {
	res, err := r.inner.Get(ctx, ItemLikeKey(itemId)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return res, err
}

func (r RedisClient) GetItemsReadStatus(itemIds []string, userId string) ([]bool, error) {
	itemKeys := []string{}

	for _, id := range itemIds {
		itemKeys = append(itemKeys, ItemReadKey(userId, id))
	}

	res, err := r.inner.MGet(ctx, itemKeys...).Result()
	if err != nil {
		return nil, err
	}
	status := []bool{}
	for _, v := range res {
		status = append(status, v == REDIS_TRUE)
	}
	return status, nil
}

func (r RedisClient) MarkItemsAsRead(itemIds []string, userId string) error {
	keyValues := []interface{}{}
	for _, id := range itemIds {
		keyValues = append(keyValues, ItemReadKey(userId, id))
		keyValues = append(keyValues, REDIS_TRUE)
	}
	return r.inner.MSetNX(ctx, keyValues...).Err()
}
