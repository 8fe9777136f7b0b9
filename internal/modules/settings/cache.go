// README: Shared settings cache and invalidation broadcast backed by Redis.
package settings

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rotisserie/eris"
)

// SharedCache is the cross-instance cache and broadcast capability the
// settings service depends on. The Redis implementation is the production
// one; tests use an in-memory fake.
type SharedCache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	SetTTL(ctx context.Context, key, value string, ttl time.Duration) error
	Del(ctx context.Context, key string) error
	DelPrefix(ctx context.Context, prefix string) error
	Publish(ctx context.Context, channel, payload string) error
	Subscribe(ctx context.Context, channel string) <-chan string
}

type RedisCache struct {
	redis *redis.Client
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{redis: client}
}

func (c *RedisCache) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := c.redis.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, eris.Wrap(err, "settings: cache get")
	}
	return val, true, nil
}

func (c *RedisCache) SetTTL(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := c.redis.Set(ctx, key, value, ttl).Err(); err != nil {
		return eris.Wrap(err, "settings: cache set")
	}
	return nil
}

func (c *RedisCache) Del(ctx context.Context, key string) error {
	if err := c.redis.Del(ctx, key).Err(); err != nil {
		return eris.Wrap(err, "settings: cache del")
	}
	return nil
}

// DelPrefix removes every key under the prefix using SCAN; the settings
// keyspace is tiny (one key per zone) so a full walk is cheap.
func (c *RedisCache) DelPrefix(ctx context.Context, prefix string) error {
	iter := c.redis.Scan(ctx, 0, prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.redis.Del(ctx, iter.Val()).Err(); err != nil {
			return eris.Wrap(err, "settings: cache del by prefix")
		}
	}
	if err := iter.Err(); err != nil {
		return eris.Wrap(err, "settings: cache scan")
	}
	return nil
}

func (c *RedisCache) Publish(ctx context.Context, channel, payload string) error {
	if err := c.redis.Publish(ctx, channel, payload).Err(); err != nil {
		return eris.Wrap(err, "settings: publish invalidation")
	}
	return nil
}

// Subscribe returns a channel of raw payloads on the broadcast channel.
// The channel closes when ctx is cancelled.
func (c *RedisCache) Subscribe(ctx context.Context, channel string) <-chan string {
	sub := c.redis.Subscribe(ctx, channel)
	out := make(chan string)
	go func() {
		defer close(out)
		defer func() { _ = sub.Close() }()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				select {
				case out <- msg.Payload:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}
