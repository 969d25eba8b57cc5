package rdx

import (
	"time"

	"voyagr/globals"

	"github.com/redis/go-redis/v9"
)

// Client wraps the redis connection used for OTPs, reset tokens, token
// caches and the pub/sub event bus. Constructed once in main and handed to
// whoever needs it.
type Client struct {
	Conn *redis.Client
}

func New(addr string) *Client {
	return &Client{
		Conn: redis.NewClient(&redis.Options{Addr: addr}),
	}
}

func (c *Client) Get(key string) (string, error) {
	return c.Conn.Get(globals.Ctx, key).Result()
}

func (c *Client) Set(key, value string) error {
	return c.Conn.Set(globals.Ctx, key, value, 0).Err()
}

func (c *Client) SetWithExpiry(key, value string, ttl time.Duration) error {
	return c.Conn.Set(globals.Ctx, key, value, ttl).Err()
}

func (c *Client) Del(key string) error {
	return c.Conn.Del(globals.Ctx, key).Err()
}

func (c *Client) HSet(hash, field, value string) error {
	return c.Conn.HSet(globals.Ctx, hash, field, value).Err()
}

func (c *Client) HGet(hash, field string) (string, error) {
	return c.Conn.HGet(globals.Ctx, hash, field).Result()
}

func (c *Client) HDel(hash, field string) (int64, error) {
	return c.Conn.HDel(globals.Ctx, hash, field).Result()
}
