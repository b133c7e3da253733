package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"bookhub/internal/microservices/http-api/models"

	"github.com/redis/go-redis/v9"
)

// ProgressCache keeps the latest reading progress per (user, book) in a Redis hash.
// A nil *ProgressCache is valid and caches nothing, so the API runs without Redis.
type ProgressCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewProgressCache(client *redis.Client, ttl time.Duration) *ProgressCache {
	if client == nil {
		return nil
	}
	return &ProgressCache{client: client, ttl: ttl}
}

func progressKey(userID string, bookID int64) string {
	return fmt.Sprintf("progress:user:%s:book:%d", userID, bookID)
}

// putIfNewer writes the hash unless the cached version is already ahead of ARGV[1].
// ARGV[2] is the expiry in milliseconds; the remaining arguments are field/value pairs.
var putIfNewer = redis.NewScript(`
local cached = tonumber(redis.call("HGET", KEYS[1], "version"))
if cached and cached > tonumber(ARGV[1]) then
  return 0
end
redis.call("HSET", KEYS[1], unpack(ARGV, 3))
local ttl = tonumber(ARGV[2])
if ttl > 0 then
  redis.call("PEXPIRE", KEYS[1], ttl)
end
return 1
`)

// Put stores the record and refreshes the key's expiry. A record older than the cached one
// (by version) is ignored, so a late write or read fill cannot replace newer progress.
func (c *ProgressCache) Put(ctx context.Context, p *models.ReadingProgress) error {
	if c == nil || c.client == nil {
		return nil
	}

	args := []any{
		p.Version,
		c.ttl.Milliseconds(),
		"id", p.ID,
		"user_id", p.UserID,
		"book_id", p.BookID,
		"progress", p.Progress,
		"version", p.Version,
		"updated_at", p.UpdatedAt.Format(time.RFC3339Nano),
	}
	if err := putIfNewer.Run(ctx, c.client, []string{progressKey(p.UserID, p.BookID)}, args...).Err(); err != nil {
		return fmt.Errorf("cache progress: %w", err)
	}
	return nil
}

// Get returns nil, nil on a cache miss.
func (c *ProgressCache) Get(ctx context.Context, userID string, bookID int64) (*models.ReadingProgress, error) {
	if c == nil || c.client == nil {
		return nil, nil
	}

	fields, err := c.client.HGetAll(ctx, progressKey(userID, bookID)).Result()
	if err != nil {
		return nil, fmt.Errorf("read cached progress: %w", err)
	}
	if len(fields) == 0 {
		return nil, nil
	}

	p := &models.ReadingProgress{UserID: fields["user_id"], BookID: bookID}
	if p.ID, err = strconv.ParseInt(fields["id"], 10, 64); err != nil {
		return nil, nil
	}
	if p.Progress, err = strconv.Atoi(fields["progress"]); err != nil {
		return nil, nil
	}
	if p.Version, err = strconv.ParseInt(fields["version"], 10, 64); err != nil {
		return nil, nil
	}
	if ts, ok := fields["updated_at"]; ok {
		p.UpdatedAt, _ = time.Parse(time.RFC3339Nano, ts)
	}
	return p, nil
}

func (c *ProgressCache) Delete(ctx context.Context, userID string, bookID int64) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Del(ctx, progressKey(userID, bookID)).Err()
}

// EvictBook drops every cached record for the book, whichever user it belongs to.
func (c *ProgressCache) EvictBook(ctx context.Context, bookID int64) error {
	if c == nil || c.client == nil {
		return nil
	}

	var keys []string
	iter := c.client.Scan(ctx, 0, fmt.Sprintf("progress:user:*:book:%d", bookID), 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan cached progress: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}
