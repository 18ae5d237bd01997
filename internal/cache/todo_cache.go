package cache

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	dom "todolist/internal/domain"

	"github.com/redis/go-redis/v9"
)

const (
	keyListPrefix = "todo:list:"
	keyGenPrefix  = "todo:gen:"
)

// TodoCache caches per-user todo listings in Redis, one entry per filter.
// Listing keys carry the user's generation; a write bumps the generation so
// listings computed before it can no longer be read.
type TodoCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewTodoCache returns a new TodoCache.
func NewTodoCache(rdb *redis.Client, ttl time.Duration) *TodoCache {
	return &TodoCache{rdb: rdb, ttl: ttl}
}

func userPrefix(userID int64) string {
	return keyListPrefix + strconv.FormatInt(userID, 10) + ":"
}

func genKey(userID int64) string {
	return keyGenPrefix + strconv.FormatInt(userID, 10)
}

func listKey(userID, gen int64, filterKey string) string {
	return userPrefix(userID) + strconv.FormatInt(gen, 10) + ":" + filterKey
}

// Generation returns the current listing generation of userID, 0 if never bumped.
// Read it before loading from the store and pass it to SetList.
func (c *TodoCache) Generation(ctx context.Context, userID int64) (int64, error) {
	gen, err := c.rdb.Get(ctx, genKey(userID)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return gen, err
}

// GetList returns the cached listing for (userID, gen, filterKey) or nil on miss.
func (c *TodoCache) GetList(ctx context.Context, userID, gen int64, filterKey string) ([]dom.Todo, error) {
	b, err := c.rdb.Get(ctx, listKey(userID, gen, filterKey)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	list := make([]dom.Todo, 0)
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// SetList stores the listing for (userID, gen, filterKey).
func (c *TodoCache) SetList(ctx context.Context, userID, gen int64, filterKey string, list []dom.Todo) error {
	b, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, listKey(userID, gen, filterKey), b, c.ttl).Err()
}

// InvalidateUser bumps the generation of userID, then removes its stored listings.
func (c *TodoCache) InvalidateUser(ctx context.Context, userID int64) error {
	if err := c.rdb.Incr(ctx, genKey(userID)).Err(); err != nil {
		return err
	}
	iter := c.rdb.Scan(ctx, 0, userPrefix(userID)+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}
