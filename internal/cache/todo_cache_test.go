package cache

import (
	"context"
	"strings"
	"testing"
	"time"

	dom "todolist/internal/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newCache(t *testing.T) (*TodoCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewTodoCache(rdb, time.Minute), mr
}

func TestGetListMiss(t *testing.T) {
	c, _ := newCache(t)
	list, err := c.GetList(context.Background(), 1, 0, "k")
	if err != nil {
		t.Fatalf("GetList: %v", err)
	}
	if list != nil {
		t.Fatalf("miss returned %v", list)
	}
}

func TestSetAndGetList(t *testing.T) {
	c, mr := newCache(t)
	ctx := context.Background()
	due := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	in := []dom.Todo{{ID: 3, Title: "x", DueDate: due, Status: dom.StatusDone, UserID: 1,
		User: &dom.User{ID: 1, Email: "a@b.c", PasswordHash: "secret"}}}

	if err := c.SetList(ctx, 1, 0, "k", in); err != nil {
		t.Fatalf("SetList: %v", err)
	}
	if ttl := mr.TTL("todo:list:1:0:k"); ttl != time.Minute {
		t.Fatalf("ttl = %v", ttl)
	}
	raw, err := mr.Get("todo:list:1:0:k")
	if err != nil {
		t.Fatalf("raw get: %v", err)
	}
	if strings.Contains(raw, "secret") {
		t.Fatal("password hash leaked into cache")
	}

	out, err := c.GetList(ctx, 1, 0, "k")
	if err != nil {
		t.Fatalf("GetList: %v", err)
	}
	if len(out) != 1 || out[0].ID != 3 || out[0].Status != dom.StatusDone || !out[0].DueDate.Equal(due) {
		t.Fatalf("round trip = %+v", out)
	}

	empty, err := c.GetList(ctx, 2, 0, "k")
	if err != nil || empty != nil {
		t.Fatalf("other user sees %v (%v)", empty, err)
	}
}

func TestEmptyListIsAHit(t *testing.T) {
	c, _ := newCache(t)
	ctx := context.Background()
	if err := c.SetList(ctx, 1, 0, "k", []dom.Todo{}); err != nil {
		t.Fatalf("SetList: %v", err)
	}
	list, err := c.GetList(ctx, 1, 0, "k")
	if err != nil {
		t.Fatalf("GetList: %v", err)
	}
	if list == nil || len(list) != 0 {
		t.Fatalf("list = %#v, want empty non-nil", list)
	}
}

func TestInvalidateUser(t *testing.T) {
	c, mr := newCache(t)
	ctx := context.Background()
	for _, k := range []string{"a", "b"} {
		if err := c.SetList(ctx, 1, 0, k, nil); err != nil {
			t.Fatalf("SetList: %v", err)
		}
	}
	if err := c.SetList(ctx, 11, 0, "a", nil); err != nil {
		t.Fatalf("SetList: %v", err)
	}

	if err := c.InvalidateUser(ctx, 1); err != nil {
		t.Fatalf("InvalidateUser: %v", err)
	}
	if mr.Exists("todo:list:1:0:a") || mr.Exists("todo:list:1:0:b") {
		t.Fatal("user 1 keys survived invalidation")
	}
	if !mr.Exists("todo:list:11:0:a") {
		t.Fatal("user 11 key was removed")
	}
	if gen, err := c.Generation(ctx, 1); err != nil || gen != 1 {
		t.Fatalf("user 1 generation = %d (%v), want 1", gen, err)
	}
	if gen, err := c.Generation(ctx, 11); err != nil || gen != 0 {
		t.Fatalf("user 11 generation = %d (%v), want 0", gen, err)
	}
}

func TestListingStoredAfterInvalidationIsUnreachable(t *testing.T) {
	c, _ := newCache(t)
	ctx := context.Background()

	// a reader captured the generation, then a write invalidated before the reader stored its result
	gen, err := c.Generation(ctx, 1)
	if err != nil {
		t.Fatalf("Generation: %v", err)
	}
	if err := c.InvalidateUser(ctx, 1); err != nil {
		t.Fatalf("InvalidateUser: %v", err)
	}
	if err := c.SetList(ctx, 1, gen, "k", []dom.Todo{{ID: 1, Title: "stale"}}); err != nil {
		t.Fatalf("SetList: %v", err)
	}

	current, err := c.Generation(ctx, 1)
	if err != nil {
		t.Fatalf("Generation: %v", err)
	}
	if current == gen {
		t.Fatalf("generation not bumped: %d", current)
	}
	list, err := c.GetList(ctx, 1, current, "k")
	if err != nil {
		t.Fatalf("GetList: %v", err)
	}
	if list != nil {
		t.Fatalf("stale listing served: %+v", list)
	}
}
