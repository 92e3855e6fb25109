package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// Unit tests require Redis running on localhost:6379 and skip otherwise.
const testRedisAddr = "localhost:6379"

// setupTestCache creates a report cache with a test-unique prefix.
func setupTestCache(t *testing.T) (*ReportCache, func()) {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr: testRedisAddr,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available at %s: %v", testRedisAddr, err)
	}

	prefix := "test:" + t.Name() + ":"
	cleanupKeys(ctx, client, prefix+"*")

	c := New(client, prefix, 5*time.Minute)

	cleanup := func() {
		cleanupKeys(ctx, client, prefix+"*")
		client.Close()
	}

	return c, cleanup
}

// cleanupKeys removes all keys matching the pattern.
func cleanupKeys(ctx context.Context, client *redis.Client, pattern string) {
	var cursor uint64
	for {
		keys, nextCursor, err := client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return
		}
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
}

type sampleReport struct {
	Total     int `json:"total_tasks"`
	Completed int `json:"completed_tasks"`
}

func TestSetAndGet(t *testing.T) {
	c, cleanup := setupTestCache(t)
	defer cleanup()
	ctx := context.Background()

	stored := sampleReport{Total: 7, Completed: 3}
	if err := c.Set(ctx, "user-1", ReportTotalTasks, stored); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	var loaded sampleReport
	hit, err := c.Get(ctx, "user-1", ReportTotalTasks, &loaded)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !hit {
		t.Fatal("Expected cache hit")
	}
	if loaded != stored {
		t.Errorf("Round trip mismatch: %+v vs %+v", loaded, stored)
	}
}

func TestGetMiss(t *testing.T) {
	c, cleanup := setupTestCache(t)
	defer cleanup()
	ctx := context.Background()

	var dest sampleReport
	hit, err := c.Get(ctx, "nobody", ReportTotalTasks, &dest)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if hit {
		t.Error("Expected miss for absent key")
	}
}

func TestKeysAreScopedPerUserAndReport(t *testing.T) {
	c, cleanup := setupTestCache(t)
	defer cleanup()
	ctx := context.Background()

	if err := c.Set(ctx, "user-1", ReportTotalTasks, sampleReport{Total: 1}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	var dest sampleReport
	if hit, _ := c.Get(ctx, "user-2", ReportTotalTasks, &dest); hit {
		t.Error("Expected other user's key to miss")
	}
	if hit, _ := c.Get(ctx, "user-1", ReportOverdueTasks, &dest); hit {
		t.Error("Expected other report's key to miss")
	}
}

func TestDelete(t *testing.T) {
	c, cleanup := setupTestCache(t)
	defer cleanup()
	ctx := context.Background()

	if err := c.Set(ctx, "user-1", ReportMaxDate, sampleReport{Total: 1}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := c.Delete(ctx, "user-1", ReportMaxDate); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	var dest sampleReport
	if hit, _ := c.Get(ctx, "user-1", ReportMaxDate, &dest); hit {
		t.Error("Expected deleted key to miss")
	}
}

func TestInvalidateUser(t *testing.T) {
	c, cleanup := setupTestCache(t)
	defer cleanup()
	ctx := context.Background()

	reports := []string{
		ReportTotalTasks,
		ReportAverageCompleted,
		ReportOverdueTasks,
		ReportMaxDate,
		ReportCountOpened,
	}
	for _, report := range reports {
		if err := c.Set(ctx, "user-1", report, sampleReport{Total: 1}); err != nil {
			t.Fatalf("Set %s failed: %v", report, err)
		}
	}
	if err := c.Set(ctx, "user-2", ReportTotalTasks, sampleReport{Total: 9}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if err := c.InvalidateUser(ctx, "user-1"); err != nil {
		t.Fatalf("InvalidateUser failed: %v", err)
	}

	var dest sampleReport
	for _, report := range reports {
		if hit, _ := c.Get(ctx, "user-1", report, &dest); hit {
			t.Errorf("Expected %s invalidated", report)
		}
	}

	// Other users keep their entries.
	if hit, _ := c.Get(ctx, "user-2", ReportTotalTasks, &dest); !hit {
		t.Error("Expected other user's entry to survive")
	}
}

func TestStats(t *testing.T) {
	c, cleanup := setupTestCache(t)
	defer cleanup()
	ctx := context.Background()

	var dest sampleReport
	c.Get(ctx, "user-1", ReportTotalTasks, &dest)
	c.Set(ctx, "user-1", ReportTotalTasks, sampleReport{Total: 1})
	c.Get(ctx, "user-1", ReportTotalTasks, &dest)

	stats := c.GetStats()
	if stats.Hits != 1 {
		t.Errorf("Expected 1 hit, got %d", stats.Hits)
	}
	if stats.Misses != 1 {
		t.Errorf("Expected 1 miss, got %d", stats.Misses)
	}
	if stats.Sets != 1 {
		t.Errorf("Expected 1 set, got %d", stats.Sets)
	}
	if stats.HitRate != 50 {
		t.Errorf("Expected 50%% hit rate, got %f", stats.HitRate)
	}

	c.ResetStats()
	stats = c.GetStats()
	if stats.Hits != 0 || stats.Misses != 0 || stats.Sets != 0 {
		t.Errorf("Expected counters reset, got %+v", stats)
	}
}
