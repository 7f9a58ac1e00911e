package storage

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Storage budget management, inherited from the original system's quota
// handling. Entries are evicted lowest priority first, oldest first
// within a priority; protected prefixes are never touched.

// MaxStorageBytes is the soft budget the cleanup pass targets.
const MaxStorageBytes = 4 * 1024 * 1024

// cleanupThreshold is the usage fraction above which Cleanup acts.
const cleanupThreshold = 0.8

type priority int

const (
	priorityLow priority = iota
	priorityMedium
	priorityHigh
)

// keyPriorities orders eviction candidates. Text renditions are the most
// expensive to regenerate; generated and auto-sync blobs the cheapest.
var keyPriorities = map[string]priority{
	"text_content_":      priorityHigh,
	"constructed_":       priorityMedium,
	"activity_":          priorityMedium,
	"generated_content_": priorityLow,
	"auto_activity_":     priorityLow,
}

// protectedPrefixes are never evicted.
var protectedPrefixes = []string{"user_preferences", "app_settings"}

// Usage reports total stored bytes and the percentage of the budget used.
func (kv *KV) Usage(ctx context.Context) (bytes int64, percent float64, err error) {
	err = kv.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(LENGTH(key) + LENGTH(value)), 0) FROM kv_entries`,
	).Scan(&bytes)
	if err != nil {
		return 0, 0, fmt.Errorf("usage: %w", err)
	}
	return bytes, float64(bytes) / MaxStorageBytes * 100, nil
}

type evictionCandidate struct {
	key       string
	size      int64
	updatedAt time.Time
	priority  priority
}

// Cleanup evicts entries until targetFree bytes are reclaimed, lowest
// priority and oldest first. A non-positive targetFree uses 30% of the
// budget. Returns the keys removed. No-op while usage is under the
// cleanup threshold.
func (kv *KV) Cleanup(ctx context.Context, targetFree int64) ([]string, error) {
	if targetFree <= 0 {
		targetFree = MaxStorageBytes * 3 / 10
	}

	used, _, err := kv.Usage(ctx)
	if err != nil {
		return nil, err
	}
	if float64(used) < MaxStorageBytes*cleanupThreshold {
		return nil, nil
	}

	candidates, err := kv.evictionCandidates(ctx)
	if err != nil {
		return nil, err
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].priority != candidates[j].priority {
			return candidates[i].priority < candidates[j].priority
		}
		return candidates[i].updatedAt.Before(candidates[j].updatedAt)
	})

	var removed []string
	var freed int64
	for _, c := range candidates {
		if freed >= targetFree {
			break
		}
		// High-priority entries survive until eviction is nearly done.
		if c.priority == priorityHigh && freed < targetFree*7/10 {
			continue
		}
		if err := kv.Delete(ctx, c.key); err != nil {
			return removed, err
		}
		freed += c.size
		removed = append(removed, c.key)
	}
	return removed, nil
}

func (kv *KV) evictionCandidates(ctx context.Context) ([]evictionCandidate, error) {
	rows, err := kv.db.QueryContext(ctx,
		`SELECT key, LENGTH(key) + LENGTH(value), updated_at FROM kv_entries`)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	defer rows.Close()

	var out []evictionCandidate
	for rows.Next() {
		var c evictionCandidate
		if err := rows.Scan(&c.key, &c.size, &c.updatedAt); err != nil {
			return nil, err
		}
		if isProtected(c.key) {
			continue
		}
		c.priority = keyPriority(c.key)
		out = append(out, c)
	}
	return out, rows.Err()
}

func isProtected(key string) bool {
	for _, p := range protectedPrefixes {
		if strings.HasPrefix(key, p) {
			return true
		}
	}
	return false
}

func keyPriority(key string) priority {
	for prefix, p := range keyPriorities {
		if strings.Contains(key, prefix) {
			return p
		}
	}
	return priorityLow
}

// ClearActivity removes every key mentioning the activity id, across all
// key families. Returns the number of keys removed.
func (kv *KV) ClearActivity(ctx context.Context, activityID string) (int, error) {
	rows, err := kv.db.QueryContext(ctx,
		`SELECT key FROM kv_entries WHERE key LIKE '%' || ? || '%'`, activityID)
	if err != nil {
		return 0, fmt.Errorf("clear activity %q: %w", activityID, err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return 0, err
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}

	for _, k := range keys {
		if err := kv.Delete(ctx, k); err != nil {
			return 0, err
		}
	}
	return len(keys), nil
}
