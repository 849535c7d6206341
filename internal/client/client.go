// Package client is the high-level entry point for reading Cursor state
// data: typed lookups, aggregate statistics, and the fluent query builder.
package client

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/hpungsan/cursordata/internal/decode"
	"github.com/hpungsan/cursordata/internal/keycodec"
	"github.com/hpungsan/cursordata/internal/query"
	"github.com/hpungsan/cursordata/internal/record"
	"github.com/hpungsan/cursordata/internal/store"
)

// Client reads a Cursor state database.
type Client struct {
	store *store.Store
}

// Open creates a client over the database at path. An empty path selects
// the platform default location.
func Open(path string) (*Client, error) {
	s, err := store.Open(path)
	if err != nil {
		return nil, err
	}
	return &Client{store: s}, nil
}

// NewWithStore wraps an existing store. Used by tests and by callers that
// manage the store lifecycle themselves.
func NewWithStore(s *store.Store) *Client {
	return &Client{store: s}
}

// Close releases the underlying connection. Safe to call multiple times.
func (c *Client) Close() error {
	return c.store.Close()
}

// Path returns the database file path.
func (c *Client) Path() string {
	return c.store.Path()
}

// Query returns a fluent query builder backed by this client.
func (c *Client) Query() *query.Builder {
	return query.New(c)
}

// KVRows implements query.Source.
func (c *Client) KVRows(prefix, filterID string, exact bool, limit, offset int) ([]store.KVRow, error) {
	return c.store.GetByPrefix(prefix, filterID, exact, limit, offset)
}

// Value returns the raw ItemTable value for key. The second return reports
// whether the key exists.
func (c *Client) Value(key string) ([]byte, bool, error) {
	return c.store.GetRaw(store.TableItem, key)
}

// Raw returns the raw value for key in the given table. The table name is
// validated before any I/O.
func (c *Client) Raw(table, key string) ([]byte, bool, error) {
	if err := store.ValidateTable(table); err != nil {
		return nil, false, err
	}
	return c.store.GetRaw(table, key)
}

// JSONValue returns the ItemTable value for key decoded as JSON, or nil if
// the key is absent or the value does not parse.
func (c *Client) JSONValue(key string) (any, error) {
	value, ok, err := c.Value(key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return decode.Value(value), nil
}

// Entry looks up a single cursorDiskKV key and returns the typed record for
// it. Keys with an unrecognized shape come back as the decoded JSON value.
// Missing keys report false.
func (c *Client) Entry(key string) (any, bool, error) {
	value, ok, err := c.store.GetRaw(store.TableKV, key)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}

	data, isObject := decode.Object(value)
	if !isObject {
		return decode.Value(value), true, nil
	}

	switch {
	case strings.HasPrefix(key, record.KeyPrefixConversation):
		parts, _ := keycodec.ParseKey(key, record.KeyPatternConversation)
		return record.ConversationFromMap(data, parts), true, nil
	case strings.HasPrefix(key, record.KeyPrefixRequestContext):
		return record.RequestContextFromMap(data), true, nil
	case strings.HasPrefix(key, record.KeyPrefixCheckpoint):
		parts, _ := keycodec.ParseKey(key, record.KeyPatternCheckpoint)
		return record.CheckpointFromMap(data, parts), true, nil
	case strings.HasPrefix(key, record.KeyPrefixBlockDiff):
		return record.BlockDiffFromMap(data), true, nil
	case strings.HasPrefix(key, record.KeyPrefixComposer):
		parts, _ := keycodec.ParseKey(key, record.KeyPatternComposer)
		return record.ComposerFromMap(data, parts), true, nil
	case strings.HasPrefix(key, record.KeyPrefixInlineDiffs):
		workspaceID := strings.TrimPrefix(key, record.KeyPrefixInlineDiffs)
		return record.InlineDiffsFromMap(workspaceID, data), true, nil
	}
	return data, true, nil
}

// TrackingEntries returns every code-tracking entry from the ItemTable.
// Entries that fail to construct are skipped with a log line.
func (c *Client) TrackingEntries() (record.TrackingCollection, error) {
	value, err := c.JSONValue(record.ItemKeyTrackingLines)
	if err != nil {
		return record.TrackingCollection{}, err
	}
	list, ok := value.([]any)
	if !ok {
		return record.NewTrackingCollection(nil), nil
	}

	entries := make([]*record.TrackingEntry, 0, len(list))
	for _, item := range list {
		data, ok := item.(map[string]any)
		if !ok {
			continue
		}
		entry, err := record.TrackingEntryFromMap(data)
		if err != nil {
			slog.Debug("skipping malformed tracking entry", "error", err)
			continue
		}
		entries = append(entries, entry)
	}
	return record.NewTrackingCollection(entries), nil
}

// ScoredCommits returns the scored commit hashes.
func (c *Client) ScoredCommits() ([]string, error) {
	value, err := c.JSONValue(record.ItemKeyScoredCommits)
	if err != nil {
		return nil, err
	}
	list, ok := value.([]any)
	if !ok {
		return nil, nil
	}

	commits := make([]string, 0, len(list))
	for _, item := range list {
		switch v := item.(type) {
		case nil:
			// skip
		case string:
			if v != "" {
				commits = append(commits, v)
			}
		case bool:
			if v {
				commits = append(commits, "true")
			}
		case float64:
			if v != 0 {
				commits = append(commits, fmt.Sprint(v))
			}
		default:
			commits = append(commits, fmt.Sprint(v))
		}
	}
	return commits, nil
}

// TrackingStartTime returns when code tracking began. It reports false when
// the value is absent or not a number.
func (c *Client) TrackingStartTime() (time.Time, bool, error) {
	value, err := c.JSONValue(record.ItemKeyTrackingStartTime)
	if err != nil {
		return time.Time{}, false, err
	}
	seconds, ok := value.(float64)
	if !ok {
		return time.Time{}, false, nil
	}
	sec := int64(seconds)
	nsec := int64((seconds - float64(sec)) * float64(time.Second))
	return time.Unix(sec, nsec), true, nil
}

// UsageStats aggregates code-tracking activity: totals, the extension
// histogram, and the number of distinct composer sessions.
func (c *Client) UsageStats() (*record.UsageStats, error) {
	entries, err := c.TrackingEntries()
	if err != nil {
		return nil, err
	}
	commits, err := c.ScoredCommits()
	if err != nil {
		return nil, err
	}
	start, hasStart, err := c.TrackingStartTime()
	if err != nil {
		return nil, err
	}

	extensions := make(map[string]int)
	composers := make(map[string]bool)
	entries.Each(func(e *record.TrackingEntry) {
		if ext := e.FileExtension(); ext != "" {
			extensions[ext]++
		}
		if id := e.ComposerID(); id != "" {
			composers[id] = true
		}
	})

	stats := &record.UsageStats{
		TotalTrackingEntries:   entries.Len(),
		TotalScoredCommits:     len(commits),
		MostUsedFileExtensions: extensions,
		ComposerSessions:       len(composers),
	}
	if hasStart {
		stats.TrackingStartTime = start
	}
	return stats, nil
}

// ComposerSessions returns session summaries grouped by composer id.
func (c *Client) ComposerSessions() (record.ComposerSessionCollection, error) {
	return c.Query().ComposerSessions().Execute()
}

// Info returns counts and file metadata for the database.
func (c *Client) Info() (*record.StoreInfo, error) {
	itemCount, err := c.store.CountRows(store.TableItem)
	if err != nil {
		return nil, err
	}
	kvCount, err := c.store.CountRows(store.TableKV)
	if err != nil {
		return nil, err
	}

	info := &record.StoreInfo{
		Path:      c.store.Path(),
		ItemCount: itemCount,
		KVCount:   kvCount,
	}
	if fi, err := os.Stat(c.store.Path()); err == nil {
		info.LastModified = fi.ModTime()
	}
	return info, nil
}

// SearchKeys returns keys in a table matching a SQL LIKE pattern.
func (c *Client) SearchKeys(table, pattern string) ([]string, error) {
	return c.store.SearchKeys(table, pattern)
}

// IterateKeys streams every key in a table to fn in stored order.
func (c *Client) IterateKeys(table string, fn func(key string) error) error {
	return c.store.IterateKeys(table, fn)
}
