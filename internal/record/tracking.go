package record

import (
	"time"

	"github.com/hpungsan/cursordata/internal/errors"
)

// TrackingEntry is one element of the aiCodeTrackingLines array in the
// ItemTable. The metadata mapping commonly carries source, composerId,
// fileExtension, and fileName.
type TrackingEntry struct {
	Hash     string         `json:"hash"`
	Metadata map[string]any `json:"metadata"`
}

// TrackingEntryFromMap builds a TrackingEntry. The hash is mandatory; a
// missing or non-string hash is a construction error rather than an overflow
// entry, since without it the entry cannot be identified.
func TrackingEntryFromMap(data map[string]any) (*TrackingEntry, error) {
	hash, ok := data["hash"].(string)
	if !ok || hash == "" {
		return nil, errors.NewMissingField("hash")
	}
	meta, ok := data["metadata"].(map[string]any)
	if !ok {
		meta = make(map[string]any)
	}
	return &TrackingEntry{Hash: hash, Metadata: meta}, nil
}

func (e *TrackingEntry) metaString(key string) string {
	s, _ := e.Metadata[key].(string)
	return s
}

// Source returns where the tracked code came from, such as "composer".
func (e *TrackingEntry) Source() string { return e.metaString("source") }

// ComposerID returns the composer session that produced the tracked code.
func (e *TrackingEntry) ComposerID() string { return e.metaString("composerId") }

// FileExtension returns the extension of the modified file.
func (e *TrackingEntry) FileExtension() string { return e.metaString("fileExtension") }

// FileName returns the full path of the modified file.
func (e *TrackingEntry) FileName() string { return e.metaString("fileName") }

// ComposerSession summarizes the tracking entries produced by one composer.
type ComposerSession struct {
	ComposerID     string   `json:"composerId"`
	FilesModified  []string `json:"filesModified"`
	FileExtensions []string `json:"fileExtensions"`
	EntriesCount   int      `json:"entriesCount"`
}

// SessionFromEntries builds a session summary for a composer. File names and
// extensions are deduplicated in first-occurrence order; entries without a
// file name or extension contribute only to the count.
func SessionFromEntries(composerID string, entries []*TrackingEntry) *ComposerSession {
	s := &ComposerSession{ComposerID: composerID, EntriesCount: len(entries)}
	seenFile := make(map[string]bool)
	seenExt := make(map[string]bool)
	for _, e := range entries {
		if f := e.FileName(); f != "" && !seenFile[f] {
			seenFile[f] = true
			s.FilesModified = append(s.FilesModified, f)
		}
		if x := e.FileExtension(); x != "" && !seenExt[x] {
			seenExt[x] = true
			s.FileExtensions = append(s.FileExtensions, x)
		}
	}
	return s
}

// UsageStats aggregates code-tracking activity across the whole store.
type UsageStats struct {
	TotalTrackingEntries   int            `json:"totalTrackingEntries"`
	TotalScoredCommits     int            `json:"totalScoredCommits"`
	TrackingStartTime      time.Time      `json:"trackingStartTime,omitzero"`
	MostUsedFileExtensions map[string]int `json:"mostUsedFileExtensions"`
	ComposerSessions       int            `json:"composerSessions"`
}

// StoreInfo describes the database file itself.
type StoreInfo struct {
	Path         string    `json:"path"`
	ItemCount    int       `json:"itemCount"`
	KVCount      int       `json:"kvCount"`
	LastModified time.Time `json:"lastModified"`
}
