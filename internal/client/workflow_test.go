package client

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hpungsan/cursordata/internal/errors"
	"github.com/hpungsan/cursordata/internal/query"
	"github.com/hpungsan/cursordata/internal/record"
	"github.com/hpungsan/cursordata/internal/store"
)

// TestReadWorkflow exercises a full read session against one database:
// info → typed lookup → filtered queries → aggregation → key iteration
func TestReadWorkflow(t *testing.T) {
	bubbleID := store.NewID()
	questionID := store.NewID()
	answerID := store.NewID()
	checkpointID := store.NewID()
	composerA := store.NewID()
	composerB := store.NewID()

	items := []store.SeedRow{
		{Key: record.ItemKeyTrackingLines, Value: trackingJSON(t,
			entry("h1", composerA, ".go", "/p/main.go"),
			entry("h2", composerA, ".go", "/p/store.go"),
			entry("h3", composerB, ".ts", "/p/app.ts"),
		)},
		{Key: record.ItemKeyScoredCommits, Value: `["sha1", "sha2"]`},
		{Key: record.ItemKeyTrackingStartTime, Value: `1717500000`},
	}
	kv := []store.SeedRow{
		{Key: record.KeyPrefixConversation + bubbleID + ":" + questionID, Value: `{"type": 1, "text": "how do I open a file?"}`},
		{Key: record.KeyPrefixConversation + bubbleID + ":" + answerID, Value: `{"type": 2, "text": "use os.Open", "modelName": "gpt-5", "isAgentic": true}`},
		{Key: record.KeyPrefixCheckpoint + bubbleID + ":" + checkpointID, Value: `{"files": {"main.go": {}}}`},
		{Key: record.KeyPrefixComposer + composerA, Value: `{"text": "refactor the store", "status": "completed"}`},
	}
	c := NewWithStore(store.CreateFixture(t, items, kv))
	defer c.Close()

	// 1. Info
	info, err := c.Info()
	require.NoError(t, err)
	require.Equal(t, 3, info.ItemCount)
	require.Equal(t, 4, info.KVCount)

	// 2. Typed lookup
	value, found, err := c.Entry(record.KeyPrefixConversation + bubbleID + ":" + questionID)
	require.NoError(t, err)
	require.True(t, found)
	conv, ok := value.(*record.Conversation)
	require.True(t, ok)
	require.Equal(t, bubbleID, conv.BubbleID)
	require.Equal(t, "how do I open a file?", conv.Text)

	// 3. Filtered conversation query
	agentic := true
	conversations, err := c.Query().Conversations().
		ForBubble(bubbleID).
		Where(query.ConversationCriteria{IsAgentic: &agentic}).
		Execute()
	require.NoError(t, err)
	require.Equal(t, 1, conversations.Len())
	require.Equal(t, "gpt-5", conversations.Items()[0].ModelName())

	// 4. Checkpoints for the same bubble
	checkpoints, err := c.Query().Checkpoints().ForBubble(bubbleID).Execute()
	require.NoError(t, err)
	require.Len(t, checkpoints, 1)
	require.Equal(t, checkpointID, checkpoints[0].CheckpointID)

	// 5. Tracking entries narrowed by composer
	entries, err := c.Query().TrackingEntries().
		Where(query.TrackingCriteria{ComposerID: composerA}).
		Execute()
	require.NoError(t, err)
	require.Equal(t, 2, entries.Len())

	// 6. Sessions derived from tracking
	sessions, err := c.ComposerSessions()
	require.NoError(t, err)
	require.Equal(t, 2, sessions.Len())

	// 7. Aggregate stats
	stats, err := c.UsageStats()
	require.NoError(t, err)
	require.Equal(t, 3, stats.TotalTrackingEntries)
	require.Equal(t, 2, stats.TotalScoredCommits)
	require.Equal(t, 2, stats.ComposerSessions)
	require.Equal(t, 2, stats.MostUsedFileExtensions[".go"])
	require.False(t, stats.TrackingStartTime.IsZero())

	// 8. Key search and invalid table rejection
	keys, err := c.SearchKeys(store.TableKV, record.KeyPrefixConversation+"%")
	require.NoError(t, err)
	require.Len(t, keys, 2)

	_, _, err = c.Raw("sqlite_master", "anything")
	require.Error(t, err)
	var dataErr *errors.DataError
	require.ErrorAs(t, err, &dataErr)
	require.Equal(t, errors.ErrInvalidRequest, dataErr.Code)
}
