package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// Tool definitions. All tools are read-only views over the Cursor state
// database; none of them mutate anything.

var storeInfoToolDef = mcp.NewTool("store_info",
	mcp.WithDescription("Report the database path, per-table row counts, and last modification time."),
)

var valueGetToolDef = mcp.NewTool("value_get",
	mcp.WithDescription("Fetch a single value by exact key. cursorDiskKV keys with a recognized shape come back as typed records."),
	mcp.WithString("key",
		mcp.Required(),
		mcp.Description("Exact key to look up."),
	),
	mcp.WithString("table",
		mcp.Description("Table to read: ItemTable (default) or cursorDiskKV."),
	),
)

var keySearchToolDef = mcp.NewTool("key_search",
	mcp.WithDescription("List keys matching a SQL LIKE pattern."),
	mcp.WithString("pattern",
		mcp.Required(),
		mcp.Description("SQL LIKE pattern, e.g. 'bubbleId:%'."),
	),
	mcp.WithString("table",
		mcp.Description("Table to search: ItemTable (default) or cursorDiskKV."),
	),
)

var conversationListToolDef = mcp.NewTool("conversation_list",
	mcp.WithDescription("List conversation summaries, optionally narrowed to one bubble or filtered by model."),
	mcp.WithString("bubble_id",
		mcp.Description("Only conversations belonging to this bubble."),
	),
	mcp.WithString("model",
		mcp.Description("Only conversations generated by this model name."),
	),
	mcp.WithBoolean("agentic",
		mcp.Description("Filter by the agentic flag."),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum rows to fetch. Defaults to the configured limit."),
	),
	mcp.WithNumber("offset",
		mcp.Description("Rows to skip before the first result."),
	),
)

var conversationGetToolDef = mcp.NewTool("conversation_get",
	mcp.WithDescription("Fetch one conversation record by bubble id and conversation id."),
	mcp.WithString("bubble_id",
		mcp.Required(),
		mcp.Description("Bubble the conversation belongs to."),
	),
	mcp.WithString("conversation_id",
		mcp.Required(),
		mcp.Description("Conversation identifier within the bubble."),
	),
)

var checkpointListToolDef = mcp.NewTool("checkpoint_list",
	mcp.WithDescription("List file-state checkpoints, optionally narrowed to one bubble."),
	mcp.WithString("bubble_id",
		mcp.Description("Only checkpoints belonging to this bubble."),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum rows to fetch. Defaults to the configured limit."),
	),
	mcp.WithNumber("offset",
		mcp.Description("Rows to skip before the first result."),
	),
)

var contextListToolDef = mcp.NewTool("context_list",
	mcp.WithDescription("List message request context snapshots as per-category counts."),
	mcp.WithString("bubble_id",
		mcp.Description("Only contexts belonging to this bubble."),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum rows to fetch. Defaults to the configured limit."),
	),
	mcp.WithNumber("offset",
		mcp.Description("Rows to skip before the first result."),
	),
)

var composerListToolDef = mcp.NewTool("composer_list",
	mcp.WithDescription("List composer session summaries."),
	mcp.WithString("composer_id",
		mcp.Description("Exact composer id to fetch instead of scanning."),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum rows to fetch. Defaults to the configured limit."),
	),
	mcp.WithNumber("offset",
		mcp.Description("Rows to skip before the first result."),
	),
)

var trackingListToolDef = mcp.NewTool("tracking_list",
	mcp.WithDescription("List code-tracking entries with optional source, extension, and composer filters."),
	mcp.WithString("source",
		mcp.Description("Only entries recorded from this source, e.g. 'composer'."),
	),
	mcp.WithString("extension",
		mcp.Description("Only entries for files with this extension, e.g. '.go'."),
	),
	mcp.WithString("composer_id",
		mcp.Description("Only entries attributed to this composer."),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum entries in the page. Defaults to the configured limit."),
	),
	mcp.WithNumber("offset",
		mcp.Description("Entries to skip before the first result."),
	),
)

var sessionListToolDef = mcp.NewTool("session_list",
	mcp.WithDescription("List composer sessions derived from code-tracking entries."),
	mcp.WithString("extension",
		mcp.Description("Only sessions that touched files with this extension."),
	),
	mcp.WithNumber("min_files",
		mcp.Description("Only sessions that modified at least this many files."),
	),
	mcp.WithNumber("max_files",
		mcp.Description("Only sessions that modified at most this many files."),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum sessions in the page. Defaults to the configured limit."),
	),
	mcp.WithNumber("offset",
		mcp.Description("Sessions to skip before the first result."),
	),
)

var usageStatsToolDef = mcp.NewTool("usage_stats",
	mcp.WithDescription("Aggregate code-tracking activity: totals, extension histogram, distinct composer count, and tracking start time."),
)
