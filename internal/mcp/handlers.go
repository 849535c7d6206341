package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/cursordata/internal/client"
	"github.com/hpungsan/cursordata/internal/config"
	jsondecode "github.com/hpungsan/cursordata/internal/decode"
	"github.com/hpungsan/cursordata/internal/errors"
	"github.com/hpungsan/cursordata/internal/export"
	"github.com/hpungsan/cursordata/internal/query"
	"github.com/hpungsan/cursordata/internal/record"
	"github.com/hpungsan/cursordata/internal/store"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	client *client.Client
	cfg    *config.Config
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(c *client.Client, cfg *config.Config) *Handlers {
	return &Handlers{client: c, cfg: cfg}
}

// limitOr substitutes the configured default when the caller gave no limit.
func (h *Handlers) limitOr(n int) int {
	if n != 0 {
		return n
	}
	if h.cfg != nil {
		return h.cfg.DefaultLimit
	}
	return 0
}

// Request types for each tool

// ValueGetRequest represents the arguments for value_get.
type ValueGetRequest struct {
	Key   string `json:"key"`
	Table string `json:"table,omitempty"`
}

// KeySearchRequest represents the arguments for key_search.
type KeySearchRequest struct {
	Pattern string `json:"pattern"`
	Table   string `json:"table,omitempty"`
}

// ConversationListRequest represents the arguments for conversation_list.
type ConversationListRequest struct {
	BubbleID string `json:"bubble_id,omitempty"`
	Model    string `json:"model,omitempty"`
	Agentic  *bool  `json:"agentic,omitempty"`
	Limit    int    `json:"limit,omitempty"`
	Offset   int    `json:"offset,omitempty"`
}

// ConversationGetRequest represents the arguments for conversation_get.
type ConversationGetRequest struct {
	BubbleID       string `json:"bubble_id"`
	ConversationID string `json:"conversation_id"`
}

// CheckpointListRequest represents the arguments for checkpoint_list.
type CheckpointListRequest struct {
	BubbleID string `json:"bubble_id,omitempty"`
	Limit    int    `json:"limit,omitempty"`
	Offset   int    `json:"offset,omitempty"`
}

// ContextListRequest represents the arguments for context_list.
type ContextListRequest struct {
	BubbleID string `json:"bubble_id,omitempty"`
	Limit    int    `json:"limit,omitempty"`
	Offset   int    `json:"offset,omitempty"`
}

// ComposerListRequest represents the arguments for composer_list.
type ComposerListRequest struct {
	ComposerID string `json:"composer_id,omitempty"`
	Limit      int    `json:"limit,omitempty"`
	Offset     int    `json:"offset,omitempty"`
}

// TrackingListRequest represents the arguments for tracking_list.
type TrackingListRequest struct {
	Source     string `json:"source,omitempty"`
	Extension  string `json:"extension,omitempty"`
	ComposerID string `json:"composer_id,omitempty"`
	Limit      int    `json:"limit,omitempty"`
	Offset     int    `json:"offset,omitempty"`
}

// SessionListRequest represents the arguments for session_list.
type SessionListRequest struct {
	Extension string `json:"extension,omitempty"`
	MinFiles  *int   `json:"min_files,omitempty"`
	MaxFiles  *int   `json:"max_files,omitempty"`
	Limit     int    `json:"limit,omitempty"`
	Offset    int    `json:"offset,omitempty"`
}

// Response shapes. List tools return compact items rather than full records
// so responses stay small; conversation_get returns the full typed record.

type checkpointItem struct {
	BubbleID     string `json:"bubbleId"`
	CheckpointID string `json:"checkpointId"`
	FileCount    int    `json:"fileCount"`
}

type contextItem struct {
	Todos               int `json:"todos"`
	CursorRules         int `json:"cursorRules"`
	DeletedFiles        int `json:"deletedFiles"`
	DiffsSinceLastApply int `json:"diffsSinceLastApply"`
	AttachedFileChunks  int `json:"attachedFileChunks"`
	KnowledgeItems      int `json:"knowledgeItems"`
}

type composerItem struct {
	ComposerID  string `json:"composerId"`
	Text        string `json:"text,omitempty"`
	Status      string `json:"status,omitempty"`
	HasLoaded   bool   `json:"hasLoaded"`
	BubbleCount int    `json:"bubbleCount"`
}

type trackingItem struct {
	Hash          string `json:"hash"`
	Source        string `json:"source,omitempty"`
	ComposerID    string `json:"composerId,omitempty"`
	FileExtension string `json:"fileExtension,omitempty"`
	FileName      string `json:"fileName,omitempty"`
}

// Handler implementations

// HandleStoreInfo handles the store_info tool call.
func (h *Handlers) HandleStoreInfo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	info, err := h.client.Info()
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(info)
}

// HandleValueGet handles the value_get tool call.
func (h *Handlers) HandleValueGet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ValueGetRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if input.Key == "" {
		return errorResult(errors.NewInvalidRequest("key is required")), nil
	}

	table := input.Table
	if table == "" {
		table = store.TableItem
	}
	if err := store.ValidateTable(table); err != nil {
		return errorResult(err), nil
	}

	var value any
	var found bool
	if table == store.TableKV {
		value, found, err = h.client.Entry(input.Key)
	} else {
		var raw []byte
		raw, found, err = h.client.Value(input.Key)
		if found {
			value = jsondecode.Value(raw)
		}
	}
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(map[string]any{
		"key":   input.Key,
		"table": table,
		"found": found,
		"value": value,
	})
}

// HandleKeySearch handles the key_search tool call.
func (h *Handlers) HandleKeySearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[KeySearchRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if input.Pattern == "" {
		return errorResult(errors.NewInvalidRequest("pattern is required")), nil
	}

	table := input.Table
	if table == "" {
		table = store.TableItem
	}
	if err := store.ValidateTable(table); err != nil {
		return errorResult(err), nil
	}

	keys, err := h.client.SearchKeys(table, input.Pattern)
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(map[string]any{
		"table":   table,
		"pattern": input.Pattern,
		"keys":    keys,
		"count":   len(keys),
	})
}

// HandleConversationList handles the conversation_list tool call.
func (h *Handlers) HandleConversationList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ConversationListRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	q := h.client.Query().Conversations().
		Limit(h.limitOr(input.Limit)).
		Offset(input.Offset)
	if input.BubbleID != "" {
		q = q.ForBubble(input.BubbleID)
	}
	q = q.Where(query.ConversationCriteria{
		ModelName: input.Model,
		IsAgentic: input.Agentic,
	})

	conversations, err := q.Execute()
	if err != nil {
		return errorResult(err), nil
	}

	items := export.Summarize(conversations.Items())
	return successResult(map[string]any{
		"items": items,
		"count": len(items),
	})
}

// HandleConversationGet handles the conversation_get tool call.
func (h *Handlers) HandleConversationGet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ConversationGetRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if input.BubbleID == "" || input.ConversationID == "" {
		return errorResult(errors.NewInvalidRequest("bubble_id and conversation_id are required")), nil
	}

	key := record.KeyPrefixConversation + input.BubbleID + ":" + input.ConversationID
	value, found, err := h.client.Entry(key)
	if err != nil {
		return errorResult(err), nil
	}
	if !found {
		return errorResult(errors.NewNotFound(key)), nil
	}

	return successResult(value)
}

// HandleCheckpointList handles the checkpoint_list tool call.
func (h *Handlers) HandleCheckpointList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[CheckpointListRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	q := h.client.Query().Checkpoints().
		Limit(h.limitOr(input.Limit)).
		Offset(input.Offset)
	if input.BubbleID != "" {
		q = q.ForBubble(input.BubbleID)
	}

	checkpoints, err := q.Execute()
	if err != nil {
		return errorResult(err), nil
	}

	items := make([]checkpointItem, 0, len(checkpoints))
	for _, cp := range checkpoints {
		items = append(items, checkpointItem{
			BubbleID:     cp.BubbleID,
			CheckpointID: cp.CheckpointID,
			FileCount:    len(cp.Files),
		})
	}

	return successResult(map[string]any{
		"items": items,
		"count": len(items),
	})
}

// HandleContextList handles the context_list tool call.
func (h *Handlers) HandleContextList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ContextListRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	q := h.client.Query().RequestContexts().
		Limit(h.limitOr(input.Limit)).
		Offset(input.Offset)
	if input.BubbleID != "" {
		q = q.ForBubble(input.BubbleID)
	}

	contexts, err := q.Execute()
	if err != nil {
		return errorResult(err), nil
	}

	items := make([]contextItem, 0, len(contexts))
	for _, rc := range contexts {
		items = append(items, contextItem{
			Todos:               len(rc.Todos),
			CursorRules:         len(rc.CursorRules),
			DeletedFiles:        len(rc.DeletedFiles),
			DiffsSinceLastApply: len(rc.DiffsSinceLastApply),
			AttachedFileChunks:  len(rc.AttachedFileCodeChunksMetadataOnly),
			KnowledgeItems:      len(rc.KnowledgeItems),
		})
	}

	return successResult(map[string]any{
		"items": items,
		"count": len(items),
	})
}

// HandleComposerList handles the composer_list tool call.
func (h *Handlers) HandleComposerList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ComposerListRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	q := h.client.Query().Composers().
		Limit(h.limitOr(input.Limit)).
		Offset(input.Offset)
	if input.ComposerID != "" {
		q = q.ForComposer(input.ComposerID)
	}

	composers, err := q.Execute()
	if err != nil {
		return errorResult(err), nil
	}

	items := make([]composerItem, 0, len(composers))
	for _, c := range composers {
		items = append(items, composerItem{
			ComposerID:  c.ComposerID,
			Text:        c.Text,
			Status:      c.Status,
			HasLoaded:   c.HasLoaded,
			BubbleCount: len(c.FullConversationHeadersOnly),
		})
	}

	return successResult(map[string]any{
		"items": items,
		"count": len(items),
	})
}

// HandleTrackingList handles the tracking_list tool call.
func (h *Handlers) HandleTrackingList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[TrackingListRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	entries, err := h.client.Query().TrackingEntries().
		Limit(h.limitOr(input.Limit)).
		Offset(input.Offset).
		Where(query.TrackingCriteria{
			Source:        input.Source,
			FileExtension: input.Extension,
			ComposerID:    input.ComposerID,
		}).
		Execute()
	if err != nil {
		return errorResult(err), nil
	}

	items := make([]trackingItem, 0, entries.Len())
	entries.Each(func(e *record.TrackingEntry) {
		items = append(items, trackingItem{
			Hash:          e.Hash,
			Source:        e.Source(),
			ComposerID:    e.ComposerID(),
			FileExtension: e.FileExtension(),
			FileName:      e.FileName(),
		})
	})

	return successResult(map[string]any{
		"items": items,
		"count": len(items),
	})
}

// HandleSessionList handles the session_list tool call.
func (h *Handlers) HandleSessionList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[SessionListRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	sessions, err := h.client.Query().ComposerSessions().
		Limit(h.limitOr(input.Limit)).
		Offset(input.Offset).
		Where(query.SessionCriteria{
			FileExtension: input.Extension,
			MinFiles:      input.MinFiles,
			MaxFiles:      input.MaxFiles,
		}).
		Execute()
	if err != nil {
		return errorResult(err), nil
	}

	items := sessions.Items()
	return successResult(map[string]any{
		"items": items,
		"count": len(items),
	})
}

// HandleUsageStats handles the usage_stats tool call.
func (h *Handlers) HandleUsageStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := h.client.UsageStats()
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(stats)
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Note: Internal error details are not exposed to prevent leaking sensitive info.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if dataErr, ok := err.(*errors.DataError); ok {
		errorObj := map[string]any{
			"code":    dataErr.Code,
			"message": dataErr.Message,
			"status":  dataErr.Status,
		}
		// Only include details for non-internal errors to avoid leaking
		// sensitive info like file paths or SQL errors
		if dataErr.Code != errors.ErrInternal && dataErr.Details != nil {
			errorObj["details"] = dataErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
