package record

// Conversation is a single chat bubble from the cursorDiskKV table. The
// declared fields below mirror the payload shape Cursor writes today; every
// field the payload carries beyond these lands in Raw.
type Conversation struct {
	V    int
	Type int

	// Identity. BubbleID and ConversationID come from the record key when
	// the payload does not carry them.
	BubbleID       string
	ConversationID string
	RequestID      string
	CheckpointID   string

	Text      string
	RichText  string
	CreatedAt string

	// Attached context.
	Context                            map[string]any
	AttachedCodeChunks                 []any
	AttachedFileCodeChunksMetadataOnly []any
	AttachedFolders                    []any
	AttachedFoldersNew                 []any
	AttachedFoldersListDirResults      []any
	AttachedHumanChanges               bool
	HumanChanges                       []any
	CursorRules                        []any
	KnowledgeItems                     []any
	DocsReferences                     []any
	WebReferences                      []any
	AIWebSearchResults                 []any
	ExternalLinks                      []any
	ContextPieces                      []any

	// Code and diffs.
	SuggestedCodeBlocks                []any
	UserResponsesToSuggestedCodeBlocks []any
	AssistantSuggestedDiffs            []any
	DiffsSinceLastApply                []any
	GitDiffs                           []any
	FileDiffTrajectories               []any
	DiffHistories                      []any
	DiffsForCompressingFiles           []any
	CodebaseContextChunks              []any
	DeletedFiles                       []any
	RelevantFiles                      []any
	ProjectLayouts                     []any

	// Linting.
	Lints                 []any
	ApproximateLintErrors []any
	MultiFileLinterErrors []any

	// Terminal and tools.
	TerminalFiles                    []any
	ExistedPreviousTerminalCommand   bool
	ExistedSubsequentTerminalCommand bool
	InterpreterResults               []any
	ToolResults                      []any
	SupportedTools                   []any
	ConsoleLogs                      []any

	// Version control.
	Commits      []any
	PullRequests []any

	// UI state.
	Capabilities            []any
	CapabilityStatuses      map[string]any
	CapabilityContexts      []any
	UIElementPicked         []any
	Notepads                []any
	RecentLocationsHistory  []any
	RecentlyViewedFiles     []any
	Images                  []any
	Todos                   []any
	DocumentationSelections []any

	// Composer linkage.
	SummarizedComposers []any
	EditTrailContexts   []any
	AllThinkingBlocks   []any

	// Flags and metadata.
	IsAgentic                        bool
	IsRefunded                       bool
	IsNudge                          bool
	IsQuickSearchQuery               bool
	IsPlanExecution                  bool
	UseWeb                           bool
	UnifiedMode                      int
	EditToolSupportsSearchAndReplace bool
	SkipRendering                    bool

	TokenCount map[string]any
	ModelInfo  map[string]any

	// Raw holds every payload entry that did not fit a declared field,
	// keyed by the payload's original field name.
	Raw map[string]any
}

// conversationFields maps translated payload names to declared-field setters.
// A setter returns false when the value cannot take the field's type, which
// routes the original value to Raw.
var conversationFields = map[string]func(c *Conversation, v any) bool{
	"_v":            func(c *Conversation, v any) (ok bool) { c.V, ok = toInt(v); return },
	"type":          func(c *Conversation, v any) (ok bool) { c.Type, ok = toInt(v); return },
	"bubble_id":     func(c *Conversation, v any) (ok bool) { c.BubbleID, ok = toString(v); return },
	"request_id":    func(c *Conversation, v any) (ok bool) { c.RequestID, ok = toString(v); return },
	"checkpoint_id": func(c *Conversation, v any) (ok bool) { c.CheckpointID, ok = toString(v); return },
	"text":          func(c *Conversation, v any) (ok bool) { c.Text, ok = toString(v); return },
	"rich_text":     func(c *Conversation, v any) (ok bool) { c.RichText, ok = toString(v); return },
	"created_at":    func(c *Conversation, v any) (ok bool) { c.CreatedAt, ok = toString(v); return },

	"context":                                 func(c *Conversation, v any) (ok bool) { c.Context, ok = toMap(v); return },
	"attached_code_chunks":                    func(c *Conversation, v any) (ok bool) { c.AttachedCodeChunks, ok = toList(v); return },
	"attached_file_code_chunks_metadata_only": func(c *Conversation, v any) (ok bool) { c.AttachedFileCodeChunksMetadataOnly, ok = toList(v); return },
	"attached_folders":                        func(c *Conversation, v any) (ok bool) { c.AttachedFolders, ok = toList(v); return },
	"attached_folders_new":                    func(c *Conversation, v any) (ok bool) { c.AttachedFoldersNew, ok = toList(v); return },
	"attached_folders_list_dir_results":       func(c *Conversation, v any) (ok bool) { c.AttachedFoldersListDirResults, ok = toList(v); return },
	"attached_human_changes":                  func(c *Conversation, v any) (ok bool) { c.AttachedHumanChanges, ok = toBool(v); return },
	"human_changes":                           func(c *Conversation, v any) (ok bool) { c.HumanChanges, ok = toList(v); return },
	"cursor_rules":                            func(c *Conversation, v any) (ok bool) { c.CursorRules, ok = toList(v); return },
	"knowledge_items":                         func(c *Conversation, v any) (ok bool) { c.KnowledgeItems, ok = toList(v); return },
	"docs_references":                         func(c *Conversation, v any) (ok bool) { c.DocsReferences, ok = toList(v); return },
	"web_references":                          func(c *Conversation, v any) (ok bool) { c.WebReferences, ok = toList(v); return },
	"ai_web_search_results":                   func(c *Conversation, v any) (ok bool) { c.AIWebSearchResults, ok = toList(v); return },
	"external_links":                          func(c *Conversation, v any) (ok bool) { c.ExternalLinks, ok = toList(v); return },
	"context_pieces":                          func(c *Conversation, v any) (ok bool) { c.ContextPieces, ok = toList(v); return },

	"suggested_code_blocks":                   func(c *Conversation, v any) (ok bool) { c.SuggestedCodeBlocks, ok = toList(v); return },
	"user_responses_to_suggested_code_blocks": func(c *Conversation, v any) (ok bool) { c.UserResponsesToSuggestedCodeBlocks, ok = toList(v); return },
	"assistant_suggested_diffs":               func(c *Conversation, v any) (ok bool) { c.AssistantSuggestedDiffs, ok = toList(v); return },
	"diffs_since_last_apply":                  func(c *Conversation, v any) (ok bool) { c.DiffsSinceLastApply, ok = toList(v); return },
	"git_diffs":                               func(c *Conversation, v any) (ok bool) { c.GitDiffs, ok = toList(v); return },
	"file_diff_trajectories":                  func(c *Conversation, v any) (ok bool) { c.FileDiffTrajectories, ok = toList(v); return },
	"diff_histories":                          func(c *Conversation, v any) (ok bool) { c.DiffHistories, ok = toList(v); return },
	"diffs_for_compressing_files":             func(c *Conversation, v any) (ok bool) { c.DiffsForCompressingFiles, ok = toList(v); return },
	"codebase_context_chunks":                 func(c *Conversation, v any) (ok bool) { c.CodebaseContextChunks, ok = toList(v); return },
	"deleted_files":                           func(c *Conversation, v any) (ok bool) { c.DeletedFiles, ok = toList(v); return },
	"relevant_files":                          func(c *Conversation, v any) (ok bool) { c.RelevantFiles, ok = toList(v); return },
	"project_layouts":                         func(c *Conversation, v any) (ok bool) { c.ProjectLayouts, ok = toList(v); return },

	"lints":                    func(c *Conversation, v any) (ok bool) { c.Lints, ok = toList(v); return },
	"approximate_lint_errors":  func(c *Conversation, v any) (ok bool) { c.ApproximateLintErrors, ok = toList(v); return },
	"multi_file_linter_errors": func(c *Conversation, v any) (ok bool) { c.MultiFileLinterErrors, ok = toList(v); return },

	"terminal_files":                      func(c *Conversation, v any) (ok bool) { c.TerminalFiles, ok = toList(v); return },
	"existed_previous_terminal_command":   func(c *Conversation, v any) (ok bool) { c.ExistedPreviousTerminalCommand, ok = toBool(v); return },
	"existed_subsequent_terminal_command": func(c *Conversation, v any) (ok bool) { c.ExistedSubsequentTerminalCommand, ok = toBool(v); return },
	"interpreter_results":                 func(c *Conversation, v any) (ok bool) { c.InterpreterResults, ok = toList(v); return },
	"tool_results":                        func(c *Conversation, v any) (ok bool) { c.ToolResults, ok = toList(v); return },
	"supported_tools":                     func(c *Conversation, v any) (ok bool) { c.SupportedTools, ok = toList(v); return },
	"console_logs":                        func(c *Conversation, v any) (ok bool) { c.ConsoleLogs, ok = toList(v); return },

	"commits":       func(c *Conversation, v any) (ok bool) { c.Commits, ok = toList(v); return },
	"pull_requests": func(c *Conversation, v any) (ok bool) { c.PullRequests, ok = toList(v); return },

	"capabilities":             func(c *Conversation, v any) (ok bool) { c.Capabilities, ok = toList(v); return },
	"capability_statuses":      func(c *Conversation, v any) (ok bool) { c.CapabilityStatuses, ok = toMap(v); return },
	"capability_contexts":      func(c *Conversation, v any) (ok bool) { c.CapabilityContexts, ok = toList(v); return },
	"ui_element_picked":        func(c *Conversation, v any) (ok bool) { c.UIElementPicked, ok = toList(v); return },
	"notepads":                 func(c *Conversation, v any) (ok bool) { c.Notepads, ok = toList(v); return },
	"recent_locations_history": func(c *Conversation, v any) (ok bool) { c.RecentLocationsHistory, ok = toList(v); return },
	"recently_viewed_files":    func(c *Conversation, v any) (ok bool) { c.RecentlyViewedFiles, ok = toList(v); return },
	"images":                   func(c *Conversation, v any) (ok bool) { c.Images, ok = toList(v); return },
	"todos":                    func(c *Conversation, v any) (ok bool) { c.Todos, ok = toList(v); return },
	"documentation_selections": func(c *Conversation, v any) (ok bool) { c.DocumentationSelections, ok = toList(v); return },

	"summarized_composers": func(c *Conversation, v any) (ok bool) { c.SummarizedComposers, ok = toList(v); return },
	"edit_trail_contexts":  func(c *Conversation, v any) (ok bool) { c.EditTrailContexts, ok = toList(v); return },
	"all_thinking_blocks":  func(c *Conversation, v any) (ok bool) { c.AllThinkingBlocks, ok = toList(v); return },

	"is_agentic":                            func(c *Conversation, v any) (ok bool) { c.IsAgentic, ok = toBool(v); return },
	"is_refunded":                           func(c *Conversation, v any) (ok bool) { c.IsRefunded, ok = toBool(v); return },
	"is_nudge":                              func(c *Conversation, v any) (ok bool) { c.IsNudge, ok = toBool(v); return },
	"is_quick_search_query":                 func(c *Conversation, v any) (ok bool) { c.IsQuickSearchQuery, ok = toBool(v); return },
	"is_plan_execution":                     func(c *Conversation, v any) (ok bool) { c.IsPlanExecution, ok = toBool(v); return },
	"use_web":                               func(c *Conversation, v any) (ok bool) { c.UseWeb, ok = toBool(v); return },
	"unified_mode":                          func(c *Conversation, v any) (ok bool) { c.UnifiedMode, ok = toInt(v); return },
	"edit_tool_supports_search_and_replace": func(c *Conversation, v any) (ok bool) { c.EditToolSupportsSearchAndReplace, ok = toBool(v); return },
	"skip_rendering":                        func(c *Conversation, v any) (ok bool) { c.SkipRendering, ok = toBool(v); return },

	"token_count": func(c *Conversation, v any) (ok bool) { c.TokenCount, ok = toMap(v); return },
	"model_info":  func(c *Conversation, v any) (ok bool) { c.ModelInfo, ok = toMap(v); return },
}

// ConversationFromMap builds a Conversation from a decoded payload and the
// named parts of its record key. The bubble_id and conversation_id parts win
// over any payload values of the same name; other parts land in Raw.
func ConversationFromMap(data map[string]any, parts map[string]string) *Conversation {
	c := &Conversation{Raw: make(map[string]any)}

	fields, origin := translate(data)
	normalizeModelInfo(fields)
	normalizeTokenCount(fields)

	for name, v := range fields {
		if set, known := conversationFields[name]; known && set(c, v) {
			continue
		}
		c.Raw[originOf(origin, name)] = v
	}

	for part, value := range parts {
		switch part {
		case "bubble_id":
			if value != "" {
				c.BubbleID = value
			}
		case "conversation_id":
			if value != "" {
				c.ConversationID = value
			}
		default:
			c.Raw[part] = value
		}
	}
	return c
}

// normalizeModelInfo folds a loose model_name entry into the model_info
// mapping, matching how newer payloads nest the model name.
func normalizeModelInfo(fields map[string]any) {
	if name, ok := fields["model_name"]; ok {
		if _, has := fields["model_info"]; !has {
			fields["model_info"] = map[string]any{"modelName": name}
			delete(fields, "model_name")
			return
		}
	}
	if info, ok := fields["model_info"].(map[string]any); ok {
		if name, has := info["model_name"]; has {
			info["modelName"] = name
			delete(info, "model_name")
		}
	}
}

// normalizeTokenCount folds loose input_tokens and output_tokens entries into
// the token_count mapping and guarantees the mapping exists.
func normalizeTokenCount(fields map[string]any) {
	tc, ok := fields["token_count"].(map[string]any)
	if !ok {
		tc = make(map[string]any)
	}
	if v, has := fields["input_tokens"]; has {
		tc["inputTokens"] = v
		delete(fields, "input_tokens")
	}
	if v, has := fields["output_tokens"]; has {
		tc["outputTokens"] = v
		delete(fields, "output_tokens")
	}
	fields["token_count"] = tc
}

// ModelName returns the model name recorded for this bubble, or "".
func (c *Conversation) ModelName() string {
	if c.ModelInfo == nil {
		return ""
	}
	name, _ := c.ModelInfo["modelName"].(string)
	return name
}

// InputTokens returns the recorded input token count, if present.
func (c *Conversation) InputTokens() (int, bool) {
	if c.TokenCount == nil {
		return 0, false
	}
	return intFrom(c.TokenCount, "inputTokens")
}

// OutputTokens returns the recorded output token count, if present.
func (c *Conversation) OutputTokens() (int, bool) {
	if c.TokenCount == nil {
		return 0, false
	}
	return intFrom(c.TokenCount, "outputTokens")
}

// TotalTokens returns input plus output tokens. It reports false unless both
// counts are present.
func (c *Conversation) TotalTokens() (int, bool) {
	in, okIn := c.InputTokens()
	out, okOut := c.OutputTokens()
	if !okIn || !okOut {
		return 0, false
	}
	return in + out, true
}
