package record

// RequestContext is a messageRequestContext entry: the context snapshot
// Cursor captured for one message request.
type RequestContext struct {
	MultiFileLinterErrors              []any
	TerminalFiles                      []any
	CursorRules                        []any
	AttachedFoldersListDirResults      []any
	SummarizedComposers                []any
	DeletedFiles                       []any
	DiffsSinceLastApply                []any
	Todos                              []any
	AttachedFileCodeChunksMetadataOnly []any
	ProjectLayouts                     []any
	KnowledgeItems                     []any

	Raw map[string]any
}

var requestContextFields = map[string]func(r *RequestContext, v any) bool{
	"multi_file_linter_errors":                func(r *RequestContext, v any) (ok bool) { r.MultiFileLinterErrors, ok = toList(v); return },
	"terminal_files":                          func(r *RequestContext, v any) (ok bool) { r.TerminalFiles, ok = toList(v); return },
	"cursor_rules":                            func(r *RequestContext, v any) (ok bool) { r.CursorRules, ok = toList(v); return },
	"attached_folders_list_dir_results":       func(r *RequestContext, v any) (ok bool) { r.AttachedFoldersListDirResults, ok = toList(v); return },
	"summarized_composers":                    func(r *RequestContext, v any) (ok bool) { r.SummarizedComposers, ok = toList(v); return },
	"deleted_files":                           func(r *RequestContext, v any) (ok bool) { r.DeletedFiles, ok = toList(v); return },
	"diffs_since_last_apply":                  func(r *RequestContext, v any) (ok bool) { r.DiffsSinceLastApply, ok = toList(v); return },
	"todos":                                   func(r *RequestContext, v any) (ok bool) { r.Todos, ok = toList(v); return },
	"attached_file_code_chunks_metadata_only": func(r *RequestContext, v any) (ok bool) { r.AttachedFileCodeChunksMetadataOnly, ok = toList(v); return },
	"project_layouts":                         func(r *RequestContext, v any) (ok bool) { r.ProjectLayouts, ok = toList(v); return },
	"knowledge_items":                         func(r *RequestContext, v any) (ok bool) { r.KnowledgeItems, ok = toList(v); return },
}

// RequestContextFromMap builds a RequestContext from a decoded payload.
func RequestContextFromMap(data map[string]any) *RequestContext {
	r := &RequestContext{Raw: make(map[string]any)}
	fields, origin := translate(data)
	for name, v := range fields {
		if set, known := requestContextFields[name]; known && set(r, v) {
			continue
		}
		r.Raw[originOf(origin, name)] = v
	}
	return r
}

// Checkpoint is a checkpointId entry: a saved file-state snapshot taken
// during a conversation.
type Checkpoint struct {
	BubbleID     string
	CheckpointID string

	Files                           map[string]any
	NonExistentFiles                []string
	NewlyCreatedFolders             []string
	ActiveInlineDiffs               []any
	InlineDiffNewlyCreatedResources []any

	Raw map[string]any
}

var checkpointFields = map[string]func(c *Checkpoint, v any) bool{
	"files":                               func(c *Checkpoint, v any) (ok bool) { c.Files, ok = toMap(v); return },
	"non_existent_files":                  func(c *Checkpoint, v any) (ok bool) { c.NonExistentFiles, ok = toStringList(v); return },
	"newly_created_folders":               func(c *Checkpoint, v any) (ok bool) { c.NewlyCreatedFolders, ok = toStringList(v); return },
	"active_inline_diffs":                 func(c *Checkpoint, v any) (ok bool) { c.ActiveInlineDiffs, ok = toList(v); return },
	"inline_diff_newly_created_resources": func(c *Checkpoint, v any) (ok bool) { c.InlineDiffNewlyCreatedResources, ok = toList(v); return },
}

// CheckpointFromMap builds a Checkpoint from a decoded payload and the named
// parts of its record key.
func CheckpointFromMap(data map[string]any, parts map[string]string) *Checkpoint {
	c := &Checkpoint{Raw: make(map[string]any)}
	fields, origin := translate(data)
	for name, v := range fields {
		if set, known := checkpointFields[name]; known && set(c, v) {
			continue
		}
		c.Raw[originOf(origin, name)] = v
	}
	for part, value := range parts {
		switch part {
		case "bubble_id":
			c.BubbleID = value
		case "checkpoint_id":
			c.CheckpointID = value
		default:
			c.Raw[part] = value
		}
	}
	return c
}

// BlockDiff is a codeBlockDiff entry comparing code block revisions against
// their initial version.
type BlockDiff struct {
	NewModelDiffWrtV0      map[string]any
	OriginalModelDiffWrtV0 map[string]any

	Raw map[string]any
}

var blockDiffFields = map[string]func(b *BlockDiff, v any) bool{
	"new_model_diff_wrt_v0":      func(b *BlockDiff, v any) (ok bool) { b.NewModelDiffWrtV0, ok = toMap(v); return },
	"original_model_diff_wrt_v0": func(b *BlockDiff, v any) (ok bool) { b.OriginalModelDiffWrtV0, ok = toMap(v); return },
}

// BlockDiffFromMap builds a BlockDiff from a decoded payload.
func BlockDiffFromMap(data map[string]any) *BlockDiff {
	b := &BlockDiff{Raw: make(map[string]any)}
	fields, origin := translate(data)
	for name, v := range fields {
		if set, known := blockDiffFields[name]; known && set(b, v) {
			continue
		}
		b.Raw[originOf(origin, name)] = v
	}
	return b
}

// Composer is a composerData entry describing one composer session.
type Composer struct {
	V          int
	ComposerID string
	Text       string
	RichText   string
	HasLoaded  bool
	Status     string

	Context                     map[string]any
	FullConversationHeadersOnly []any
	ConversationMap             map[string]any
	GitGraphFileSuggestions     []any
	GeneratingBubbleIDs         []string
	IsReadingLongFile           bool
	CodeBlockData               map[string]any
	OriginalFileStates          map[string]any
	NewlyCreatedFiles           []string

	Raw map[string]any
}

var composerFields = map[string]func(c *Composer, v any) bool{
	"_v":                             func(c *Composer, v any) (ok bool) { c.V, ok = toInt(v); return },
	"composer_id":                    func(c *Composer, v any) (ok bool) { c.ComposerID, ok = toString(v); return },
	"text":                           func(c *Composer, v any) (ok bool) { c.Text, ok = toString(v); return },
	"rich_text":                      func(c *Composer, v any) (ok bool) { c.RichText, ok = toString(v); return },
	"has_loaded":                     func(c *Composer, v any) (ok bool) { c.HasLoaded, ok = toBool(v); return },
	"status":                         func(c *Composer, v any) (ok bool) { c.Status, ok = toString(v); return },
	"context":                        func(c *Composer, v any) (ok bool) { c.Context, ok = toMap(v); return },
	"full_conversation_headers_only": func(c *Composer, v any) (ok bool) { c.FullConversationHeadersOnly, ok = toList(v); return },
	"conversation_map":               func(c *Composer, v any) (ok bool) { c.ConversationMap, ok = toMap(v); return },
	"git_graph_file_suggestions":     func(c *Composer, v any) (ok bool) { c.GitGraphFileSuggestions, ok = toList(v); return },
	"generating_bubble_ids":          func(c *Composer, v any) (ok bool) { c.GeneratingBubbleIDs, ok = toStringList(v); return },
	"is_reading_long_file":           func(c *Composer, v any) (ok bool) { c.IsReadingLongFile, ok = toBool(v); return },
	"code_block_data":                func(c *Composer, v any) (ok bool) { c.CodeBlockData, ok = toMap(v); return },
	"original_file_states":           func(c *Composer, v any) (ok bool) { c.OriginalFileStates, ok = toMap(v); return },
	"newly_created_files":            func(c *Composer, v any) (ok bool) { c.NewlyCreatedFiles, ok = toStringList(v); return },
}

// ComposerFromMap builds a Composer from a decoded payload and the named
// parts of its record key. The composer_id key part fills the identity field
// only when the payload did not already provide one.
func ComposerFromMap(data map[string]any, parts map[string]string) *Composer {
	c := &Composer{Raw: make(map[string]any)}
	fields, origin := translate(data)
	for name, v := range fields {
		if set, known := composerFields[name]; known && set(c, v) {
			continue
		}
		c.Raw[originOf(origin, name)] = v
	}
	for part, value := range parts {
		switch part {
		case "composer_id":
			if c.ComposerID == "" {
				c.ComposerID = value
			}
		default:
			c.Raw[part] = value
		}
	}
	return c
}

// InlineDiffs is an inlineDiffs entry: whatever per-workspace inline diff
// state Cursor stored, kept as-is.
type InlineDiffs struct {
	WorkspaceID string
	Data        map[string]any
}

// InlineDiffsFromMap builds an InlineDiffs for the given workspace.
func InlineDiffsFromMap(workspaceID string, data map[string]any) *InlineDiffs {
	return &InlineDiffs{WorkspaceID: workspaceID, Data: data}
}
