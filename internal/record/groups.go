package record

import "time"

// Property views bundle related Conversation fields behind a focused
// accessor surface. Each view holds a back-reference; nothing is copied.

// Code returns the code-change view of the conversation.
func (c *Conversation) Code() CodeView { return CodeView{c} }

// ContextView groups everything attached to the request as context.
func (c *Conversation) ContextGroup() ContextView { return ContextView{c} }

// Metadata returns the identity and bookkeeping view.
func (c *Conversation) Metadata() MetadataView { return MetadataView{c} }

// Linting returns the lint-diagnostics view.
func (c *Conversation) Linting() LintView { return LintView{c} }

// VersionControl returns the VCS view.
func (c *Conversation) VersionControl() VCSView { return VCSView{c} }

// Tools returns the tool-usage view.
func (c *Conversation) Tools() ToolsView { return ToolsView{c} }

// CodeView exposes the code blocks and diffs of a conversation.
type CodeView struct {
	conv *Conversation
}

func (v CodeView) SuggestedBlocks() []any      { return v.conv.SuggestedCodeBlocks }
func (v CodeView) UserResponses() []any        { return v.conv.UserResponsesToSuggestedCodeBlocks }
func (v CodeView) AssistantDiffs() []any       { return v.conv.AssistantSuggestedDiffs }
func (v CodeView) DiffsSinceApply() []any      { return v.conv.DiffsSinceLastApply }
func (v CodeView) GitDiffs() []any             { return v.conv.GitDiffs }
func (v CodeView) FileDiffTrajectories() []any { return v.conv.FileDiffTrajectories }
func (v CodeView) DiffHistories() []any        { return v.conv.DiffHistories }
func (v CodeView) CodebaseContext() []any      { return v.conv.CodebaseContextChunks }

// HasCodeChanges reports whether the conversation produced any code change.
func (v CodeView) HasCodeChanges() bool {
	return len(v.conv.SuggestedCodeBlocks) > 0 ||
		len(v.conv.AssistantSuggestedDiffs) > 0 ||
		len(v.conv.DiffsSinceLastApply) > 0 ||
		len(v.conv.GitDiffs) > 0
}

// ContextView exposes the attached context of a conversation.
type ContextView struct {
	conv *Conversation
}

func (v ContextView) Context() map[string]any      { return v.conv.Context }
func (v ContextView) AttachedCodeChunks() []any    { return v.conv.AttachedCodeChunks }
func (v ContextView) AttachedFilesMetadata() []any { return v.conv.AttachedFileCodeChunksMetadataOnly }
func (v ContextView) AttachedFolders() []any       { return v.conv.AttachedFoldersNew }
func (v ContextView) AttachedFoldersOld() []any    { return v.conv.AttachedFolders }
func (v ContextView) CursorRules() []any           { return v.conv.CursorRules }
func (v ContextView) KnowledgeItems() []any        { return v.conv.KnowledgeItems }
func (v ContextView) DocsReferences() []any        { return v.conv.DocsReferences }
func (v ContextView) WebReferences() []any         { return v.conv.WebReferences }
func (v ContextView) AIWebSearchResults() []any    { return v.conv.AIWebSearchResults }
func (v ContextView) ExternalLinks() []any         { return v.conv.ExternalLinks }
func (v ContextView) HumanChanges() []any          { return v.conv.HumanChanges }
func (v ContextView) HasHumanChanges() bool        { return v.conv.AttachedHumanChanges }

// HasContext reports whether anything was attached to the request.
func (v ContextView) HasContext() bool {
	return v.conv.Context != nil ||
		len(v.conv.AttachedCodeChunks) > 0 ||
		len(v.conv.AttachedFileCodeChunksMetadataOnly) > 0 ||
		len(v.conv.AttachedFoldersNew) > 0 ||
		len(v.conv.CursorRules) > 0 ||
		len(v.conv.KnowledgeItems) > 0
}

// MetadataView exposes identity, timing, token, and flag fields.
type MetadataView struct {
	conv *Conversation
}

func (v MetadataView) CreatedAt() string     { return v.conv.CreatedAt }
func (v MetadataView) BubbleID() string      { return v.conv.BubbleID }
func (v MetadataView) RequestID() string     { return v.conv.RequestID }
func (v MetadataView) CheckpointID() string  { return v.conv.CheckpointID }
func (v MetadataView) ModelName() string     { return v.conv.ModelName() }
func (v MetadataView) IsAgentic() bool       { return v.conv.IsAgentic }
func (v MetadataView) IsRefunded() bool      { return v.conv.IsRefunded }
func (v MetadataView) IsNudge() bool         { return v.conv.IsNudge }
func (v MetadataView) IsQuickSearch() bool   { return v.conv.IsQuickSearchQuery }
func (v MetadataView) IsPlanExecution() bool { return v.conv.IsPlanExecution }
func (v MetadataView) UseWeb() bool          { return v.conv.UseWeb }
func (v MetadataView) UnifiedMode() int      { return v.conv.UnifiedMode }

func (v MetadataView) InputTokens() (int, bool)  { return v.conv.InputTokens() }
func (v MetadataView) OutputTokens() (int, bool) { return v.conv.OutputTokens() }
func (v MetadataView) TotalTokens() (int, bool)  { return v.conv.TotalTokens() }

// CreatedTime parses the creation timestamp. It reports false when the
// timestamp is absent or unparseable.
func (v MetadataView) CreatedTime() (time.Time, bool) {
	return ParseTimestamp(v.conv.CreatedAt)
}

// LintView exposes the lint diagnostics of a conversation.
type LintView struct {
	conv *Conversation
}

func (v LintView) Lints() []any             { return v.conv.Lints }
func (v LintView) ApproximateErrors() []any { return v.conv.ApproximateLintErrors }
func (v LintView) MultiFileErrors() []any   { return v.conv.MultiFileLinterErrors }

// HasErrors reports whether any lint diagnostics were recorded.
func (v LintView) HasErrors() bool {
	return len(v.conv.Lints) > 0 ||
		len(v.conv.ApproximateLintErrors) > 0 ||
		len(v.conv.MultiFileLinterErrors) > 0
}

// ErrorCount returns the total number of lint diagnostics.
func (v LintView) ErrorCount() int {
	return len(v.conv.Lints) + len(v.conv.ApproximateLintErrors) + len(v.conv.MultiFileLinterErrors)
}

// VCSView exposes the version-control fields of a conversation.
type VCSView struct {
	conv *Conversation
}

func (v VCSView) Commits() []any      { return v.conv.Commits }
func (v VCSView) PullRequests() []any { return v.conv.PullRequests }
func (v VCSView) GitDiffs() []any     { return v.conv.GitDiffs }

// HasVCSInfo reports whether any version-control data was recorded.
func (v VCSView) HasVCSInfo() bool {
	return len(v.conv.Commits) > 0 || len(v.conv.PullRequests) > 0 || len(v.conv.GitDiffs) > 0
}

// ToolsView exposes the tool and terminal fields of a conversation.
type ToolsView struct {
	conv *Conversation
}

func (v ToolsView) TerminalFiles() []any              { return v.conv.TerminalFiles }
func (v ToolsView) InterpreterResults() []any         { return v.conv.InterpreterResults }
func (v ToolsView) ToolResults() []any                { return v.conv.ToolResults }
func (v ToolsView) SupportedTools() []any             { return v.conv.SupportedTools }
func (v ToolsView) HasPreviousTerminalCommand() bool  { return v.conv.ExistedPreviousTerminalCommand }
func (v ToolsView) HasSubsequentTerminalCommand() bool {
	return v.conv.ExistedSubsequentTerminalCommand
}

// HasToolUsage reports whether any tool activity was recorded.
func (v ToolsView) HasToolUsage() bool {
	return len(v.conv.TerminalFiles) > 0 ||
		len(v.conv.InterpreterResults) > 0 ||
		len(v.conv.ToolResults) > 0
}

// timestampLayouts are tried in order when parsing stored timestamps. Cursor
// writes ISO 8601; older entries sometimes omit the zone or the time.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses a stored timestamp string, reporting false when the
// value is empty or matches no known layout.
func ParseTimestamp(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
