// Package query provides a fluent builder over the typed record kinds.
// Pagination is applied before predicates, mirroring how the rows are
// fetched: prefix-backed kinds push LIMIT/OFFSET into SQL, derived kinds
// slice the materialized list, and predicates then run over the page.
package query

import (
	"log/slog"
	"time"

	"github.com/hpungsan/cursordata/internal/decode"
	"github.com/hpungsan/cursordata/internal/keycodec"
	"github.com/hpungsan/cursordata/internal/record"
	"github.com/hpungsan/cursordata/internal/store"
)

// Source supplies the raw data queries run over. The client implements it;
// tests can substitute their own.
type Source interface {
	// KVRows returns rows from the cursorDiskKV table with the same
	// selection semantics as the store layer.
	KVRows(prefix, filterID string, exact bool, limit, offset int) ([]store.KVRow, error)

	// TrackingEntries returns every code-tracking entry.
	TrackingEntries() (record.TrackingCollection, error)
}

// Builder is the query entry point.
type Builder struct {
	src Source
}

// New creates a builder over the given source.
func New(src Source) *Builder {
	return &Builder{src: src}
}

func (b *Builder) Conversations() *ConversationQuery {
	return &ConversationQuery{src: b.src}
}

func (b *Builder) Checkpoints() *CheckpointQuery {
	return &CheckpointQuery{src: b.src}
}

func (b *Builder) RequestContexts() *RequestContextQuery {
	return &RequestContextQuery{src: b.src}
}

func (b *Builder) Composers() *ComposerQuery {
	return &ComposerQuery{src: b.src}
}

func (b *Builder) TrackingEntries() *TrackingQuery {
	return &TrackingQuery{src: b.src}
}

func (b *Builder) ComposerSessions() *ComposerSessionQuery {
	return &ComposerSessionQuery{src: b.src}
}

// pagination carries the shared limit/offset state. A zero limit means
// unlimited, in which case the offset is not applied either.
type pagination struct {
	limit  int
	offset int
}

// setPage computes the offset for a 1-indexed page. Page numbers below 1
// produce a negative offset, which the executors clamp or, for SQL-backed
// kinds, hand to SQLite as-is.
func (p *pagination) setPage(num, size int) {
	p.offset = (num - 1) * size
	p.limit = size
}

// kvObjects fetches a page of rows and decodes each value into a JSON
// object plus parsed key parts. Rows whose value is not a JSON object are
// skipped with a log line; a corrupt row should not sink the whole query.
func kvObjects(src Source, prefix, filterID string, exact bool, p pagination, pattern string) ([]kvObject, error) {
	rows, err := src.KVRows(prefix, filterID, exact, p.limit, p.offset)
	if err != nil {
		return nil, err
	}

	out := make([]kvObject, 0, len(rows))
	for _, row := range rows {
		data, ok := decode.Object(row.Value)
		if !ok {
			slog.Debug("skipping non-object row", "key", row.Key)
			continue
		}
		var parts map[string]string
		if pattern != "" {
			parts, _ = keycodec.ParseKey(row.Key, pattern)
		}
		out = append(out, kvObject{key: row.Key, data: data, parts: parts})
	}
	return out, nil
}

type kvObject struct {
	key   string
	data  map[string]any
	parts map[string]string
}

// ConversationQuery queries chat bubbles.
type ConversationQuery struct {
	src      Source
	p        pagination
	bubbleID string
	filters  []func(*record.Conversation) bool
}

func (q *ConversationQuery) Limit(n int) *ConversationQuery {
	q.p.limit = n
	return q
}

func (q *ConversationQuery) Offset(n int) *ConversationQuery {
	q.p.offset = n
	return q
}

func (q *ConversationQuery) Page(num, size int) *ConversationQuery {
	q.p.setPage(num, size)
	return q
}

// ForBubble narrows the scan to one bubble's conversations.
func (q *ConversationQuery) ForBubble(bubbleID string) *ConversationQuery {
	q.bubbleID = bubbleID
	return q
}

// Filter appends a predicate. Predicates run in order over the fetched page.
func (q *ConversationQuery) Filter(pred func(*record.Conversation) bool) *ConversationQuery {
	q.filters = append(q.filters, pred)
	return q
}

// ConversationCriteria bundles the common conversation filters. Zero-valued
// fields are ignored; pointer fields distinguish "unset" from false or zero.
type ConversationCriteria struct {
	CreatedAfter    time.Time
	CreatedBefore   time.Time
	ModelName       string
	MinInputTokens  *int
	MinOutputTokens *int
	HasCodeBlocks   *bool
	HasDiffs        *bool
	HasLintErrors   *bool
	IsAgentic       *bool
}

// Where appends predicates for every criteria field that is set.
func (q *ConversationQuery) Where(c ConversationCriteria) *ConversationQuery {
	if !c.CreatedAfter.IsZero() || !c.CreatedBefore.IsZero() {
		q.Filter(func(conv *record.Conversation) bool {
			created, ok := record.ParseTimestamp(conv.CreatedAt)
			if !ok {
				return false
			}
			if !c.CreatedAfter.IsZero() && created.Before(c.CreatedAfter) {
				return false
			}
			if !c.CreatedBefore.IsZero() && created.After(c.CreatedBefore) {
				return false
			}
			return true
		})
	}
	if c.ModelName != "" {
		q.Filter(func(conv *record.Conversation) bool {
			return conv.ModelName() == c.ModelName
		})
	}
	if c.MinInputTokens != nil || c.MinOutputTokens != nil {
		q.Filter(func(conv *record.Conversation) bool {
			in, _ := conv.InputTokens()
			out, _ := conv.OutputTokens()
			if c.MinInputTokens != nil && in < *c.MinInputTokens {
				return false
			}
			if c.MinOutputTokens != nil && out < *c.MinOutputTokens {
				return false
			}
			return true
		})
	}
	if c.HasCodeBlocks != nil {
		q.Filter(func(conv *record.Conversation) bool {
			return (len(conv.SuggestedCodeBlocks) > 0) == *c.HasCodeBlocks
		})
	}
	if c.HasDiffs != nil {
		q.Filter(func(conv *record.Conversation) bool {
			has := len(conv.AssistantSuggestedDiffs) > 0 || len(conv.DiffsSinceLastApply) > 0
			return has == *c.HasDiffs
		})
	}
	if c.HasLintErrors != nil {
		q.Filter(func(conv *record.Conversation) bool {
			has := len(conv.Lints) > 0 || len(conv.MultiFileLinterErrors) > 0
			return has == *c.HasLintErrors
		})
	}
	if c.IsAgentic != nil {
		q.Filter(func(conv *record.Conversation) bool {
			return conv.IsAgentic == *c.IsAgentic
		})
	}
	return q
}

// Execute runs the query.
func (q *ConversationQuery) Execute() (record.ConversationCollection, error) {
	objects, err := kvObjects(q.src, record.KeyPrefixConversation, q.bubbleID, false, q.p, record.KeyPatternConversation)
	if err != nil {
		return record.ConversationCollection{}, err
	}

	conversations := make([]*record.Conversation, 0, len(objects))
	for _, obj := range objects {
		conversations = append(conversations, record.ConversationFromMap(obj.data, obj.parts))
	}
	for _, pred := range q.filters {
		kept := conversations[:0:0]
		for _, conv := range conversations {
			if pred(conv) {
				kept = append(kept, conv)
			}
		}
		conversations = kept
	}
	return record.NewConversationCollection(conversations), nil
}

// CheckpointQuery queries file-state checkpoints.
type CheckpointQuery struct {
	src      Source
	p        pagination
	bubbleID string
	filters  []func(*record.Checkpoint) bool
}

func (q *CheckpointQuery) Limit(n int) *CheckpointQuery {
	q.p.limit = n
	return q
}

func (q *CheckpointQuery) Offset(n int) *CheckpointQuery {
	q.p.offset = n
	return q
}

func (q *CheckpointQuery) Page(num, size int) *CheckpointQuery {
	q.p.setPage(num, size)
	return q
}

// ForBubble narrows the scan to one bubble's checkpoints.
func (q *CheckpointQuery) ForBubble(bubbleID string) *CheckpointQuery {
	q.bubbleID = bubbleID
	return q
}

func (q *CheckpointQuery) Filter(pred func(*record.Checkpoint) bool) *CheckpointQuery {
	q.filters = append(q.filters, pred)
	return q
}

// Execute runs the query.
func (q *CheckpointQuery) Execute() ([]*record.Checkpoint, error) {
	objects, err := kvObjects(q.src, record.KeyPrefixCheckpoint, q.bubbleID, false, q.p, record.KeyPatternCheckpoint)
	if err != nil {
		return nil, err
	}

	checkpoints := make([]*record.Checkpoint, 0, len(objects))
	for _, obj := range objects {
		checkpoints = append(checkpoints, record.CheckpointFromMap(obj.data, obj.parts))
	}
	for _, pred := range q.filters {
		kept := checkpoints[:0:0]
		for _, cp := range checkpoints {
			if pred(cp) {
				kept = append(kept, cp)
			}
		}
		checkpoints = kept
	}
	return checkpoints, nil
}

// RequestContextQuery queries message request contexts.
type RequestContextQuery struct {
	src      Source
	p        pagination
	bubbleID string
	filters  []func(*record.RequestContext) bool
}

func (q *RequestContextQuery) Limit(n int) *RequestContextQuery {
	q.p.limit = n
	return q
}

func (q *RequestContextQuery) Offset(n int) *RequestContextQuery {
	q.p.offset = n
	return q
}

func (q *RequestContextQuery) Page(num, size int) *RequestContextQuery {
	q.p.setPage(num, size)
	return q
}

// ForBubble narrows the scan to one bubble's request contexts.
func (q *RequestContextQuery) ForBubble(bubbleID string) *RequestContextQuery {
	q.bubbleID = bubbleID
	return q
}

func (q *RequestContextQuery) Filter(pred func(*record.RequestContext) bool) *RequestContextQuery {
	q.filters = append(q.filters, pred)
	return q
}

// Execute runs the query.
func (q *RequestContextQuery) Execute() ([]*record.RequestContext, error) {
	objects, err := kvObjects(q.src, record.KeyPrefixRequestContext, q.bubbleID, false, q.p, "")
	if err != nil {
		return nil, err
	}

	contexts := make([]*record.RequestContext, 0, len(objects))
	for _, obj := range objects {
		contexts = append(contexts, record.RequestContextFromMap(obj.data))
	}
	for _, pred := range q.filters {
		kept := contexts[:0:0]
		for _, rc := range contexts {
			if pred(rc) {
				kept = append(kept, rc)
			}
		}
		contexts = kept
	}
	return contexts, nil
}

// ComposerQuery queries composer sessions stored under composerData keys.
type ComposerQuery struct {
	src        Source
	p          pagination
	composerID string
	filters    []func(*record.Composer) bool
}

func (q *ComposerQuery) Limit(n int) *ComposerQuery {
	q.p.limit = n
	return q
}

func (q *ComposerQuery) Offset(n int) *ComposerQuery {
	q.p.offset = n
	return q
}

func (q *ComposerQuery) Page(num, size int) *ComposerQuery {
	q.p.setPage(num, size)
	return q
}

// ForComposer narrows the scan to a single composer by exact key match.
func (q *ComposerQuery) ForComposer(composerID string) *ComposerQuery {
	q.composerID = composerID
	return q
}

func (q *ComposerQuery) Filter(pred func(*record.Composer) bool) *ComposerQuery {
	q.filters = append(q.filters, pred)
	return q
}

// Execute runs the query.
func (q *ComposerQuery) Execute() ([]*record.Composer, error) {
	exact := q.composerID != ""
	objects, err := kvObjects(q.src, record.KeyPrefixComposer, q.composerID, exact, q.p, record.KeyPatternComposer)
	if err != nil {
		return nil, err
	}

	composers := make([]*record.Composer, 0, len(objects))
	for _, obj := range objects {
		composers = append(composers, record.ComposerFromMap(obj.data, obj.parts))
	}
	for _, pred := range q.filters {
		kept := composers[:0:0]
		for _, c := range composers {
			if pred(c) {
				kept = append(kept, c)
			}
		}
		composers = kept
	}
	return composers, nil
}

// TrackingQuery queries code-tracking entries.
type TrackingQuery struct {
	src     Source
	p       pagination
	filters []func(*record.TrackingEntry) bool
}

func (q *TrackingQuery) Limit(n int) *TrackingQuery {
	q.p.limit = n
	return q
}

func (q *TrackingQuery) Offset(n int) *TrackingQuery {
	q.p.offset = n
	return q
}

func (q *TrackingQuery) Page(num, size int) *TrackingQuery {
	q.p.setPage(num, size)
	return q
}

func (q *TrackingQuery) Filter(pred func(*record.TrackingEntry) bool) *TrackingQuery {
	q.filters = append(q.filters, pred)
	return q
}

// TrackingCriteria bundles the common tracking filters. Empty strings are
// ignored.
type TrackingCriteria struct {
	Source        string
	FileExtension string
	ComposerID    string
}

// Where appends predicates for every criteria field that is set.
func (q *TrackingQuery) Where(c TrackingCriteria) *TrackingQuery {
	if c.Source != "" {
		q.Filter(func(e *record.TrackingEntry) bool { return e.Source() == c.Source })
	}
	if c.FileExtension != "" {
		q.Filter(func(e *record.TrackingEntry) bool { return e.FileExtension() == c.FileExtension })
	}
	if c.ComposerID != "" {
		q.Filter(func(e *record.TrackingEntry) bool { return e.ComposerID() == c.ComposerID })
	}
	return q
}

// Execute runs the query over the materialized entry list.
func (q *TrackingQuery) Execute() (record.TrackingCollection, error) {
	entries, err := q.src.TrackingEntries()
	if err != nil {
		return record.TrackingCollection{}, err
	}

	paged := entries.Collection
	if q.p.offset > 0 {
		paged = paged.Skip(q.p.offset)
	}
	if q.p.limit != 0 {
		paged = paged.Take(q.p.limit)
	}
	for _, pred := range q.filters {
		paged = paged.Filter(pred)
	}
	return record.TrackingCollection{Collection: paged}, nil
}

// ComposerSessionQuery queries session summaries derived from tracking
// entries.
type ComposerSessionQuery struct {
	src     Source
	p       pagination
	filters []func(*record.ComposerSession) bool
}

func (q *ComposerSessionQuery) Limit(n int) *ComposerSessionQuery {
	q.p.limit = n
	return q
}

func (q *ComposerSessionQuery) Offset(n int) *ComposerSessionQuery {
	q.p.offset = n
	return q
}

func (q *ComposerSessionQuery) Page(num, size int) *ComposerSessionQuery {
	q.p.setPage(num, size)
	return q
}

func (q *ComposerSessionQuery) Filter(pred func(*record.ComposerSession) bool) *ComposerSessionQuery {
	q.filters = append(q.filters, pred)
	return q
}

// SessionCriteria bundles the common session filters. FileExtension is
// ignored when empty; the file-count bounds apply when set.
type SessionCriteria struct {
	FileExtension string
	MinFiles      *int
	MaxFiles      *int
}

// Where appends predicates for every criteria field that is set.
func (q *ComposerSessionQuery) Where(c SessionCriteria) *ComposerSessionQuery {
	if c.FileExtension != "" {
		q.Filter(func(s *record.ComposerSession) bool {
			for _, ext := range s.FileExtensions {
				if ext == c.FileExtension {
					return true
				}
			}
			return false
		})
	}
	if c.MinFiles != nil || c.MaxFiles != nil {
		q.Filter(func(s *record.ComposerSession) bool {
			n := len(s.FilesModified)
			if c.MinFiles != nil && n < *c.MinFiles {
				return false
			}
			if c.MaxFiles != nil && n > *c.MaxFiles {
				return false
			}
			return true
		})
	}
	return q
}

// Execute derives sessions from the tracking entries, then pages and
// filters them.
func (q *ComposerSessionQuery) Execute() (record.ComposerSessionCollection, error) {
	entries, err := q.src.TrackingEntries()
	if err != nil {
		return record.ComposerSessionCollection{}, err
	}

	sessions := deriveSessions(entries)

	paged := record.NewComposerSessionCollection(sessions).Collection
	if q.p.offset > 0 {
		paged = paged.Skip(q.p.offset)
	}
	if q.p.limit != 0 {
		paged = paged.Take(q.p.limit)
	}
	for _, pred := range q.filters {
		paged = paged.Filter(pred)
	}
	return record.ComposerSessionCollection{Collection: paged}, nil
}

// deriveSessions groups tracking entries by composer id in first-occurrence
// order. Entries without a composer id are left out.
func deriveSessions(entries record.TrackingCollection) []*record.ComposerSession {
	var order []string
	grouped := make(map[string][]*record.TrackingEntry)
	entries.Each(func(e *record.TrackingEntry) {
		id := e.ComposerID()
		if id == "" {
			return
		}
		if _, seen := grouped[id]; !seen {
			order = append(order, id)
		}
		grouped[id] = append(grouped[id], e)
	})

	sessions := make([]*record.ComposerSession, 0, len(order))
	for _, id := range order {
		sessions = append(sessions, record.SessionFromEntries(id, grouped[id]))
	}
	return sessions
}
